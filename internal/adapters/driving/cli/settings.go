package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

func filterList(filters []string) string {
	switch {
	case filters == nil:
		return "default"
	case len(filters) == 0:
		return "none"
	default:
		return strings.Join(filters, ", ")
	}
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure chunking, embedding, storage and server settings.

Settings live in config.toml under the data directory. SEMDOC_* environment
variables override file values without being written back.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used to vectorise chunks and queries.

Documents indexed with one model cannot be searched with another. Changing
the provider or its dimensions requires re-ingesting existing documents.`,
	RunE: runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("Data dir: %s\n\n", settings.DataDir)

	cmd.Println("[Chunking]")
	cmd.Printf("  Window:  %d words\n", settings.Chunking.Window)
	cmd.Printf("  Overlap: %d words\n", settings.Chunking.Overlap)
	cmd.Printf("  Filters: %s\n", filterList(settings.Chunking.Filters))
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider:   %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model:      %s\n", settings.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	if settings.Embedding.Provider.IsRemote() {
		cmd.Printf("  Base URL:   %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key:    %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key:    (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Backend: %s\n", settings.Index.Backend)
	if settings.Index.Backend == domain.BlobBackendS3 {
		cmd.Printf("  Bucket:  %s\n", settings.Index.S3.Bucket)
	} else {
		cmd.Printf("  Dir:     %s\n", settings.Index.Dir)
	}
	cmd.Printf("  Cache:   %d indexes\n", settings.Index.CacheSize)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default k: %d\n", settings.Search.DefaultK)
	cmd.Printf("  Max k:     %d\n", settings.Search.MaxK)
	cmd.Println()

	cmd.Println("[Pending]")
	cmd.Printf("  Backend: %s\n", settings.Pending.Backend)
	cmd.Printf("  TTL:     %s\n", settings.Pending.TTL)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Addr:         %s\n", settings.Server.Addr)
	cmd.Printf("  CORS origins: %s\n", strings.Join(settings.Server.CORSOrigins, ", "))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'semdoc settings embedding' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[provider]
	cmd.Printf("Model [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("an API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to set embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider set to: %s (%s)\n", provider.Description(), model)
	return nil
}
