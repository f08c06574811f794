// Package cli provides the semdoc command line interface built on cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the application bootstrap.
var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	documentService driving.DocumentService
	stagingService  driving.StagingService
	settingsService driving.SettingsService
)

// verbose enables debug logging for every command.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "semdoc",
	Short: "Per-document semantic search",
	Long: `semdoc splits a text document into overlapping word windows, embeds
each window and stores a vector index per document. Questions are answered
by returning the chunks closest to the query.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services holds the driving ports used by the commands.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Document driving.DocumentService
	Staging  driving.StagingService
	Settings driving.SettingsService
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	searchService = s.Search
	documentService = s.Document
	stagingService = s.Staging
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. ctx is cancelled to stop long-running
// commands such as serve and watch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
