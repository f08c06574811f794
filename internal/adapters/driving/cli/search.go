package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

var (
	searchK    int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [file] [query]",
	Short: "Search one document",
	Long: `Embeds the query and returns the chunks of the named document whose
vectors are closest to it, nearest first. Distances are L2.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "k", "k", domain.DefaultSearchK, "number of chunks to return")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	filename, query := args[0], args[1]
	hits, err := searchService.Search(cmd.Context(), filename, query, searchK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	outputSearchTable(cmd, hits)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.SearchHit) {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	if isTerminal(cmd.OutOrStdout()) {
		cmd.Println("Results:")
		cmd.Println()
	}
	for i := range hits {
		cmd.Printf("  [%d] chunk #%d (%.4f)\n", i+1, hits[i].Ordinal, hits[i].Distance)
		cmd.Printf("      %s\n", strings.Join(strings.Fields(hits[i].ChunkText), " "))
		cmd.Println()
	}
}
