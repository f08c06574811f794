package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/normalisers"
)

var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Chunk, embed and store a text file",
	Long: `Reads a UTF-8 text file, splits it into overlapping word windows,
embeds every window and stores the resulting vector index.

Markdown and HTML files are converted to plain text first. Files with
other extensions are read as-is.

The document is stored under the file's base name unless --name is given.
A filename can be ingested only once; delete it first to replace it.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "store the document under this filename")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(data)
	if extractor := normalisers.Default(); extractor.Supports(path) {
		if text, err = extractor.Extract(cmd.Context(), path, data); err != nil {
			return err
		}
	}

	name := ingestName
	if name == "" {
		name = filepath.Base(path)
	}

	doc, err := ingestService.Ingest(cmd.Context(), text, name)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Stored %s (%d chunks)\n", doc.Filename, doc.ChunkCount)
	cmd.Printf("  ID:    %s\n", doc.ID)
	cmd.Printf("  Index: %s\n", doc.IndexPath)
	return nil
}
