package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/connectors/filesystem"
	"github.com/custodia-labs/semdoc/internal/normalisers"
)

var (
	watchExtensions []string
	watchExisting   bool
	watchDebounce   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest text files dropped into a directory",
	Long: `Watches a directory and ingests every new or rewritten text file under
its base name. Markdown and HTML files are converted to plain text first.
Files whose name is already stored are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", []string{".txt", ".md"}, "file extensions to ingest")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "ingest files already in the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce, "wait for writes to settle")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	w := filesystem.NewWatcher(args[0], ingestService,
		filesystem.WithExtensions(watchExtensions...),
		filesystem.WithExisting(watchExisting),
		filesystem.WithDebounce(watchDebounce),
		filesystem.WithExtractor(normalisers.Default()),
		filesystem.WithResults(func(r filesystem.Result) {
			if r.Err == nil && r.Document != nil {
				cmd.Printf("Stored %s (%d chunks)\n", r.Document.Filename, r.Document.ChunkCount)
			}
		}),
	)
	defer func() { _ = w.Close() }()

	cmd.Printf("Watching %s for %s files\n", w.Root(), strings.Join(watchExtensions, ", "))
	return w.Run(cmd.Context())
}
