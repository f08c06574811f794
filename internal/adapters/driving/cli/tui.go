package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI.

Without a file the UI opens on the document list. With a file it opens
directly on the search view for that document.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Open chunk
  n        - New search
  +/-      - More or fewer results
  Esc      - Back
  ?        - Help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !isTerminal(os.Stdout) {
		return errors.New("tui requires an interactive terminal")
	}

	app, err := tui.NewApp(&tui.Ports{
		Search:   searchService,
		Document: documentService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())
	if len(args) == 1 {
		app.WithDocument(args[0])
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
