package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppiankov/extractlens/internal/browse"
)

var browseFlags extractionFlags

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse <file|->",
	Short: "Browse extracted entities interactively",
	Long: `Browse extracts entities from a document and opens a terminal view with
the entities on the left and the document on the right.

Press enter on an entity to highlight it in the document and enter again
to clear it. Esc clears the highlight, q quits.

Example:
  extractlens browse report.txt
  extractlens browse --sample --medical`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseFlags.register(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse needs an interactive terminal; use 'extractlens locate' instead")
	}

	status := &browse.StatusLine{}
	ctrl, cfg, err := startSession(cmd, &browseFlags, args, status)
	if err != nil {
		return err
	}

	p := tea.NewProgram(browse.New(ctrl, status, newStyles(cfg)), tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	return nil
}
