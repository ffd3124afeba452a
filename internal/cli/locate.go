package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/session"
	"github.com/ppiankov/extractlens/internal/worker"
)

var (
	locateFlags    extractionFlags
	locateCategory string
	locateIndex    int
	locateAll      bool
	locateHTML     string
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate <file|->",
	Short: "Show where an extracted entity occurs in the document",
	Long: `Locate extracts entities from a document, then highlights one of them
in the source text together with its category and attributes.

With --all every entity is located and listed with the strategy that
found it and its character offset.

Example:
  extractlens locate report.txt --category adverse_event --index 0
  extractlens locate report.txt --category drug --html drug.html
  extractlens locate --sample --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateFlags.register(locateCmd)
	locateCmd.Flags().StringVar(&locateCategory, "category", "", "entity category (e.g. adverse_event)")
	locateCmd.Flags().IntVar(&locateIndex, "index", 0, "position of the entity within its category")
	locateCmd.Flags().BoolVar(&locateAll, "all", false, "locate every entity")
	locateCmd.Flags().StringVar(&locateHTML, "html", "", "write the highlighted document as HTML to this path")
}

func runLocate(cmd *cobra.Command, args []string) error {
	if !locateAll && locateCategory == "" {
		return fmt.Errorf("either --category or --all is required")
	}
	if locateAll && locateHTML != "" {
		return fmt.Errorf("--html needs a single entity (--category), not --all")
	}

	ctrl, cfg, err := startSession(cmd, &locateFlags, args, nil)
	if err != nil {
		return err
	}
	styles := newStyles(cfg)
	out := cmd.OutOrStdout()

	if locateAll {
		printResolved(out, styles, ctrl.ResolveAll(commandContext(cmd)))
		return nil
	}

	sel, err := ctrl.Select(locateCategory, locateIndex)
	if err != nil && !errors.Is(err, session.ErrNoMatch) {
		return err
	}

	fmt.Fprintln(out, sel.Mapping.Terminal(styles))
	if sel.View == nil {
		// Notice already printed; nothing to highlight
		return nil
	}

	fmt.Fprintln(out, sel.View.Terminal(styles))

	if locateHTML != "" {
		page, err := sel.View.HTML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(locateHTML, []byte(page), 0644); err != nil {
			return fmt.Errorf("write HTML: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ HTML written: %s\n", locateHTML)
	}

	return nil
}

func printResolved(w io.Writer, styles *highlight.Styles, results []*worker.ResolveResult) {
	for _, r := range results {
		if r.GetError() != nil {
			fmt.Fprintf(w, "%-12s %-20s %s\n", "error", r.Record.Category, r.Record.Text)
			continue
		}
		if !r.Span.Found() {
			fmt.Fprintf(w, "%s %-20s %s\n", styles.Warning.Render(fmt.Sprintf("%-12s", r.Span.Strategy)), r.Record.Category, r.Record.Text)
			continue
		}
		fmt.Fprintf(w, "%-12s %-20s %s %s\n",
			string(r.Span.Strategy),
			r.Record.Category,
			styles.Mark.Render(r.Span.MatchedText),
			styles.Muted.Render(fmt.Sprintf("@%d", r.Span.Start)))
	}
}
