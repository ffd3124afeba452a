package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/extractlens/internal/catalog"
	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/model"
)

var (
	extractFlags extractionFlags
	extractJSON  string
	extractXLSX  string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|->",
	Short: "Extract entities from a document and list them by category",
	Long: `Extract sends a document to the extraction service and prints the
returned entities grouped by category, in the order the service found them.

The index shown next to each entity is what 'extractlens locate' expects.

Example:
  extractlens extract report.txt
  extractlens extract - --legal < contract.txt
  extractlens extract --sample --json entities.json
  extractlens extract report.txt --xlsx entities.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractFlags.register(extractCmd)
	extractCmd.Flags().StringVar(&extractJSON, "json", "", "also write the grouped result as JSON to this path")
	extractCmd.Flags().StringVar(&extractXLSX, "xlsx", "", "also write the entities as a spreadsheet to this path")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := startSession(cmd, &extractFlags, args, nil)
	if err != nil {
		return err
	}

	groups := ctrl.Groups()
	records := ctrl.Records()
	printGroups(cmd.OutOrStdout(), newStyles(cfg), groups, records)

	if extractJSON != "" {
		if err := writeGroupsJSON(extractJSON, groups, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ JSON written: %s\n", extractJSON)
	}

	if extractXLSX != "" {
		if err := writeGroupsXLSX(extractXLSX, groups, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Spreadsheet written: %s\n", extractXLSX)
	}

	return nil
}

func printGroups(w io.Writer, styles *highlight.Styles, groups []catalog.Group, records []model.ExtractionRecord) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s %s\n", styles.Heading.Render(g.Label), styles.Muted.Render(fmt.Sprintf("(%s, %d)", g.Category, len(g.Indices))))
		for i, idx := range g.Indices {
			fmt.Fprintf(w, "  [%d] %s\n", i, records[idx].Text)
		}
	}
}

type groupedRecords struct {
	Category string                   `json:"category"`
	Label    string                   `json:"label"`
	Entities []model.ExtractionRecord `json:"entities"`
}

func writeGroupsJSON(path string, groups []catalog.Group, records []model.ExtractionRecord) error {
	out := make([]groupedRecords, 0, len(groups))
	for _, g := range groups {
		entry := groupedRecords{Category: g.Category, Label: g.Label}
		for _, idx := range g.Indices {
			entry.Entities = append(entry.Entities, records[idx])
		}
		out = append(out, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// writeGroupsXLSX writes one row per entity, in the same order as printGroups
func writeGroupsXLSX(path string, groups []catalog.Group, records []model.ExtractionRecord) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close spreadsheet: %w", closeErr)
		}
	}()

	const sheet = "Entities"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headers := []string{"Category", "Label", "Index", "Text", "Start", "End", "Attributes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, g := range groups {
		for i, idx := range g.Indices {
			rec := records[idx]
			values := []any{g.Category, g.Label, i, rec.Text, "", "", formatAttributes(rec.Attributes)}
			if rec.SourceSpan != nil {
				values[4] = rec.SourceSpan.Start
				values[5] = rec.SourceSpan.End
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 20)
	_ = f.SetColWidth(sheet, "C", "C", 8)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	_ = f.SetColWidth(sheet, "E", "F", 8)
	_ = f.SetColWidth(sheet, "G", "G", 40)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

// formatAttributes renders attributes as "k=v; k=v" with sorted keys
func formatAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, "; ")
}
