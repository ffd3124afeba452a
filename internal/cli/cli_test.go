package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/extractlens/internal/catalog"
	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/model"
	"github.com/ppiankov/extractlens/internal/session"
)

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("DRUG: Drug LMN"), 0644); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := readDocument(path, nil)
	if err != nil || got != "DRUG: Drug LMN" {
		t.Errorf("readDocument(file) = %q, %v", got, err)
	}

	got, err = readDocument("-", strings.NewReader("from stdin"))
	if err != nil || got != "from stdin" {
		t.Errorf("readDocument(-) = %q, %v", got, err)
	}

	if _, err := readDocument(filepath.Join(dir, "missing.txt"), nil); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestExtractionFlags_Document(t *testing.T) {
	f := &extractionFlags{sample: true}
	doc, err := f.document(nil, nil)
	if err != nil || doc != model.SampleReport {
		t.Errorf("Expected sample report, got %q, %v", doc, err)
	}

	f = &extractionFlags{}
	if _, err := f.document(nil, nil); err == nil {
		t.Error("Expected error without file or --sample")
	}
}

func TestPrintGroups(t *testing.T) {
	c := catalog.New()
	c.Load([]model.ExtractionRecord{
		{Text: "Severe rash", Category: "adverse_event"},
		{Text: "Drug LMN", Category: "drug"},
		{Text: "pruritus", Category: "adverse_event"},
	})

	var buf bytes.Buffer
	printGroups(&buf, highlight.PlainStyles(), c.Groups(), c.Records())

	want := "Adverse Event (adverse_event, 2)\n" +
		"  [0] Severe rash\n" +
		"  [1] pruritus\n" +
		"Drug (drug, 1)\n" +
		"  [0] Drug LMN\n"
	if buf.String() != want {
		t.Errorf("printGroups =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestStderrNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := stderrNotifier(&buf, highlight.PlainStyles())

	n.Notify(session.LevelSuccess, "Extraction completed! Found 2 entities.")
	n.Notify(session.LevelError, "Error: boom")
	n.Notify(session.LevelInfo, "Please enter some text.")

	want := "✓ Extraction completed! Found 2 entities.\n✗ Error: boom\n• Please enter some text.\n"
	if buf.String() != want {
		t.Errorf("Unexpected notices:\n%s", buf.String())
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".extractlens")
	path := filepath.Join(dir, "config.yaml")

	if err := writeDefaultConfig(dir, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected config file, got %v", err)
	}
	for _, want := range []string{"base_url: http://localhost:5000", "model_id: gemini-2.5-pro", "line_height: 22"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected config to contain %q", want)
		}
	}

	if err := writeDefaultConfig(dir, path); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if err := setDefaults(model.DefaultConfig()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	viper.SetEnvPrefix("EXTRACTLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	t.Setenv("EXTRACTLENS_SERVICE_BASE_URL", "http://extractor.internal:8080")
	t.Setenv("EXTRACTLENS_SESSION_SUPERSEDE", "true")
	t.Setenv("EXTRACTLENS_VIEW_LINE_HEIGHT", "18")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Service.BaseURL != "http://extractor.internal:8080" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if !cfg.Session.Supersede {
		t.Error("Expected supersede from env")
	}
	if cfg.View.LineHeight != 18 {
		t.Errorf("LineHeight = %d", cfg.View.LineHeight)
	}
	if cfg.Session.Timeout != model.DefaultConfig().Session.Timeout {
		t.Errorf("Expected default timeout, got %v", cfg.Session.Timeout)
	}
	if cfg.Service.PredictPath != "/predict" {
		t.Errorf("PredictPath = %q", cfg.Service.PredictPath)
	}
}

func TestMarshalConfig(t *testing.T) {
	cfg := model.DefaultConfig()

	data, err := marshalConfig(cfg, "toml")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[service]") || !strings.Contains(out, "base_url = ") {
		t.Errorf("Expected toml with yaml key names, got:\n%s", out)
	}

	data, err = marshalConfig(cfg, "yaml")
	if err != nil || !strings.Contains(string(data), "base_url:") {
		t.Errorf("Unexpected yaml output: %v\n%s", err, data)
	}

	if _, err := marshalConfig(cfg, "ini"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestWriteGroupsXLSX(t *testing.T) {
	records := []model.ExtractionRecord{
		{Text: "Drug LMN", Category: "drug", SourceSpan: &model.SourceSpan{Start: 6, End: 14}},
		{Text: "rash", Category: "adverse_event", Attributes: map[string]string{"severity": "mild", "onset": "day 2"}},
	}
	c := catalog.New()
	c.Load(records)

	path := filepath.Join(t.TempDir(), "entities.xlsx")
	if err := writeGroupsXLSX(path, c.Groups(), c.Records()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Entities")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Category" || rows[0][6] != "Attributes" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][0] != "drug" || rows[1][3] != "Drug LMN" || rows[1][4] != "6" || rows[1][5] != "14" {
		t.Errorf("Unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "Adverse Event" || rows[2][6] != "onset=day 2; severity=mild" {
		t.Errorf("Unexpected second row: %v", rows[2])
	}
}
