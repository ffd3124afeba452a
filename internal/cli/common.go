package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/model"
	"github.com/ppiankov/extractlens/internal/service"
	"github.com/ppiankov/extractlens/internal/session"
)

// extractionFlags are shared by commands that submit a document
type extractionFlags struct {
	medical bool
	legal   bool
	modelID string
	sample  bool
}

func (f *extractionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.medical, "medical", false, "use the medical examples pack")
	cmd.Flags().BoolVar(&f.legal, "legal", false, "use the legal examples pack (wins over --medical)")
	cmd.Flags().StringVar(&f.modelID, "model", "", "model id passed to the service")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "submit the built-in sample report instead of a file")
}

// apply overrides configured extraction options with flags that were set
func (f *extractionFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("medical") || cmd.Flags().Changed("legal") {
		cfg.Extraction.MedicalExamples = f.medical
		cfg.Extraction.LegalExamples = f.legal
	}
	if f.modelID != "" {
		cfg.Extraction.ModelID = f.modelID
	}
}

// document returns the text to submit from --sample, a file, or stdin ("-")
func (f *extractionFlags) document(args []string, stdin io.Reader) (string, error) {
	if f.sample {
		return model.SampleReport, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("a file argument is required (use - for stdin or --sample)")
	}
	return readDocument(args[0], stdin)
}

func readDocument(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

func newStyles(cfg *model.Config) *highlight.Styles {
	if !cfg.Output.Color {
		return highlight.PlainStyles()
	}
	return highlight.NewStyles(nil)
}

// stderrNotifier prints session notices the way progress is printed elsewhere
func stderrNotifier(w io.Writer, styles *highlight.Styles) session.Notifier {
	return session.NotifierFunc(func(level session.Level, message string) {
		switch level {
		case session.LevelSuccess:
			fmt.Fprintf(w, "✓ %s\n", message)
		case session.LevelError:
			fmt.Fprintf(w, "%s\n", styles.Warning.Render("✗ "+message))
		default:
			fmt.Fprintf(w, "%s\n", styles.Muted.Render("• "+message))
		}
	})
}

// startSession loads configuration, builds a controller and submits the document.
// A nil notifier prints notices to stderr.
func startSession(cmd *cobra.Command, flags *extractionFlags, args []string, notifier session.Notifier) (*session.Controller, *model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	flags.apply(cmd, cfg)

	doc, err := flags.document(args, cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)
	client := service.NewClient(cfg, logger)
	if notifier == nil {
		notifier = stderrNotifier(cmd.ErrOrStderr(), newStyles(cfg))
	}
	ctrl := session.New(cfg, client, notifier, logger)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Service: %s\n", client.Endpoint())
		fmt.Fprintf(os.Stderr, "Examples: %s\n", cfg.Extraction.ExamplesType())
		fmt.Fprintf(os.Stderr, "Model: %s\n\n", cfg.Extraction.ModelID)
	}

	out := ctrl.Submit(commandContext(cmd), doc, session.OptionsFromConfig(cfg.Extraction))
	if !out.OK() {
		return nil, nil, out.Err
	}

	logger.Debug("cli.session.ready", slog.Int("records", out.Count))
	return ctrl, cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
