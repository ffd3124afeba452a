// Package session coordinates one document, its extraction results and the
// entity highlight the user is looking at.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/extractlens/internal/catalog"
	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/locate"
	"github.com/ppiankov/extractlens/internal/model"
	"github.com/ppiankov/extractlens/internal/service"
	"github.com/ppiankov/extractlens/internal/worker"
)

const defaultTimeout = 2 * time.Minute

// Options are the per-submission service parameters
type Options struct {
	ExamplesType string
	ModelID      string
}

// OptionsFromConfig builds submission options from configuration
func OptionsFromConfig(cfg model.ExtractionConfig) Options {
	return Options{
		ExamplesType: cfg.ExamplesType(),
		ModelID:      cfg.ModelID,
	}
}

type selectionKey struct {
	category string
	index    int
}

// Controller owns the session state. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	extractor service.Extractor
	resolver  worker.Resolver
	batch     *worker.BatchResolver
	renderer  *highlight.Renderer
	catalog   *catalog.Catalog
	notifier  Notifier
	logger    *slog.Logger

	timeout   time.Duration
	supersede bool

	document string
	busy     bool
	seq      uint64
	cancel   context.CancelFunc
	selected *selectionKey
}

// New creates a controller. A nil notifier logs notices through logger.
func New(cfg *model.Config, extractor service.Extractor, notifier Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	timeout := cfg.Session.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	resolver := locate.NewLocatorWithOptions(locate.OptionsFromConfig(cfg.Locate))

	return &Controller{
		extractor: extractor,
		resolver:  resolver,
		batch:     worker.NewBatchResolver(resolver, cfg.Concurrency.ResolveWorkers),
		renderer:  highlight.NewRenderer(highlight.ViewportFromConfig(cfg.View)),
		catalog:   catalog.New(),
		notifier:  notifier,
		logger:    logger,
		timeout:   timeout,
		supersede: cfg.Session.Supersede,
	}
}

// Submit sends document to the extraction service and, on success,
// replaces the session contents with the result.
func (c *Controller) Submit(ctx context.Context, document string, opts Options) Outcome {
	if strings.TrimSpace(document) == "" {
		return c.report(Outcome{Kind: OutcomeEmptyInput, Message: "Please enter some text.", Err: ErrEmptyInput})
	}

	c.mu.Lock()
	if c.busy && !c.supersede {
		c.mu.Unlock()
		return c.report(Outcome{Kind: OutcomeRejected, Message: "An extraction is already in progress.", Err: ErrBusy})
	}
	if c.busy && c.cancel != nil {
		c.logger.Debug("session.submit.supersede", "seq", c.seq)
		c.cancel()
	}
	c.seq++
	seq := c.seq
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	c.cancel = cancel
	c.busy = true
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.seq == seq {
			c.busy = false
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	c.logger.Info("session.submit.start", "seq", seq, "chars", len([]rune(document)), "examples_type", opts.ExamplesType)

	resp, err := c.extractor.Extract(callCtx, model.ExtractRequest{
		Text:         document,
		ExamplesType: opts.ExamplesType,
		ModelID:      opts.ModelID,
	})

	outcome := c.apply(seq, document, resp, err)
	c.logger.Info("session.submit.done", "seq", seq, "kind", string(outcome.Kind), "count", outcome.Count)
	return c.report(outcome)
}

// apply commits a finished submission if it is still the latest one
func (c *Controller) apply(seq uint64, document string, resp *model.ExtractResponse, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return Outcome{Kind: OutcomeStale, Message: "Previous extraction was superseded.", Err: ErrStale, Seq: seq}
	}

	if err != nil {
		if apiErr, ok := service.IsAPIError(err); ok {
			svcErr := &ServiceError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
			return Outcome{Kind: OutcomeServiceError, Message: "Error: " + svcErr.Message, Err: svcErr, Seq: seq}
		}
		trErr := &TransportError{Err: err}
		return Outcome{Kind: OutcomeTransportError, Message: "Error during extraction: " + err.Error(), Err: trErr, Seq: seq}
	}
	if resp == nil {
		trErr := &TransportError{Err: errors.New("empty response")}
		return Outcome{Kind: OutcomeTransportError, Message: "Error during extraction: " + trErr.Err.Error(), Err: trErr, Seq: seq}
	}

	c.document = document
	c.catalog.Load(resp.Result.Extractions)
	c.renderer.Clear()
	c.selected = nil

	count := c.catalog.Len()
	var msg string
	switch {
	case count == 0:
		msg = "No extractions found."
	case resp.ExtractionsCount > 0:
		msg = fmt.Sprintf("Extraction completed! Found %d entities.", resp.ExtractionsCount)
	default:
		msg = "Extraction completed successfully!"
	}

	return Outcome{Kind: OutcomeSuccess, Count: count, Message: msg, Seq: seq}
}

func (c *Controller) report(o Outcome) Outcome {
	c.notifier.Notify(o.level(), o.Message)
	return o
}

// Select highlights the index-th entity of category.
// An entity with no trace in the document yields ErrNoMatch and nothing
// highlighted; the returned Selection still carries the record.
func (c *Controller) Select(category string, index int) (Selection, error) {
	c.mu.Lock()
	sel, err := c.selectLocked(category, index)
	c.mu.Unlock()

	if errors.Is(err, ErrNoMatch) {
		c.notifier.Notify(LevelInfo, fmt.Sprintf("Could not locate source text for %q.", sel.Record.Text))
	}
	return sel, err
}

func (c *Controller) selectLocked(category string, index int) (Selection, error) {
	rec, ok := c.catalog.Resolve(category, index)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %s #%d", ErrUnknownEntity, category, index)
	}

	span := c.resolver.Resolve(c.document, rec)
	sel := Selection{
		Category: rec.Category,
		Index:    index,
		Record:   rec,
		Span:     span,
		Mapping:  highlight.NewSourceMapping(rec, span),
		View:     c.renderer.Show(c.document, span),
	}
	c.selected = &selectionKey{category: rec.Category, index: index}

	c.logger.Debug("session.select", "category", rec.Category, "index", index, "strategy", string(span.Strategy), "start", span.Start)

	if !span.Found() {
		return sel, ErrNoMatch
	}
	return sel, nil
}

// Toggle selects an entity, or deselects it when it is already selected.
// The bool reports whether a selection is active afterwards.
func (c *Controller) Toggle(category string, index int) (Selection, bool, error) {
	if category == "" {
		category = model.DefaultCategory
	}

	c.mu.Lock()
	if c.selected != nil && c.selected.category == category && c.selected.index == index {
		c.deselectLocked()
		c.mu.Unlock()
		return Selection{}, false, nil
	}
	c.mu.Unlock()

	sel, err := c.Select(category, index)
	if err != nil && !errors.Is(err, ErrNoMatch) {
		return sel, false, err
	}
	return sel, true, err
}

// Deselect clears the highlight and the current selection
func (c *Controller) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deselectLocked()
}

func (c *Controller) deselectLocked() {
	c.renderer.Clear()
	c.selected = nil
}

// ResolveAll locates every catalogued entity, in catalog order
func (c *Controller) ResolveAll(ctx context.Context) []*worker.ResolveResult {
	c.mu.Lock()
	document := c.document
	records := append([]model.ExtractionRecord(nil), c.catalog.Records()...)
	c.mu.Unlock()

	results := c.batch.ResolveAll(ctx, document, records)

	missing := 0
	for _, r := range results {
		if !r.Span.Found() {
			missing++
		}
	}
	c.logger.Debug("session.resolve_all", "records", len(records), "missing", missing)

	return results
}

// Document returns the text of the last successful submission
func (c *Controller) Document() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.document
}

// Groups returns the catalogued categories in first-seen order
func (c *Controller) Groups() []catalog.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Groups()
}

// Records returns the catalogued records in service order
func (c *Controller) Records() []model.ExtractionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ExtractionRecord(nil), c.catalog.Records()...)
}

// Active returns the highlight currently shown, or nil
func (c *Controller) Active() *highlight.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer.Active()
}

// Busy reports whether a submission is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
