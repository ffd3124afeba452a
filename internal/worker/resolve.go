package worker

import (
	"context"
	"sort"

	"github.com/ppiankov/extractlens/internal/model"
)

// Resolver locates an extraction record in a document
type Resolver interface {
	Resolve(document string, record model.ExtractionRecord) model.ResolvedSpan
}

// ResolveJob locates one record
type ResolveJob struct {
	Index    int
	Document string
	Record   model.ExtractionRecord
	Resolver Resolver
}

// Execute executes the resolve job
func (j *ResolveJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ResolveResult{Index: j.Index, Record: j.Record, Span: model.NoSpan(), Error: err}
	}
	return &ResolveResult{
		Index:  j.Index,
		Record: j.Record,
		Span:   j.Resolver.Resolve(j.Document, j.Record),
	}
}

// ResolveResult is the span found for one record
type ResolveResult struct {
	Index  int
	Record model.ExtractionRecord
	Span   model.ResolvedSpan
	Error  error
}

// GetError returns the error from the resolve result
func (r *ResolveResult) GetError() error {
	return r.Error
}

// BatchResolver resolves many records concurrently
type BatchResolver struct {
	resolver    Resolver
	concurrency int
}

// NewBatchResolver creates a new batch resolver
func NewBatchResolver(resolver Resolver, concurrency int) *BatchResolver {
	return &BatchResolver{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// ResolveAll resolves every record against document.
// Results come back in record order regardless of completion order.
func (b *BatchResolver) ResolveAll(ctx context.Context, document string, records []model.ExtractionRecord) []*ResolveResult {
	if len(records) == 0 {
		return []*ResolveResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, rec := range records {
		if !pool.Submit(&ResolveJob{Index: i, Document: document, Record: rec, Resolver: b.resolver}) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*ResolveResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*ResolveResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}
