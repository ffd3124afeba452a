package session

import (
	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/model"
)

// OutcomeKind is the result class of a submission
type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeEmptyInput     OutcomeKind = "empty_input"
	OutcomeServiceError   OutcomeKind = "service_error"
	OutcomeTransportError OutcomeKind = "transport_error"
	OutcomeRejected       OutcomeKind = "rejected"
	OutcomeStale          OutcomeKind = "stale"
)

// Outcome describes how a submission ended
type Outcome struct {
	Kind    OutcomeKind
	Count   int    // Catalogued records on success
	Message string // Text shown to the user
	Err     error
	Seq     uint64 // Submission number, 0 when never dispatched
}

// OK reports whether the submission replaced the session state
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

func (o Outcome) level() Level {
	switch o.Kind {
	case OutcomeSuccess:
		return LevelSuccess
	case OutcomeServiceError, OutcomeTransportError:
		return LevelError
	default:
		return LevelInfo
	}
}

// Selection is the result of choosing one entity
type Selection struct {
	Category string
	Index    int
	Record   model.ExtractionRecord
	Span     model.ResolvedSpan
	Mapping  highlight.SourceMapping
	View     *highlight.View // nil when the span was not found
}
