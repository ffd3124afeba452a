package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ppiankov/extractlens/internal/model"
)

type wireResponse struct {
	Result *struct {
		Extractions []wireRecord `json:"extractions"`
	} `json:"result"`
	ExtractionsCount int    `json:"extractions_count"`
	ExamplesType     string `json:"examples_type"`
	ModelUsed        string `json:"model_used"`
	Message          string `json:"message"`
	Error            string `json:"error"`
}

type wireRecord struct {
	Text       *string        `json:"extraction_text"`
	Category   *string        `json:"extraction_class"`
	Attributes map[string]any `json:"attributes"`
	Interval   *struct {
		Start *int `json:"start_pos"`
		End   *int `json:"end_pos"`
	} `json:"char_interval"`
}

// decodeResponse turns a validated body into model types.
// Null attribute values are dropped, other scalars are stringified and
// nested values are JSON-encoded.
func decodeResponse(body []byte) (*model.ExtractResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var wire wireResponse
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	resp := &model.ExtractResponse{
		ExtractionsCount: wire.ExtractionsCount,
		ExamplesType:     wire.ExamplesType,
		ModelUsed:        wire.ModelUsed,
		Message:          wire.Message,
		Error:            wire.Error,
	}
	if wire.Result == nil {
		return resp, nil
	}

	resp.Result.Extractions = make([]model.ExtractionRecord, 0, len(wire.Result.Extractions))
	for _, w := range wire.Result.Extractions {
		resp.Result.Extractions = append(resp.Result.Extractions, w.toModel())
	}
	return resp, nil
}

func (w wireRecord) toModel() model.ExtractionRecord {
	var rec model.ExtractionRecord
	if w.Text != nil {
		rec.Text = *w.Text
	}
	if w.Category != nil {
		rec.Category = *w.Category
	}

	for k, v := range w.Attributes {
		s, ok := attributeString(v)
		if !ok {
			continue
		}
		if rec.Attributes == nil {
			rec.Attributes = make(map[string]string, len(w.Attributes))
		}
		rec.Attributes[k] = s
	}

	if w.Interval != nil && w.Interval.Start != nil && w.Interval.End != nil {
		rec.SourceSpan = &model.SourceSpan{Start: *w.Interval.Start, End: *w.Interval.End}
	}
	return rec
}

func attributeString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val), true
		}
		return string(b), true
	}
}
