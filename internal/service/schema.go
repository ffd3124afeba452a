package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema describes what /predict may return. Attribute values and
// nullable fields are accepted as the service emits them and cleaned up in
// decode.
const responseSchema = `{
  "type": "object",
  "properties": {
    "error": {"type": "string"},
    "message": {"type": "string"},
    "extractions_count": {"type": "integer", "minimum": 0},
    "examples_type": {"type": "string"},
    "model_used": {"type": "string"},
    "result": {
      "type": "object",
      "properties": {
        "extractions": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "extraction_text": {"type": ["string", "null"]},
              "extraction_class": {"type": ["string", "null"]},
              "attributes": {
                "type": ["object", "null"],
                "additionalProperties": {"type": ["string", "number", "boolean", "array", "object", "null"]}
              },
              "char_interval": {
                "type": ["object", "null"],
                "properties": {
                  "start_pos": {"type": ["integer", "null"]},
                  "end_pos": {"type": ["integer", "null"]}
                }
              }
            }
          }
        }
      },
      "required": ["extractions"]
    }
  },
  "anyOf": [
    {"required": ["error"]},
    {"required": ["result"]}
  ]
}`

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("response.json", strings.NewReader(responseSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("response.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ValidateResponse checks a raw response body against the response schema
func ValidateResponse(body []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	// Numbers stay json.Number so integer checks see the literal
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
