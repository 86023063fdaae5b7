package question

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSetSchema describes a question-set file on disk. Choices may be
// typed objects or (legacy) plain strings paired with a correctAnswer
// index; loading normalizes both forms to Choice before the engine ever
// sees them.
var questionSetSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"choices": map[string]any{
						"type":     "array",
						"minItems": 4,
						"items": map[string]any{
							"oneOf": []any{
								map[string]any{"type": "string"},
								map[string]any{
									"type": "object",
									"properties": map[string]any{
										"text":      map[string]any{"type": "string"},
										"isCorrect": map[string]any{"type": "boolean"},
									},
									"required": []any{"text"},
								},
							},
						},
					},
					"correctAnswer": map[string]any{
						"type":    "integer",
						"minimum": 0,
					},
					"explanation": map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
					"difficulty":  map[string]any{"type": "string"},
				},
				"required": []any{"question", "choices"},
			},
		},
	},
	"required": []any{"questions"},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileSchema compiles the question-set schema once per process.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		defBytes, err := json.Marshal(questionSetSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question-set.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
