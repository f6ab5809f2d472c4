// Package schemas provides JSON Schema validation for payloads crossing
// the question-service boundary.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// questionResponseSchema describes the success payload of the
// question-generation service. Kept strict on the fields the session
// indexes by; extra fields are tolerated.
const questionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["questions", "generated_at", "candidate_id", "total_questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "field", "priority"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "field": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "priority": {"type": "integer"},
          "context": {"type": "string"}
        }
      }
    },
    "generated_at": {"type": "string"},
    "candidate_id": {"type": "string"},
    "total_questions": {"type": "integer"}
  }
}`

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateQuestionResponse validates a raw question-service response
// body against the embedded schema.
func ValidateQuestionResponse(body []byte) error {
	return validateString(questionResponseSchema, string(body))
}

func validateString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
