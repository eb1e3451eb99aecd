package template

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schemaBytes holds the JSON Schema for template documents.
// It is set by the schemas package init or by SetSchema() for testing.
var schemaBytes []byte

// SetSchema sets the JSON Schema bytes used for validation.
func SetSchema(data []byte) {
	schemaBytes = data
}

// GetSchema returns the registered JSON Schema bytes.
func GetSchema() []byte {
	return schemaBytes
}

// HasSchema reports whether a schema has been registered.
func HasSchema() bool {
	return len(schemaBytes) > 0
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationResult holds the outcome of a template validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Err folds the failures into one error, or returns nil for a valid result.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Description))
	}
	return fmt.Errorf("invalid template: %s", strings.Join(parts, "; "))
}

// Validate checks a raw template document against the registered schema.
func Validate(data []byte) (*ValidationResult, error) {
	if len(schemaBytes) == 0 {
		return nil, fmt.Errorf("template schema not loaded; call template.SetSchema() or import the schemas package")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("running schema validation: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:       e.Field(),
			Description: e.Description(),
		})
	}
	return vr, nil
}
