// Package schemas provides JSON Schema validation for the finding wire format.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed finding.schema.json
var findingSchemaJSON string

var (
	findingSchema     *gojsonschema.Schema
	findingSchemaOnce sync.Once
	findingSchemaErr  error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load finding schema: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load finding schema: %s", e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func loadFindingSchema() (*gojsonschema.Schema, error) {
	findingSchemaOnce.Do(func() {
		loader := gojsonschema.NewStringLoader(findingSchemaJSON)
		findingSchema, findingSchemaErr = gojsonschema.NewSchema(loader)
	})
	if findingSchemaErr != nil {
		return nil, &SchemaLoadError{Message: "schema compilation failed", Cause: findingSchemaErr}
	}
	return findingSchema, nil
}

// ValidateFinding validates a single finding object in its wire form.
// Returns a *ValidationError listing every violated constraint.
func ValidateFinding(data []byte) error {
	schema, err := loadFindingSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SchemaLoadError{Message: "document could not be validated", Cause: err}
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
