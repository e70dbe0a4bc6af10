// Package schema validates imported documents against embedded JSON Schemas.
package schema

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const (
	Resumes = "resumes.schema.json"
	Job     = "job.schema.json"
)

//go:embed schemas/*.json
var files embed.FS

var (
	mu       sync.Mutex
	compiled = map[string]*gojsonschema.Schema{}
)

// ValidationError lists every schema violation found in a document.
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
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateResumes checks a decoded list of extracted résumé documents.
func ValidateResumes(doc any) error {
	return Validate(Resumes, gojsonschema.NewGoLoader(doc))
}

// ValidateJob checks a decoded job requirement document.
func ValidateJob(doc any) error {
	return Validate(Job, gojsonschema.NewGoLoader(doc))
}

// Validate checks the document against one of the embedded schemas.
func Validate(name string, document gojsonschema.JSONLoader) error {
	s, err := load(name)
	if err != nil {
		return err
	}

	result, err := s.Validate(document)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
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

func load(name string) (*gojsonschema.Schema, error) {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	data, err := files.ReadFile("schemas/" + name)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}

	compiled[name] = s
	return s, nil
}
