// Package errors provides a lightweight structured error type (PipelineError)
// for category-based classification of content pipeline failures.
package errors

import "fmt"

// Category classifies a pipeline error for reporting.
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"

	// Processing errors
	CategoryFileSystem Category = "filesystem"
	CategoryRender     Category = "render"
	CategoryReference  Category = "reference"
	CategoryPipeline   Category = "pipeline"

	// Infrastructure errors
	CategoryStorage  Category = "storage"
	CategoryInternal Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops the run
	SeverityError   Severity = "error"   // Isolated failure, run continues
	SeverityWarning Severity = "warning" // Degraded functionality
)

// PipelineError is a structured error with category, severity and context.
type PipelineError struct {
	Category Category       `json:"category"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Cause    error          `json:"cause,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Cause }

// WithContext adds context information to the error.
func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new PipelineError.
func New(category Category, severity Severity, message string) *PipelineError {
	return &PipelineError{Category: category, Severity: severity, Message: message}
}

// Wrap creates a new PipelineError that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *PipelineError {
	return &PipelineError{Category: category, Severity: severity, Message: message, Cause: err}
}

// IsCategory checks whether an error belongs to a specific category.
func IsCategory(err error, category Category) bool {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, defaulting to
// CategoryInternal for plain errors.
func GetCategory(err error) Category {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Category
	}
	return CategoryInternal
}
