// Package model defines domain entities for the application.
package model

import (
	"fmt"
	"strings"
)

// ValidationError describes a single field-level input fault.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the full set of faults found in one request.
// Validation never stops at the first fault so the client can surface
// every problem at once.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a fault for the given field.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors reports whether any fault was recorded.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
