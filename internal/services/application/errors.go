package application

import (
	"fmt"
	"strings"
)

// ValidationError lists the fields that blocked a submission. It is
// client-correctable: the caller stays in editing, fixes the named fields
// and resubmits. No side effects have happened by the time it is raised.
type ValidationError struct {
	Missing []string
	Invalid []string
}

// AddMissing records a required field that was absent
func (e *ValidationError) AddMissing(field string) {
	e.Missing = append(e.Missing, field)
}

// AddInvalid records a field whose value failed validation
func (e *ValidationError) AddInvalid(field string) {
	e.Invalid = append(e.Invalid, field)
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}

// Fields returns all offending field names, missing first
func (e *ValidationError) Fields() []string {
	return append(append([]string{}, e.Missing...), e.Invalid...)
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid fields: %s", strings.Join(e.Invalid, ", ")))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}
