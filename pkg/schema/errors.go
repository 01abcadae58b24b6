package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key      string // Field name
	Expected string // Name of the declared type
	Reason   string // Human-readable reason for failure
	Value    any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q (%s): %s", e.Key, e.Expected, e.Reason)
	}
	return fmt.Sprintf("field %q (%s): %s (got %T)", e.Key, e.Expected, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.As and errors.Is.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all field failures carried by err.
// It returns nil when err holds no *AggregateError.
func ValidationErrors(err error) []*ValidationError {
	var aggr *AggregateError
	if !errors.As(err, &aggr) {
		return nil
	}
	out := make([]*ValidationError, 0, len(aggr.Errors))
	for _, e := range aggr.Errors {
		var ve *ValidationError
		if errors.As(e, &ve) {
			out = append(out, ve)
		}
	}
	return out
}

// FailedFields lists the keys of the fields that failed validation.
func FailedFields(err error) []string {
	errs := ValidationErrors(err)
	keys := make([]string, 0, len(errs))
	for _, e := range errs {
		keys = append(keys, e.Key)
	}
	return keys
}
