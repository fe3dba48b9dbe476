package schema

import "fmt"

// ValidationError represents a single option field failing validation.
type ValidationError struct {
	Key    string // Option field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("option %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("option %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError collects every field failure of one fragment validation.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns the individual failures if err is an
// AggregateError, nil otherwise.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
