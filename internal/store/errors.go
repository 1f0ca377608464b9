package store

import "fmt"

// ValidationError reports user input that fails a precondition. The
// operation that returned it has not mutated any state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
