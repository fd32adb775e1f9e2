package reconcile

import "errors"

// ErrDisposed is returned by Evaluate after Dispose.
var ErrDisposed = errors.New("reconciler already disposed")

// ValidationError is returned when a required element id is missing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ValidationError) Hint() string {
	return "Set a non-empty id on this element, or mark the id as optional."
}

const requiredMessage = "element id must be a non-empty value when required"
