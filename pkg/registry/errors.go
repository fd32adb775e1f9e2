package registry

import (
	"errors"
	"fmt"
)

// ErrEmptyID is returned by Claim when asked to claim the empty id.
var ErrEmptyID = errors.New("element id must not be empty")

// CollisionError is returned by Claim under PolicyThrow when the id is
// already claimed in the scope.
type CollisionError struct {
	Scope string
	ID    ElementID
}

func (e *CollisionError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("duplicate element id %q in scope %q", e.ID, e.Scope)
	}
	return fmt.Sprintf("duplicate element id %q", e.ID)
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *CollisionError) Hint() string {
	return fmt.Sprintf("Another element already uses id %q. Give this element a different id, or remove the other one first.", e.ID)
}

// IsCollision reports whether err is, or wraps, a *CollisionError.
func IsCollision(err error) bool {
	var ce *CollisionError
	return errors.As(err, &ce)
}
