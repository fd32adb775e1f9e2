package cli

import (
	"errors"
	"fmt"
	"io"
)

// Common CLI errors
var (
	ErrValidationFailed = errors.New("validation failed")
)

// hinter is implemented by errors that carry a suggestion for the user.
type hinter interface {
	Hint() string
}

// printError writes err and, when any error in its chain has one, its hint.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var h hinter
	if errors.As(err, &h) {
		if hint := h.Hint(); hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", hint)
		}
	}
}
