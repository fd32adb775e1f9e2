package scope

import (
	"fmt"
	"strings"
)

// Mode selects whether consumers are ever disposed.
type Mode int

const (
	// ModeInteractive consumers have a full lifecycle; Dispose releases claims.
	ModeInteractive Mode = iota
	// ModeOneShot consumers are evaluated once and never disposed.
	ModeOneShot
)

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeOneShot:
		return "oneshot"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "interactive" or "oneshot" (any case, "one-shot" and
// "static" accepted).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interactive":
		return ModeInteractive, nil
	case "oneshot", "one-shot", "static":
		return ModeOneShot, nil
	default:
		return ModeInteractive, fmt.Errorf("unknown execution mode %q (want interactive or oneshot)", s)
	}
}
