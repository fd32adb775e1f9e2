package registry

import (
	"fmt"
	"strings"
)

// Policy governs what Claim does when the id is already claimed.
type Policy int

const (
	// PolicyWarn rejects the claim, logs a warning and lets the caller continue.
	PolicyWarn Policy = iota
	// PolicyThrow rejects the claim and returns a *CollisionError.
	PolicyThrow
)

// String returns the lowercase policy name.
func (p Policy) String() string {
	switch p {
	case PolicyWarn:
		return "warn"
	case PolicyThrow:
		return "throw"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "warn" or "throw" (any case).
// "error" and "fail" are accepted as aliases of throw.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "warning":
		return PolicyWarn, nil
	case "throw", "error", "fail":
		return PolicyThrow, nil
	default:
		return PolicyWarn, fmt.Errorf("unknown collision policy %q (want warn or throw)", s)
	}
}
