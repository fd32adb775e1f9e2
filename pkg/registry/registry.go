package registry

import (
	"log/slog"

	"github.com/getmockd/idscope/pkg/logging"
)

// ElementID is an identifier protected against duplication within a scope.
// The empty string means "no id".
type ElementID = string

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for collision warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = logging.OrNop(l) }
}

// WithObserver sets the observer notified of claims, releases and collisions.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithName names the scope the registry belongs to. The name shows up in
// log records and in CollisionError.
func WithName(name string) Option {
	return func(r *Registry) { r.name = name }
}

// Registry is the set of element ids currently claimed in one scope.
// It is not safe for concurrent use.
type Registry struct {
	name     string
	policy   Policy
	claimed  map[ElementID]struct{}
	logger   *slog.Logger
	observer Observer
}

// New creates an empty registry with the given collision policy.
func New(policy Policy, opts ...Option) *Registry {
	r := &Registry{
		policy:   policy,
		claimed:  make(map[ElementID]struct{}),
		logger:   logging.Nop(),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the scope name given with WithName.
func (r *Registry) Name() string { return r.name }

// Policy returns the collision policy.
func (r *Registry) Policy() Policy { return r.policy }

// Claim inserts id and returns true. When id is already claimed the set is
// left unchanged, the policy side effect runs exactly once and Claim returns
// false: under PolicyWarn with a nil error, under PolicyThrow with a
// *CollisionError.
func (r *Registry) Claim(id ElementID) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}

	if _, taken := r.claimed[id]; taken {
		r.observer.OnCollision(r.name, id, r.policy)
		if r.policy == PolicyThrow {
			return false, &CollisionError{Scope: r.name, ID: id}
		}
		r.logger.Warn("duplicate element id, keeping the existing claim",
			"id", id,
			"scope", r.name,
		)
		return false, nil
	}

	r.claimed[id] = struct{}{}
	r.observer.OnClaim(r.name, id)
	return true, nil
}

// Release removes id and reports whether it was present. The empty id and
// ids that are not claimed are no-ops.
func (r *Registry) Release(id ElementID) bool {
	if id == "" {
		return false
	}
	if _, ok := r.claimed[id]; !ok {
		return false
	}
	delete(r.claimed, id)
	r.observer.OnRelease(r.name, id)
	return true
}

