package scope

import (
	"log/slog"

	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/reconcile"
	"github.com/getmockd/idscope/pkg/registry"
	"github.com/google/uuid"
)

// Handle identifies one consumer within a Scope. It must stay the same
// across the consumer's re-evaluations and change when the consumer is
// re-created.
type Handle string

// NewHandle mints a fresh consumer handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// Option configures a Scope.
type Option func(*Scope)

// WithMode sets the execution mode. The default is ModeInteractive.
func WithMode(m Mode) Option {
	return func(s *Scope) { s.mode = m }
}

// WithLogger sets the logger for consumer lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scope) { s.logger = logging.OrNop(l) }
}

// Scope ties a registry to the consumers that claim ids in it.
// Like the registry, it is confined to one goroutine.
type Scope struct {
	registry  *registry.Registry
	claims    *tally
	mode      Mode
	consumers map[Handle]*reconcile.Reconciler
	logger    *slog.Logger
}

// tally passes claims through to the registry and counts the ids held by
// the scope's consumers.
type tally struct {
	reg *registry.Registry
	n   int
}

func (t *tally) Claim(id registry.ElementID) (bool, error) {
	ok, err := t.reg.Claim(id)
	if ok {
		t.n++
	}
	return ok, err
}

func (t *tally) Release(id registry.ElementID) bool {
	if !t.reg.Release(id) {
		return false
	}
	t.n--
	return true
}

// New creates a Scope over reg.
func New(reg *registry.Registry, opts ...Option) *Scope {
	s := &Scope{
		registry:  reg,
		claims:    &tally{reg: reg},
		consumers: make(map[Handle]*reconcile.Reconciler),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the scope's registry.
func (s *Scope) Registry() *registry.Registry { return s.registry }

// Mode returns the execution mode.
func (s *Scope) Mode() Mode { return s.mode }

// Consumers returns the number of consumers holding a Reconciler.
func (s *Scope) Consumers() int { return len(s.consumers) }

// Claimed returns the number of ids claimed through this scope and not yet
// released. Claims of forgotten consumers still count.
func (s *Scope) Claimed() int {
	if s == nil {
		return 0
	}
	return s.claims.n
}

// UseElementID is the consumer-facing entry point. Every consumer calls it
// on each evaluation with the id it wants (or "") and whether the id is
// required. Errors are returned unchanged: *ConfigurationError when no
// registry is reachable, *reconcile.ValidationError for a missing required
// id and *registry.CollisionError under the throw policy.
func (s *Scope) UseElementID(h Handle, desired registry.ElementID, required bool) error {
	if s == nil || s.registry == nil {
		return errNoRegistry()
	}

	rec, ok := s.consumers[h]
	if !ok {
		rec = reconcile.New(s.claims)
		s.consumers[h] = rec
		s.logger.Debug("consumer created", "consumer", string(h), "scope", s.registry.Name())
	}
	return rec.Evaluate(desired, required)
}

// UseElementID calls s.UseElementID, reporting a *ConfigurationError when
// s is nil.
func UseElementID(s *Scope, h Handle, desired registry.ElementID, required bool) error {
	return s.UseElementID(h, desired, required)
}

// Owned returns the id held by the consumer, or "" when it holds none or is
// unknown.
func (s *Scope) Owned(h Handle) registry.ElementID {
	if s == nil {
		return ""
	}
	if rec, ok := s.consumers[h]; ok {
		return rec.Owned()
	}
	return ""
}

// Dispose tears down the consumer's Reconciler, releasing its claim.
// In ModeOneShot disposal never fires: Dispose returns false and leaves the
// claim in place. It also returns false for unknown handles.
func (s *Scope) Dispose(h Handle) bool {
	if s == nil || s.mode == ModeOneShot {
		return false
	}
	rec, ok := s.consumers[h]
	if !ok {
		return false
	}
	owned := rec.Owned()
	rec.Dispose()
	delete(s.consumers, h)
	s.logger.Debug("consumer disposed", "consumer", string(h), "released", owned)
	return true
}

// Forget drops the consumer's Reconciler without releasing its claim, the
// way a one-shot scope lets go of a consumer. It reports whether h was
// known.
func (s *Scope) Forget(h Handle) bool {
	if s == nil {
		return false
	}
	if _, ok := s.consumers[h]; !ok {
		return false
	}
	delete(s.consumers, h)
	s.logger.Debug("consumer forgotten", "consumer", string(h))
	return true
}

// Close disposes every consumer still held by the scope and returns how
// many were disposed. It is a no-op in ModeOneShot.
func (s *Scope) Close() int {
	if s == nil || s.mode == ModeOneShot {
		return 0
	}
	n := 0
	for h := range s.consumers {
		if s.Dispose(h) {
			n++
		}
	}
	return n
}
