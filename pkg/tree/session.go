package tree

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/registry"
	"github.com/getmockd/idscope/pkg/scope"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for mount and unmount events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(l) }
}

type mounted struct {
	handle  scope.Handle
	desired registry.ElementID
}

// Session evaluates a Program against one scope over time.
// It is confined to the scope's goroutine.
type Session struct {
	prog    *Program
	scope   *scope.Scope
	state   map[string]any
	mounted map[string]*mounted
	logger  *slog.Logger
}

// NodeStatus describes one mounted element after a pass.
type NodeStatus struct {
	Path    string
	Type    string
	Desired registry.ElementID
	Owned   registry.ElementID
}

// NewSession starts a session with the document's initial state. Nothing
// is mounted until the first Evaluate.
func NewSession(prog *Program, sc *scope.Scope, opts ...Option) *Session {
	s := &Session{
		prog:    prog,
		scope:   sc,
		state:   maps.Clone(prog.doc.State),
		mounted: make(map[string]*mounted),
		logger:  logging.Nop(),
	}
	if s.state == nil {
		s.state = make(map[string]any)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() map[string]any { return maps.Clone(s.state) }

// Mounted returns the number of mounted elements.
func (s *Session) Mounted() int { return len(s.mounted) }

// Apply merges patch into the state. A nil value deletes the key.
func (s *Session) Apply(patch map[string]any) {
	for k, v := range patch {
		if v == nil {
			delete(s.state, k)
			continue
		}
		s.state[k] = v
	}
}

// Evaluate runs one pass over the tree in document order. The first
// failing element stops the pass; its error is returned with the
// element's path.
func (s *Session) Evaluate() error {
	return s.visit(s.prog.root, true)
}

func (s *Session) visit(n *node, parentVisible bool) error {
	visible := parentVisible
	if visible {
		v, err := s.visible(n)
		if err != nil {
			return err
		}
		visible = v
	}
	if !visible {
		s.unmountTree(n)
		return nil
	}

	m, ok := s.mounted[n.keyPath]
	fresh := !ok
	if fresh {
		m = &mounted{handle: scope.NewHandle()}
	}

	desired, err := s.desiredID(n)
	if err != nil {
		return err
	}
	if err := scope.UseElementID(s.scope, m.handle, desired, n.required); err != nil {
		if fresh {
			// never mounted; drop whatever the scope created for it
			s.drop(m.handle)
		}
		return fmt.Errorf("%s <%s>: %w", n.path, n.typ, err)
	}
	m.desired = desired

	if fresh {
		s.mounted[n.keyPath] = m
		s.logger.Debug("element mounted", "path", n.keyPath, "type", n.typ, "id", s.scope.Owned(m.handle))
	}

	for _, child := range n.children {
		if err := s.visit(child, true); err != nil {
			return err
		}
	}
	return nil
}

// unmountTree unmounts n and its descendants, children first.
func (s *Session) unmountTree(n *node) int {
	count := 0
	for _, child := range n.children {
		count += s.unmountTree(child)
	}
	m, ok := s.mounted[n.keyPath]
	if !ok {
		return count
	}
	s.drop(m.handle)
	delete(s.mounted, n.keyPath)
	s.logger.Debug("element unmounted", "path", n.keyPath, "type", n.typ)
	return count + 1
}

// drop lets go of a consumer. A one-shot scope never disposes, so there the
// consumer is forgotten and its claim stays.
func (s *Session) drop(h scope.Handle) {
	if !s.scope.Dispose(h) {
		s.scope.Forget(h)
	}
}

// Close unmounts every element and returns how many were unmounted. In a
// one-shot scope the elements are forgotten but their claims stay.
func (s *Session) Close() int {
	return s.unmountTree(s.prog.root)
}

// Snapshot lists the mounted elements in document order.
func (s *Session) Snapshot() []NodeStatus {
	var out []NodeStatus
	var walk func(n *node)
	walk = func(n *node) {
		m, ok := s.mounted[n.keyPath]
		if !ok {
			return
		}
		out = append(out, NodeStatus{
			Path:    n.keyPath,
			Type:    n.typ,
			Desired: m.desired,
			Owned:   s.scope.Owned(m.handle),
		})
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(s.prog.root)
	return out
}
