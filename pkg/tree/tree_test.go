package tree

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/getmockd/idscope/pkg/config"
	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/reconcile"
	"github.com/getmockd/idscope/pkg/registry"
	"github.com/getmockd/idscope/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *Program {
	t.Helper()
	doc, err := config.ParseDocument([]byte(src), "test.yaml")
	require.NoError(t, err)
	prog, err := Compile(doc)
	require.NoError(t, err)
	return prog
}

func newScope(policy registry.Policy, mode scope.Mode, opts ...registry.Option) *scope.Scope {
	return scope.New(registry.New(policy, opts...), scope.WithMode(mode))
}

func owned(snap []NodeStatus) map[string]string {
	out := make(map[string]string, len(snap))
	for _, st := range snap {
		out[st.Path] = st.Owned
	}
	return out
}

const formYAML = `
version: "1"
state:
  showPhone: false
  country: fr
root:
  type: form
  children:
    - type: input
      key: email
      id: email
      required: true
    - type: input
      key: phone
      idExpr: "'phone-' + state.country"
      when: "state.showPhone"
      children:
        - type: label
          idExpr: "path"
`

func TestSession_MountUpdateUnmount(t *testing.T) {
	sc := newScope(registry.PolicyThrow, scope.ModeInteractive)
	s := NewSession(compile(t, formYAML), sc)

	require.NoError(t, s.Evaluate())
	assert.Equal(t, map[string]string{"root": "", "root/email": "email"}, owned(s.Snapshot()))
	assert.Equal(t, 1, sc.Claimed())

	s.Apply(map[string]any{"showPhone": true})
	require.NoError(t, s.Evaluate())
	assert.Equal(t, map[string]string{
		"root":         "",
		"root/email":   "email",
		"root/phone":   "phone-fr",
		"root/phone/0": "root/phone/0",
	}, owned(s.Snapshot()))
	assert.Equal(t, 3, sc.Claimed())

	// value change: claim new, release old
	s.Apply(map[string]any{"country": "de"})
	require.NoError(t, s.Evaluate())
	assert.Equal(t, "phone-de", owned(s.Snapshot())["root/phone"])
	assert.Equal(t, 3, sc.Claimed())

	// unmount releases the subtree's claims
	s.Apply(map[string]any{"showPhone": false})
	require.NoError(t, s.Evaluate())
	assert.Equal(t, 2, s.Mounted())
	assert.Equal(t, 1, sc.Claimed())

	assert.Equal(t, 2, s.Close())
	assert.Zero(t, sc.Claimed())
	assert.Zero(t, sc.Consumers())
}

func TestSession_RemountGetsFreshConsumer(t *testing.T) {
	sc := newScope(registry.PolicyThrow, scope.ModeInteractive)
	s := NewSession(compile(t, formYAML), sc)
	s.Apply(map[string]any{"showPhone": true})
	require.NoError(t, s.Evaluate())
	before := sc.Consumers()

	s.Apply(map[string]any{"showPhone": false})
	require.NoError(t, s.Evaluate())
	s.Apply(map[string]any{"showPhone": true})
	require.NoError(t, s.Evaluate())

	assert.Equal(t, before, sc.Consumers())
	assert.Equal(t, 3, sc.Claimed())
}

const duplicateYAML = `
version: "1"
root:
  type: ul
  children:
    - {type: li, key: a, id: item}
    - {type: li, key: b, id: item}
`

func TestSession_DuplicateUnderThrow(t *testing.T) {
	sc := newScope(registry.PolicyThrow, scope.ModeInteractive)
	s := NewSession(compile(t, duplicateYAML), sc)

	err := s.Evaluate()
	require.Error(t, err)
	assert.True(t, registry.IsCollision(err))
	assert.Contains(t, err.Error(), "root.children[1] <li>")

	assert.Equal(t, 1, sc.Claimed())
	assert.Equal(t, map[string]string{"root": "", "root/a": "item"}, owned(s.Snapshot()))
}

func TestSession_DuplicateUnderWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})
	sc := newScope(registry.PolicyWarn, scope.ModeInteractive, registry.WithLogger(logger))
	s := NewSession(compile(t, duplicateYAML), sc)

	require.NoError(t, s.Evaluate())
	assert.Equal(t, map[string]string{"root": "", "root/a": "item", "root/b": ""}, owned(s.Snapshot()))
	assert.Equal(t, 1, sc.Claimed())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("duplicate element id")))

	out, err := s.Render().WriteToString()
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte(`id="item"`)))
}

func TestSession_RequiredIDMissing(t *testing.T) {
	const src = `
version: "1"
root:
  type: div
  idExpr: "state.name"
  required: true
`
	sc := newScope(registry.PolicyThrow, scope.ModeInteractive)
	s := NewSession(compile(t, src), sc)

	err := s.Evaluate()
	var ve *reconcile.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Zero(t, sc.Claimed())
	assert.Zero(t, s.Mounted())

	s.Apply(map[string]any{"name": "main"})
	require.NoError(t, s.Evaluate())
	assert.Equal(t, 1, sc.Claimed())
}

func TestSession_NoScope(t *testing.T) {
	s := NewSession(compile(t, duplicateYAML), nil)

	err := s.Evaluate()
	var ce *scope.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestSession_SwapUnderWarnKeepsBoth(t *testing.T) {
	const src = `
version: "1"
state: {first: x, second: y}
root:
  type: div
  children:
    - {type: span, idExpr: "state.first"}
    - {type: span, idExpr: "state.second"}
`
	sc := newScope(registry.PolicyWarn, scope.ModeInteractive)
	s := NewSession(compile(t, src), sc)
	require.NoError(t, s.Evaluate())

	s.Apply(map[string]any{"first": "y", "second": "x"})
	require.NoError(t, s.Evaluate())

	// both replacements are rejected, neither old claim is lost
	assert.Equal(t, map[string]string{"root": "", "root/0": "x", "root/1": "y"}, owned(s.Snapshot()))
	assert.Equal(t, 2, sc.Claimed())
}

func TestSession_ExpressionResults(t *testing.T) {
	const src = `
version: "1"
state: {n: 3, ratio: 1.5, ok: "yes"}
root:
  type: div
  children:
    - {type: a, idExpr: "state.n + 1"}
    - {type: b, idExpr: "state.ratio"}
    - {type: c, idExpr: "state.missing"}
    - {type: d, idExpr: "key + '-' + path", key: k}
    - {type: e, when: "state.ok == 'yes'", id: shown}
    - {type: f, when: "state.missing", id: hidden}
`
	sc := newScope(registry.PolicyThrow, scope.ModeInteractive)
	s := NewSession(compile(t, src), sc)
	require.NoError(t, s.Evaluate())

	assert.Equal(t, map[string]string{
		"root":   "",
		"root/0": "4",
		"root/1": "1.5",
		"root/2": "",
		"root/k": "k-root/k",
		"root/4": "shown",
	}, owned(s.Snapshot()))
}

func TestSession_BadExpressionResult(t *testing.T) {
	const src = `
version: "1"
state: {n: 3}
root:
  type: div
  children:
    - {type: a, when: "state.n"}
`
	sc := newScope(registry.PolicyThrow, scope.ModeInteractive)
	s := NewSession(compile(t, src), sc)

	err := s.Evaluate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root.children[0].when: must evaluate to a boolean")
}

func TestCompile_ReportsExpressionErrors(t *testing.T) {
	const src = `
version: "1"
root:
  type: div
  children:
    - {type: a, idExpr: "undefinedVar + 'x'"}
    - {type: b, when: "state.x ==="}
`
	doc, err := config.ParseDocument([]byte(src), "bad.yaml")
	require.NoError(t, err)

	_, err = Compile(doc)
	var de *config.DocumentError
	require.True(t, errors.As(err, &de))
	require.Len(t, de.Issues, 2)
	assert.Equal(t, "root.children[0].idExpr", de.Issues[0].Path)
	assert.Equal(t, "root.children[1].when", de.Issues[1].Path)
}

func TestCompile_RejectsBadChildren(t *testing.T) {
	tests := []struct {
		name     string
		children []*config.Node
		wantPath string
	}{
		{
			name: "duplicate explicit keys",
			children: []*config.Node{
				{Type: "input", Key: "a", ID: "x"},
				{Type: "input", Key: "a", ID: "x"},
			},
			wantPath: "root.children[1].key",
		},
		{
			name: "explicit key shadows an index",
			children: []*config.Node{
				{Type: "input", Key: "1"},
				{Type: "input"},
			},
			wantPath: "root.children[1].key",
		},
		{
			name:     "nil child",
			children: []*config.Node{nil, {Type: "input"}},
			wantPath: "root.children[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &config.Document{
				Version: config.CurrentVersion,
				Root:    &config.Node{Type: "form", Children: tt.children},
			}

			var prog *Program
			var err error
			require.NotPanics(t, func() { prog, err = Compile(doc) })
			assert.Nil(t, prog)

			var de *config.DocumentError
			require.True(t, errors.As(err, &de))
			require.Len(t, de.Issues, 1)
			assert.Equal(t, tt.wantPath, de.Issues[0].Path)
		})
	}
}

func TestApply_DeletesNilValues(t *testing.T) {
	sc := newScope(registry.PolicyWarn, scope.ModeInteractive)
	s := NewSession(compile(t, formYAML), sc)

	s.Apply(map[string]any{"country": nil, "extra": 1})
	assert.Equal(t, map[string]any{"showPhone": false, "extra": 1}, s.State())

	// the document's own state is untouched
	assert.Equal(t, "fr", s.prog.Document().State["country"])
}

func TestRender(t *testing.T) {
	const src = `
version: "1"
root:
  type: form
  attrs: {method: post, action: /signup}
  children:
    - {type: label, text: Email}
    - {type: input, id: email, attrs: {type: email}}
`
	sc := newScope(registry.PolicyThrow, scope.ModeOneShot)
	doc, err := RenderOnce(compile(t, src), sc)
	require.NoError(t, err)

	out, err := doc.WriteToString()
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<form action="/signup" method="post">
  <label>Email</label>
  <input id="email" type="email"/>
</form>`, strings.TrimSpace(out))
}

func TestRenderOnce_ClaimsPersistInOneShotScope(t *testing.T) {
	prog := compile(t, formYAML)
	sc := newScope(registry.PolicyThrow, scope.ModeOneShot)

	_, err := RenderOnce(prog, sc)
	require.NoError(t, err)
	assert.Equal(t, 1, sc.Claimed())

	// a second artifact in the same scope collides with the first
	_, err = RenderOnce(prog, sc)
	assert.True(t, registry.IsCollision(err))

	// a fresh scope per artifact does not
	fresh := newScope(registry.PolicyThrow, scope.ModeOneShot)
	_, err = RenderOnce(prog, fresh)
	assert.NoError(t, err)
}

func TestSession_FailedMountInOneShotHoldsNoConsumer(t *testing.T) {
	sc := newScope(registry.PolicyThrow, scope.ModeOneShot)
	s := NewSession(compile(t, duplicateYAML), sc)

	for i := 0; i < 3; i++ {
		require.Error(t, s.Evaluate())
	}

	// only the elements that mounted keep a consumer
	assert.Equal(t, s.Mounted(), sc.Consumers())
	assert.Equal(t, 1, sc.Claimed())
}

func TestSession_CloseInOneShotKeepsClaims(t *testing.T) {
	sc := newScope(registry.PolicyThrow, scope.ModeOneShot)
	s := NewSession(compile(t, formYAML), sc)
	require.NoError(t, s.Evaluate())

	assert.Equal(t, 2, s.Close())
	assert.Zero(t, s.Mounted())
	assert.Zero(t, sc.Consumers())
	assert.Equal(t, 1, sc.Claimed())
}
