package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupYAML = `
version: "1"
name: signup
policy: throw
state:
  showPhone: false
  country: fr
root:
  type: form
  attrs:
    method: post
  children:
    - type: input
      id: email
      required: true
    - type: input
      key: phone
      idExpr: "'phone-' + state.country"
      when: "state.showPhone"
frames:
  - name: reveal phone
    set: {showPhone: true}
  - set: {country: null}
`

func TestParseDocument_Valid(t *testing.T) {
	doc, err := ParseDocument([]byte(signupYAML), "signup.yaml")
	require.NoError(t, err)

	assert.Equal(t, "1", doc.Version)
	assert.Equal(t, "signup", doc.Name)
	assert.Equal(t, "throw", doc.Policy)
	assert.Equal(t, "signup.yaml", doc.Source)
	assert.Equal(t, false, doc.State["showPhone"])

	require.NotNil(t, doc.Root)
	assert.Equal(t, "form", doc.Root.Type)
	assert.Equal(t, map[string]string{"method": "post"}, doc.Root.Attrs)
	require.Len(t, doc.Root.Children, 2)
	assert.Equal(t, "email", doc.Root.Children[0].ID)
	assert.True(t, doc.Root.Children[0].Required)
	assert.Equal(t, "phone", doc.Root.Children[1].KeyAt(1))
	assert.Equal(t, "0", doc.Root.Children[0].KeyAt(0))

	require.Len(t, doc.Frames, 2)
	assert.Equal(t, "reveal phone", doc.Frames[0].Name)
	assert.Contains(t, doc.Frames[1].Set, "country")
	assert.Nil(t, doc.Frames[1].Set["country"])
}

func TestParseDocument_SchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantPath string
	}{
		{
			name:     "missing root",
			yaml:     `version: "1"`,
			wantPath: "",
		},
		{
			name: "numeric version",
			yaml: `
version: 1
root: {type: div}`,
			wantPath: "version",
		},
		{
			name: "unknown node field",
			yaml: `
version: "1"
root:
  type: div
  children:
    - type: span
      identifier: x`,
			wantPath: "root.children[0]",
		},
		{
			name: "node without type",
			yaml: `
version: "1"
root:
  children:
    - {id: x}`,
			wantPath: "root",
		},
		{
			name: "invalid element name",
			yaml: `
version: "1"
root: {type: "my div"}`,
			wantPath: "root.type",
		},
		{
			name: "non-string attr",
			yaml: `
version: "1"
root:
  type: div
  attrs: {tabindex: 1}`,
			wantPath: "root.attrs.tabindex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.yaml), "doc.yaml")

			var de *DocumentError
			require.True(t, errors.As(err, &de), "got %v", err)
			require.NotEmpty(t, de.Issues)
			paths := make([]string, 0, len(de.Issues))
			for _, issue := range de.Issues {
				paths = append(paths, issue.Path)
			}
			assert.Contains(t, paths, tt.wantPath)
			assert.Contains(t, de.Error(), "doc.yaml")
			assert.NotEmpty(t, de.Hint())
		})
	}
}

func TestParseDocument_SemanticErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name: "unsupported version",
			yaml: `
version: "2"
root: {type: div}`,
			wantMsg: `version: unsupported version "2"`,
		},
		{
			name: "bad policy",
			yaml: `
version: "1"
policy: ignore
root: {type: div}`,
			wantMsg: "policy: unknown collision policy",
		},
		{
			name: "id and idExpr",
			yaml: `
version: "1"
root: {type: div, id: a, idExpr: "'a'"}`,
			wantMsg: "root: id and idExpr are mutually exclusive",
		},
		{
			name: "duplicate sibling keys",
			yaml: `
version: "1"
root:
  type: ul
  children:
    - {type: li, key: a}
    - {type: li, key: a}`,
			wantMsg: `root.children[1].key: duplicate sibling key "a"`,
		},
		{
			name: "explicit key clashes with index",
			yaml: `
version: "1"
root:
  type: ul
  children:
    - {type: li}
    - {type: li, key: "0"}`,
			wantMsg: `duplicate sibling key "0"`,
		},
		{
			name: "id attribute",
			yaml: `
version: "1"
root: {type: div, attrs: {id: main}}`,
			wantMsg: "root.attrs.id",
		},
		{
			name: "required without id",
			yaml: `
version: "1"
root: {type: div, required: true}`,
			wantMsg: "root.required",
		},
		{
			name: "empty frame",
			yaml: `
version: "1"
root: {type: div}
frames:
  - name: nothing`,
			wantMsg: "frames[0].set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.yaml), "doc.yaml")

			var de *DocumentError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Contains(t, de.Error(), tt.wantMsg)
		})
	}
}

func TestParseDocument_EmptyAndInvalidYAML(t *testing.T) {
	_, err := ParseDocument([]byte("  \n"), "empty.yaml")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseDocument([]byte("version: [1"), "broken.yaml")
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(signupYAML), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, "signup", doc.DisplayName())

	_, err = LoadDocument(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":                            "",
		"/version":                    "version",
		"/root/children/1/id":         "root.children[1].id",
		"/frames/0/set":               "frames[0].set",
		"/root/attrs/data~1x":         "root.attrs.data/x",
		"/root/children/0/children/2": "root.children[0].children[2]",
	}
	for pointer, want := range tests {
		assert.Equal(t, want, pointerToPath(pointer), pointer)
	}
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"docs/a.yaml",
		"docs/b.yaml",
		"docs/nested/c.yaml",
		"docs/nested/deeper/d.yaml",
		"docs/notes.txt",
	}
	for _, f := range files {
		p := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	t.Run("recursive", func(t *testing.T) {
		got, err := ExpandPatterns(dir, []string{"docs/**/*.yaml"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "docs/a.yaml"),
			filepath.Join(dir, "docs/b.yaml"),
			filepath.Join(dir, "docs/nested/c.yaml"),
			filepath.Join(dir, "docs/nested/deeper/d.yaml"),
		}, got)
	})

	t.Run("simple glob and plain path deduplicated", func(t *testing.T) {
		got, err := ExpandPatterns(dir, []string{"docs/b.yaml", "docs/*.yaml"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "docs/b.yaml"),
			filepath.Join(dir, "docs/a.yaml"),
		}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ExpandPatterns(dir, []string{"docs/zzz.yaml"})
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("glob without matches", func(t *testing.T) {
		_, err := ExpandPatterns(dir, []string{"docs/**/*.json"})
		assert.ErrorIs(t, err, ErrNoMatches)
	})

	t.Run("absolute path ignores base dir", func(t *testing.T) {
		abs := filepath.Join(dir, "docs/a.yaml")
		got, err := ExpandPatterns("/nonexistent", []string{abs})
		require.NoError(t, err)
		assert.Equal(t, []string{abs}, got)
	})
}
