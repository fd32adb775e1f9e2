package config

import "strconv"

// CurrentVersion is the only document version understood by this release.
const CurrentVersion = "1"

// Document is one scope worth of elements.
type Document struct {
	Version string         `yaml:"version" json:"version"`
	Name    string         `yaml:"name,omitempty" json:"name,omitempty"`
	Policy  string         `yaml:"policy,omitempty" json:"policy,omitempty"`
	State   map[string]any `yaml:"state,omitempty" json:"state,omitempty"`
	Root    *Node          `yaml:"root" json:"root"`
	Frames  []Frame        `yaml:"frames,omitempty" json:"frames,omitempty"`

	// Source is the file the document was loaded from, if any.
	Source string `yaml:"-" json:"-"`
}

// Node is one element of the document tree.
type Node struct {
	Type     string            `yaml:"type" json:"type"`
	Key      string            `yaml:"key,omitempty" json:"key,omitempty"`
	ID       string            `yaml:"id,omitempty" json:"id,omitempty"`
	IDExpr   string            `yaml:"idExpr,omitempty" json:"idExpr,omitempty"`
	Required bool              `yaml:"required,omitempty" json:"required,omitempty"`
	When     string            `yaml:"when,omitempty" json:"when,omitempty"`
	Text     string            `yaml:"text,omitempty" json:"text,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Children []*Node           `yaml:"children,omitempty" json:"children,omitempty"`
}

// KeyAt returns the node's key among its siblings: the explicit key, or
// its index when none was given.
func (n *Node) KeyAt(index int) string {
	if n.Key != "" {
		return n.Key
	}
	return strconv.Itoa(index)
}

// Frame is one step of an interactive session: a patch merged into the
// document state before the next evaluation. A nil value deletes the key.
type Frame struct {
	Name string         `yaml:"name,omitempty" json:"name,omitempty"`
	Set  map[string]any `yaml:"set,omitempty" json:"set,omitempty"`
}

// DisplayName returns the document name, falling back to its source file.
func (d *Document) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Source
}
