package tree

import (
	"github.com/beevik/etree"
	"github.com/getmockd/idscope/pkg/scope"
)

// Render returns the mounted tree as an XML document. Each element carries
// the id its consumer currently owns; elements that own none have no id
// attribute.
func (s *Session) Render() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	s.renderNode(&doc.Element, s.prog.root)
	doc.Indent(2)
	return doc
}

func (s *Session) renderNode(parent *etree.Element, n *node) {
	m, ok := s.mounted[n.keyPath]
	if !ok {
		return
	}

	el := parent.CreateElement(n.typ)
	if owned := s.scope.Owned(m.handle); owned != "" {
		el.CreateAttr("id", owned)
	}
	for _, a := range n.attrs {
		el.CreateAttr(a.name, a.value)
	}
	if n.text != "" {
		el.SetText(n.text)
	}
	for _, child := range n.children {
		s.renderNode(el, child)
	}
}

// RenderOnce evaluates a fresh session once and renders it. It is the
// one-shot path: nothing is ever disposed, so every claim made here stays
// in sc's registry. Pass a scope created with scope.ModeOneShot.
func RenderOnce(prog *Program, sc *scope.Scope, opts ...Option) (*etree.Document, error) {
	s := NewSession(prog, sc, opts...)
	if err := s.Evaluate(); err != nil {
		return nil, err
	}
	return s.Render(), nil
}
