package tree

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/getmockd/idscope/pkg/config"
)

// Program is a document whose expressions have been compiled.
type Program struct {
	doc  *config.Document
	root *node
}

type attr struct {
	name, value string
}

type node struct {
	path     string // document path, e.g. "root.children[1]", used in errors
	keyPath  string // stable identity among re-evaluations, e.g. "root/1"
	key      string
	typ      string
	id       string
	idExpr   *vm.Program
	when     *vm.Program
	required bool
	text     string
	attrs    []attr
	children []*node
}

// compileEnv declares the expression variables for type checking.
func compileEnv() map[string]any {
	return map[string]any{
		"state": map[string]any{},
		"key":   "",
		"path":  "",
	}
}

// Compile compiles every expression of doc. All expression errors are
// reported together as a *config.DocumentError.
func Compile(doc *config.Document) (*Program, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("document has no root element")
	}

	result := &config.ValidationResult{}
	root := compileNode(doc.Root, "root", "root", "root", compileEnv(), result)
	if !result.IsValid() {
		return nil, &config.DocumentError{Source: doc.Source, Issues: result.Issues}
	}
	return &Program{doc: doc, root: root}, nil
}

func compileNode(n *config.Node, path, keyPath, key string, env map[string]any, result *config.ValidationResult) *node {
	out := &node{
		path:     path,
		keyPath:  keyPath,
		key:      key,
		typ:      n.Type,
		id:       n.ID,
		required: n.Required,
		text:     n.Text,
	}

	if n.IDExpr != "" {
		program, err := expr.Compile(n.IDExpr, expr.Env(env))
		if err != nil {
			result.Add(path+".idExpr", fmt.Sprintf("compile %q: %v", n.IDExpr, err))
		}
		out.idExpr = program
	}
	if n.When != "" {
		program, err := expr.Compile(n.When, expr.Env(env))
		if err != nil {
			result.Add(path+".when", fmt.Sprintf("compile %q: %v", n.When, err))
		}
		out.when = program
	}

	for name, value := range n.Attrs {
		out.attrs = append(out.attrs, attr{name: name, value: value})
	}
	sort.Slice(out.attrs, func(i, j int) bool { return out.attrs[i].name < out.attrs[j].name })

	// sibling keys form the mount identity, so they must be unique
	seen := make(map[string]int, len(n.Children))
	for i, child := range n.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		if child == nil {
			result.Add(childPath, "empty element")
			continue
		}
		childKey := child.KeyAt(i)
		if prev, dup := seen[childKey]; dup {
			result.Add(childPath+".key", fmt.Sprintf("duplicate sibling key %q (also used by children[%d])", childKey, prev))
			continue
		}
		seen[childKey] = i
		out.children = append(out.children, compileNode(
			child,
			childPath,
			keyPath+"/"+childKey,
			childKey,
			env,
			result,
		))
	}
	return out
}

// Document returns the compiled document.
func (p *Program) Document() *config.Document { return p.doc }

// Frames returns the document's interactive frames.
func (p *Program) Frames() []config.Frame { return p.doc.Frames }
