package config

import (
	"fmt"
	"strings"

	"github.com/getmockd/idscope/pkg/registry"
)

// Validate runs the semantic checks on a decoded document.
func Validate(doc *Document) *ValidationResult {
	result := &ValidationResult{}

	if doc.Version == "" {
		result.Add("version", "required")
	} else if doc.Version != CurrentVersion {
		result.Add("version", fmt.Sprintf("unsupported version %q, expected %q", doc.Version, CurrentVersion))
	}

	if doc.Policy != "" {
		if _, err := registry.ParsePolicy(doc.Policy); err != nil {
			result.Add("policy", err.Error())
		}
	}

	if doc.Root == nil {
		result.Add("root", "required")
	} else {
		validateNode(doc.Root, "root", result)
	}

	for i, frame := range doc.Frames {
		if len(frame.Set) == 0 {
			result.Add(fmt.Sprintf("frames[%d].set", i), "frame does not change any state")
		}
	}

	return result
}

func validateNode(n *Node, path string, result *ValidationResult) {
	if n.Type == "" {
		result.Add(path+".type", "required")
	}
	if n.ID != "" && n.IDExpr != "" {
		result.Add(path, "id and idExpr are mutually exclusive")
	}
	if strings.Contains(n.Key, "/") {
		result.Add(path+".key", "must not contain '/'")
	}
	if _, ok := n.Attrs["id"]; ok {
		result.Add(path+".attrs.id", "use id or idExpr instead of an id attribute")
	}
	if n.Required && n.ID == "" && n.IDExpr == "" {
		result.Add(path+".required", "required id without id or idExpr can never be satisfied")
	}

	keys := make(map[string]int, len(n.Children))
	for i, child := range n.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		if child == nil {
			result.Add(childPath, "empty element")
			continue
		}
		key := child.KeyAt(i)
		if prev, dup := keys[key]; dup {
			result.Add(childPath+".key", fmt.Sprintf("duplicate sibling key %q (also used by children[%d])", key, prev))
		} else {
			keys[key] = i
		}
		validateNode(child, childPath, result)
	}
}
