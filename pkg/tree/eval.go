package tree

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/getmockd/idscope/pkg/registry"
)

func (s *Session) exprEnv(n *node) map[string]any {
	return map[string]any{
		"state": s.state,
		"key":   n.key,
		"path":  n.keyPath,
	}
}

// desiredID computes the id the element wants in the current state.
func (s *Session) desiredID(n *node) (registry.ElementID, error) {
	if n.idExpr == nil {
		return n.id, nil
	}
	out, err := expr.Run(n.idExpr, s.exprEnv(n))
	if err != nil {
		return "", fmt.Errorf("%s.idExpr: %w", n.path, err)
	}
	switch v := out.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%s.idExpr: must evaluate to a string, got %T", n.path, out)
	}
}

// visible evaluates the element's mount condition. A missing state value
// (nil) counts as false.
func (s *Session) visible(n *node) (bool, error) {
	if n.when == nil {
		return true, nil
	}
	out, err := expr.Run(n.when, s.exprEnv(n))
	if err != nil {
		return false, fmt.Errorf("%s.when: %w", n.path, err)
	}
	switch v := out.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%s.when: must evaluate to a boolean, got %T", n.path, out)
	}
}
