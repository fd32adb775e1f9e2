// Package tree runs a document's element tree against a scope.
//
// Every element is a consumer: while mounted it calls
// scope.UseElementID on each evaluation pass with the id computed from the
// document state. Elements with a "when" condition mount when it turns
// true and unmount (children first) when it turns false; an unmounted
// element's claim is released through Scope.Dispose.
//
// A Session is interactive: Apply patches the state, Evaluate runs a pass,
// Close unmounts everything. RenderOnce is the one-shot path: it evaluates
// a fresh session once and renders it, and never disposes anything.
//
// Expressions use expr-lang syntax and see three variables:
//
//	state  the current document state (map)
//	key    the element's key among its siblings
//	path   the element's key path, e.g. "root/fields/0"
package tree
