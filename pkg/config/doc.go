// Package config loads and validates idscope document files.
//
// A document describes one scope: a tree of elements, each of which may
// claim an element id, plus the initial state the id expressions read and
// an optional list of frames that patch that state over time.
//
//	version: "1"
//	name: signup
//	policy: warn
//	state:
//	  showEmail: true
//	root:
//	  type: form
//	  children:
//	    - type: input
//	      id: email
//	      required: true
//	    - type: input
//	      idExpr: "'phone-' + state.country"
//	      when: "state.showPhone"
//	frames:
//	  - set: {showPhone: true, country: "fr"}
//
// Loading runs in two passes. The raw YAML is first checked against a JSON
// schema (shape, types, unknown keys), then the decoded Document goes
// through semantic checks (version, policy name, id/idExpr exclusivity,
// sibling keys). Both passes report every issue with its path, for example
// "root.children[1].idExpr".
//
// Expressions are not compiled here; package tree does that.
package config
