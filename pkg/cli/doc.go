// Package cli implements the idscope command line.
//
// Commands:
//
//   - render: evaluate documents once and write their XML artifacts
//   - play: run a document's frames interactively and report the ids owned
//     after each frame
//   - validate: check documents without evaluating them
//   - version: print build information
//
// Settings come from flags, IDSCOPE_* environment variables and an optional
// .idscoperc.yaml in the --dir directory (see internal/cliconfig).
package cli
