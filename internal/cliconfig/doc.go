// Package cliconfig resolves the settings of the idscope CLI.
//
// Values are layered with the following precedence (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (IDSCOPE_* prefix)
//  3. Local config file (.idscoperc.yaml in the working directory)
//  4. Default values
//
// The source of every value is tracked in CLIConfig.Sources so that errors
// can say where a bad value came from.
package cliconfig
