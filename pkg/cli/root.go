package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
// Empty strings mean "not given" so lower layers keep their values.
type rootOptions struct {
	dir       string
	policy    string
	logLevel  string
	logFormat string
	json      bool
	metrics   bool
}

// NewRootCmd builds the command tree. Each call returns a fresh tree with
// its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "idscope",
		Short: "idscope keeps element ids unique within a scope",
		Long: `idscope evaluates document trees whose elements claim ids from a shared
per-scope registry, and reports duplicate ids as warnings or errors.

Documents are rendered once (render) or played frame by frame (play), where
elements mount, change their id and unmount as the document state changes.

Configuration can be provided via flags, IDSCOPE_* environment variables, or
a .idscoperc.yaml file in the --dir directory.`,
		SilenceUsage:  true,
		SilenceErrors: true, // printed by Run with the error's hint
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.dir, "dir", "", "Base directory for relative paths and .idscoperc.yaml (default: current directory)")
	pf.StringVar(&opts.policy, "policy", "", "Duplicate id policy: warn or throw (default: warn)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json (default: text)")
	pf.BoolVar(&opts.json, "json", false, "Output command results in JSON format")
	pf.BoolVar(&opts.metrics, "metrics", false, "Print registry metrics in Prometheus text format after the command")

	cmd.AddCommand(
		newRenderCmd(opts),
		newPlayCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// Run executes the command line args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
