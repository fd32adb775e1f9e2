package cli

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/getmockd/idscope/internal/cliconfig"
	"github.com/getmockd/idscope/pkg/config"
	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/metrics"
	"github.com/getmockd/idscope/pkg/registry"
	"github.com/getmockd/idscope/pkg/scope"
	"github.com/spf13/cobra"
)

// cmdEnv is what a subcommand needs after settings are resolved.
type cmdEnv struct {
	baseDir  string
	settings cliconfig.Settings
	logger   *slog.Logger
	json     bool
	stdout   io.Writer

	metrics  *metrics.Registry
	observer registry.Observer
}

// setup layers the settings (defaults, local file, env, then flags) and
// builds the logger. extra carries command-specific flags.
func (o *rootOptions) setup(cmd *cobra.Command, extra *cliconfig.CLIConfig) (*cmdEnv, error) {
	baseDir := o.dir
	if baseDir == "" {
		baseDir = "."
	}

	cfg, err := cliconfig.LoadAll(baseDir)
	if err != nil {
		return nil, err
	}
	cliconfig.MergeConfig(cfg, &cliconfig.CLIConfig{
		Policy:    o.policy,
		LogLevel:  o.logLevel,
		LogFormat: o.logFormat,
	}, cliconfig.SourceFlag)
	cliconfig.MergeConfig(cfg, extra, cliconfig.SourceFlag)

	settings, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	settings.Logging.Output = cmd.ErrOrStderr()

	env := &cmdEnv{
		baseDir:  baseDir,
		settings: settings,
		logger:   logging.New(settings.Logging),
		json:     o.json,
		stdout:   cmd.OutOrStdout(),
	}
	if o.metrics {
		env.metrics = metrics.NewRegistry()
		env.observer = metrics.NewRegistryObserver(env.metrics)
	}
	env.logger.Debug("settings resolved",
		"policy", settings.Policy.String(),
		"mode", settings.Mode.String(),
		"policySource", cfg.Source("policy"),
	)
	return env, nil
}

// newScope creates a scope with its own registry. A policy set in the
// document overrides the CLI policy.
func (e *cmdEnv) newScope(name, docPolicy string, mode scope.Mode) (*scope.Scope, error) {
	policy := e.settings.Policy
	if docPolicy != "" {
		p, err := registry.ParsePolicy(docPolicy)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	opts := []registry.Option{
		registry.WithName(name),
		registry.WithLogger(logging.Component(e.logger, "registry")),
	}
	if e.observer != nil {
		opts = append(opts, registry.WithObserver(e.observer))
	}
	reg := registry.New(policy, opts...)
	return scope.New(reg, scope.WithMode(mode), scope.WithLogger(logging.Component(e.logger, "scope"))), nil
}

// finish prints the metrics when --metrics was given.
func (e *cmdEnv) finish() error {
	if e.metrics == nil {
		return nil
	}
	_, err := e.metrics.WriteTo(e.stdout)
	return err
}

// displayPath shortens path relative to the base directory when possible.
func (e *cmdEnv) displayPath(path string) string {
	rel, err := filepath.Rel(e.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// scopeName is the document name, or its file name without extension.
func scopeName(doc *config.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	base := filepath.Base(doc.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
