package cliconfig

import (
	"fmt"

	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/registry"
	"github.com/getmockd/idscope/pkg/scope"
)

// CLIConfig holds the raw, unparsed CLI settings.
type CLIConfig struct {
	Policy    string `yaml:"policy"`
	Mode      string `yaml:"mode"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// Sources tracks where each value came from, keyed by yaml name.
	Sources map[string]string `yaml:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceLocal   = "local"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default values.
const (
	DefaultPolicy    = "warn"
	DefaultMode      = "interactive"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// NewDefault returns a config holding the defaults.
func NewDefault() *CLIConfig {
	return &CLIConfig{
		Policy:    DefaultPolicy,
		Mode:      DefaultMode,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources: map[string]string{
			"policy":    SourceDefault,
			"mode":      SourceDefault,
			"logLevel":  SourceDefault,
			"logFormat": SourceDefault,
		},
	}
}

// Source returns where the named value came from.
func (c *CLIConfig) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Settings are the parsed CLI settings.
type Settings struct {
	Policy  registry.Policy
	Mode    scope.Mode
	Logging logging.Config
}

// Resolve parses the raw values. Log level and format fall back to their
// defaults on unknown values; policy and mode are strict.
func (c *CLIConfig) Resolve() (Settings, error) {
	policy, err := registry.ParsePolicy(c.Policy)
	if err != nil {
		return Settings{}, &ValueError{Key: "policy", Source: c.Source("policy"), Err: err}
	}
	mode, err := scope.ParseMode(c.Mode)
	if err != nil {
		return Settings{}, &ValueError{Key: "mode", Source: c.Source("mode"), Err: err}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(c.LogLevel)
	logCfg.Format = logging.ParseFormat(c.LogFormat)

	return Settings{Policy: policy, Mode: mode, Logging: logCfg}, nil
}

// ValueError reports an invalid setting together with its source.
type ValueError struct {
	Key    string
	Source string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s (from %s): %v", e.Key, e.Source, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Hint points at where the value can be fixed.
func (e *ValueError) Hint() string {
	switch e.Source {
	case SourceEnv:
		return "Check the " + envName(e.Key) + " environment variable"
	case SourceLocal:
		return "Check " + LocalConfigFileName
	default:
		return "Check the --" + flagName(e.Key) + " flag"
	}
}

func flagName(key string) string {
	switch key {
	case "logLevel":
		return "log-level"
	case "logFormat":
		return "log-format"
	default:
		return key
	}
}
