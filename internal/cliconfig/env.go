package cliconfig

import (
	"os"
	"strings"
)

// Environment variable names
const (
	EnvPolicy    = "IDSCOPE_POLICY"
	EnvMode      = "IDSCOPE_MODE"
	EnvLogLevel  = "IDSCOPE_LOG_LEVEL"
	EnvLogFormat = "IDSCOPE_LOG_FORMAT"
)

var envKeys = []struct {
	env string
	key string
	set func(*CLIConfig, string)
}{
	{EnvPolicy, "policy", func(c *CLIConfig, v string) { c.Policy = v }},
	{EnvMode, "mode", func(c *CLIConfig, v string) { c.Mode = v }},
	{EnvLogLevel, "logLevel", func(c *CLIConfig, v string) { c.LogLevel = v }},
	{EnvLogFormat, "logFormat", func(c *CLIConfig, v string) { c.LogFormat = v }},
}

// LoadEnvConfig applies the IDSCOPE_* variables that are set and non-blank.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}
	for _, e := range envKeys {
		v := strings.TrimSpace(os.Getenv(e.env))
		if v == "" {
			continue
		}
		e.set(cfg, v)
		cfg.Sources[e.key] = SourceEnv
	}
}

func envName(key string) string {
	for _, e := range envKeys {
		if e.key == key {
			return e.env
		}
	}
	return ""
}
