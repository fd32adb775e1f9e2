package cliconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileName is the name of the local config file.
const LocalConfigFileName = ".idscoperc.yaml"

// FindLocalConfig returns the path of the local config file in dir, or ""
// when there is none.
func FindLocalConfig(dir string) string {
	path := filepath.Join(dir, LocalConfigFileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a YAML file. Unknown keys are
// rejected. An empty file yields an empty config.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// ConfigError represents a config file error.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Hint lists the keys the file may contain.
func (e *ConfigError) Hint() string {
	return "Allowed keys are policy, mode, logLevel and logFormat"
}

// LoadAll layers defaults, the local config file in dir and the
// environment. Flags are applied by the caller with MergeConfig.
func LoadAll(dir string) (*CLIConfig, error) {
	cfg := NewDefault()

	if path := FindLocalConfig(dir); path != "" {
		local, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, local, SourceLocal)
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}

// MergeConfig copies the non-empty values of source into target and
// records sourceType for each of them.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Policy != "" {
		target.Policy = source.Policy
		target.Sources["policy"] = sourceType
	}
	if source.Mode != "" {
		target.Mode = source.Mode
		target.Sources["mode"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
}
