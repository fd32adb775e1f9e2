package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDocument reads and validates a document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return ParseDocument(data, path)
}

// ParseDocument decodes and validates a document. source names the origin
// of data in errors and may be empty.
func ParseDocument(data []byte, source string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, source)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrInvalidYAML, source, err)
	}

	issues, err := validateSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if len(issues) > 0 {
		return nil, &DocumentError{Source: source, Issues: issues}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrInvalidYAML, source, err)
	}
	doc.Source = source

	if result := Validate(&doc); !result.IsValid() {
		return nil, &DocumentError{Source: source, Issues: result.Issues}
	}
	return &doc, nil
}
