package config

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors for document loading.
var (
	ErrFileNotFound = errors.New("document file not found")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
	ErrEmptyFile    = errors.New("document file is empty")
	ErrNoMatches    = errors.New("no document files match")
)

// Issue is a single problem found in a document.
type Issue struct {
	Path    string `json:"path,omitempty"` // e.g. "root.children[0].id"
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path != "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return i.Message
}

// ValidationResult collects the issues found in one document.
type ValidationResult struct {
	Issues []Issue
}

// IsValid returns true if there are no issues.
func (r *ValidationResult) IsValid() bool {
	return len(r.Issues) == 0
}

// Add records an issue.
func (r *ValidationResult) Add(path, message string) {
	r.Issues = append(r.Issues, Issue{Path: path, Message: message})
}

// DocumentError reports every issue found in a document file.
type DocumentError struct {
	Source string
	Issues []Issue
}

func (e *DocumentError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%s: ", e.Source)
	}
	if len(e.Issues) == 1 {
		b.WriteString(e.Issues[0].String())
		return b.String()
	}
	fmt.Fprintf(&b, "%d problems", len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *DocumentError) Hint() string {
	return "Run 'idscope validate' on the file to list every problem, then fix the paths shown."
}
