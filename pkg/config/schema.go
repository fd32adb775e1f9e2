package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaURL = "document.schema.json"

// documentSchema is the structural schema of a document file.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "root"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string"},
    "name": {"type": "string"},
    "policy": {"type": "string"},
    "state": {"type": "object"},
    "root": {"$ref": "#/$defs/node"},
    "frames": {"type": "array", "items": {"$ref": "#/$defs/frame"}}
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["type"],
      "additionalProperties": false,
      "properties": {
        "type": {"type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9._-]*$"},
        "key": {"type": "string", "minLength": 1},
        "id": {"type": "string"},
        "idExpr": {"type": "string", "minLength": 1},
        "required": {"type": "boolean"},
        "when": {"type": "string", "minLength": 1},
        "text": {"type": "string"},
        "attrs": {"type": "object", "additionalProperties": {"type": "string"}},
        "children": {"type": "array", "items": {"$ref": "#/$defs/node"}}
      }
    },
    "frame": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"},
        "set": {"type": "object"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to add document schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(documentSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateSchema checks raw decoded YAML against the document schema.
func validateSchema(raw any) ([]Issue, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}

	// Convert to JSON and back so the validator sees JSON types only
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("document is not representable as JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}

	var issues []Issue
	collectSchemaIssues(validationErr, &issues)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues, nil
}

// collectSchemaIssues flattens a validation error tree into its leaves.
func collectSchemaIssues(err *jsonschema.ValidationError, issues *[]Issue) {
	if len(err.Causes) == 0 {
		*issues = append(*issues, Issue{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaIssues(cause, issues)
	}
}

// pointerToPath turns a JSON pointer such as "/root/children/1/id" into
// "root.children[1].id".
func pointerToPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(pointer, "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(token); err == nil && b.Len() > 0 {
			fmt.Fprintf(&b, "[%s]", token)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}
