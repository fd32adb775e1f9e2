package cli

import (
	"errors"
	"fmt"

	"github.com/getmockd/idscope/pkg/cli/internal/output"
	"github.com/getmockd/idscope/pkg/config"
	"github.com/getmockd/idscope/pkg/tree"
	"github.com/spf13/cobra"
)

// ValidateResult is the outcome for one file in JSON output.
type ValidateResult struct {
	File   string         `json:"file"`
	Valid  bool           `json:"valid"`
	Issues []config.Issue `json:"issues,omitempty"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|glob>...",
		Short: "Check documents without evaluating them",
		Long: `Load every matching document, check it against the document schema and
the semantic rules, and compile its expressions. Every problem is listed
with its location, e.g. root.children[1].idExpr.

Exits with an error when any document is invalid.`,
		Example: `  idscope validate page.yaml
  idscope validate 'docs/**/*.yaml' --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, args)
		},
	}
}

func runValidate(cmd *cobra.Command, root *rootOptions, args []string) error {
	env, err := root.setup(cmd, nil)
	if err != nil {
		return err
	}

	paths, err := config.ExpandPatterns(env.baseDir, args)
	if err != nil {
		return err
	}

	results := make([]ValidateResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		result := ValidateResult{File: env.displayPath(path), Valid: true}
		if err := validateFile(path); err != nil {
			result.Valid = false
			result.Issues = issuesOf(err)
			failed++
		}
		results = append(results, result)

		if env.json {
			continue
		}
		if result.Valid {
			fmt.Fprintf(env.stdout, "ok    %s\n", result.File)
			continue
		}
		fmt.Fprintf(env.stdout, "FAIL  %s\n", result.File)
		for _, issue := range result.Issues {
			fmt.Fprintf(env.stdout, "      %s\n", issue)
		}
	}

	if env.json {
		if err := output.JSON(env.stdout, results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d documents invalid", ErrValidationFailed, failed, len(paths))
	}
	return nil
}

func validateFile(path string) error {
	doc, err := config.LoadDocument(path)
	if err != nil {
		return err
	}
	_, err = tree.Compile(doc)
	return err
}

func issuesOf(err error) []config.Issue {
	var de *config.DocumentError
	if errors.As(err, &de) {
		return de.Issues
	}
	return []config.Issue{{Message: err.Error()}}
}
