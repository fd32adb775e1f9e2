package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/idscope/pkg/cli/internal/output"
	"github.com/getmockd/idscope/pkg/config"
	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/scope"
	"github.com/getmockd/idscope/pkg/tree"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	out         string
	sharedScope bool
}

// RenderResult describes one rendered document in JSON output.
type RenderResult struct {
	File    string `json:"file"`
	Scope   string `json:"scope"`
	Output  string `json:"output,omitempty"`
	Claimed int    `json:"claimed"`
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file|glob>...",
		Short: "Evaluate documents once and write their XML",
		Long: `Evaluate each document once against its initial state and write the
resulting element tree as XML, each element carrying the id it owns.

Rendering is one-shot: nothing is ever unmounted, so every id claimed while
rendering stays claimed. Each document gets its own scope unless
--shared-scope is given, in which case ids must be unique across all of them.

Patterns may use ** to match across directories.`,
		Example: `  idscope render page.yaml
  idscope render 'pages/**/*.yaml' --out build
  idscope render header.yaml body.yaml --shared-scope --policy throw`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write one .xml file per document under this directory, keeping its relative path, instead of stdout")
	cmd.Flags().BoolVar(&opts.sharedScope, "shared-scope", false, "Render all documents into a single scope")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions, args []string) error {
	env, err := root.setup(cmd, nil)
	if err != nil {
		return err
	}

	paths, err := config.ExpandPatterns(env.baseDir, args)
	if err != nil {
		return err
	}

	var shared *scope.Scope
	if opts.sharedScope {
		if shared, err = env.newScope("shared", "", scope.ModeOneShot); err != nil {
			return err
		}
	}

	var targets []string
	if opts.out != "" {
		if targets, err = outputTargets(env, config.ResolvePath(env.baseDir, opts.out), paths); err != nil {
			return err
		}
	}

	results := make([]RenderResult, 0, len(paths))
	for i, path := range paths {
		doc, err := config.LoadDocument(path)
		if err != nil {
			return err
		}
		prog, err := tree.Compile(doc)
		if err != nil {
			return err
		}

		sc := shared
		if sc == nil {
			if sc, err = env.newScope(scopeName(doc), doc.Policy, scope.ModeOneShot); err != nil {
				return fmt.Errorf("%s: %w", env.displayPath(path), err)
			}
		}

		xml, err := tree.RenderOnce(prog, sc, tree.WithLogger(logging.Component(env.logger, "tree")))
		if err != nil {
			return fmt.Errorf("%s: %w", env.displayPath(path), err)
		}

		result := RenderResult{
			File:    env.displayPath(path),
			Scope:   sc.Registry().Name(),
			Claimed: sc.Claimed(),
		}
		switch {
		case targets != nil:
			target := targets[i]
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := xml.WriteToFile(target); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			result.Output = env.displayPath(target)
			if !env.json {
				fmt.Fprintf(env.stdout, "%s -> %s\n", result.File, result.Output)
			}
		case env.json:
			s, err := xml.WriteToString()
			if err != nil {
				return err
			}
			result.Output = s
		default:
			if _, err := xml.WriteTo(env.stdout); err != nil {
				return err
			}
		}

		env.logger.Info("document rendered", "file", result.File, "scope", result.Scope, "claimed", result.Claimed)
		results = append(results, result)
	}

	if env.json {
		if err := output.JSON(env.stdout, results); err != nil {
			return err
		}
	}
	return env.finish()
}

// outputTargets maps each document to an .xml file under outDir, keeping its
// directory relative to the base dir. Documents outside the base dir land
// directly in outDir. Two documents mapping to the same file is an error.
func outputTargets(env *cmdEnv, outDir string, paths []string) ([]string, error) {
	targets := make([]string, len(paths))
	seen := make(map[string]string, len(paths))
	for i, path := range paths {
		rel := env.displayPath(path)
		if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(rel)
		}
		target := filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".xml")
		if prev, dup := seen[target]; dup {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, env.displayPath(path), env.displayPath(target))
		}
		seen[target] = env.displayPath(path)
		targets[i] = target
	}
	return targets, nil
}
