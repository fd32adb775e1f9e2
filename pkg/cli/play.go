package cli

import (
	"fmt"

	"github.com/getmockd/idscope/internal/cliconfig"
	"github.com/getmockd/idscope/pkg/cli/internal/output"
	"github.com/getmockd/idscope/pkg/config"
	"github.com/getmockd/idscope/pkg/logging"
	"github.com/getmockd/idscope/pkg/tree"
	"github.com/spf13/cobra"
)

type playOptions struct {
	mode string
}

// PlayElement is one mounted element after a frame.
type PlayElement struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Desired string `json:"desired,omitempty"`
	Owned   string `json:"owned,omitempty"`
}

// PlayFrame is the state of the tree after one frame.
type PlayFrame struct {
	Name     string        `json:"name"`
	Claimed  int           `json:"claimed"`
	Elements []PlayElement `json:"elements"`
}

// PlayReport is the JSON output of the play command.
type PlayReport struct {
	File      string      `json:"file"`
	Scope     string      `json:"scope"`
	Mode      string      `json:"mode"`
	Policy    string      `json:"policy"`
	Frames    []PlayFrame `json:"frames"`
	Unmounted int         `json:"unmounted"`
	Remaining int         `json:"remaining"`
}

func newPlayCmd(root *rootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Run a document's frames and show the ids owned after each",
		Long: `Evaluate a document against its initial state, then apply each of its
frames in order and evaluate again. After every frame the mounted elements
are listed with the id they asked for and the id they own.

At the end every element is unmounted. In interactive mode this releases
all ids, so the remaining count is 0. In oneshot mode nothing is ever
released: unmounted elements keep their ids, and elements that mount again
collide with their own earlier claims.`,
		Example: `  idscope play form.yaml
  idscope play form.yaml --policy throw
  idscope play form.yaml --mode oneshot --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "Execution mode: interactive or oneshot (default: interactive)")
	return cmd
}

func runPlay(cmd *cobra.Command, root *rootOptions, opts *playOptions, file string) error {
	env, err := root.setup(cmd, &cliconfig.CLIConfig{Mode: opts.mode})
	if err != nil {
		return err
	}

	path := config.ResolvePath(env.baseDir, file)
	doc, err := config.LoadDocument(path)
	if err != nil {
		return err
	}
	prog, err := tree.Compile(doc)
	if err != nil {
		return err
	}
	sc, err := env.newScope(scopeName(doc), doc.Policy, env.settings.Mode)
	if err != nil {
		return err
	}

	sess := tree.NewSession(prog, sc, tree.WithLogger(logging.Component(env.logger, "tree")))
	report := PlayReport{
		File:   env.displayPath(path),
		Scope:  sc.Registry().Name(),
		Mode:   sc.Mode().String(),
		Policy: sc.Registry().Policy().String(),
	}

	step := func(name string) error {
		if err := sess.Evaluate(); err != nil {
			return fmt.Errorf("%s: frame %q: %w", report.File, name, err)
		}
		frame := PlayFrame{Name: name, Claimed: sc.Claimed()}
		for _, st := range sess.Snapshot() {
			frame.Elements = append(frame.Elements, PlayElement{
				Path:    st.Path,
				Type:    st.Type,
				Desired: st.Desired,
				Owned:   st.Owned,
			})
		}
		report.Frames = append(report.Frames, frame)
		if !env.json {
			printFrame(env, frame)
		}
		return nil
	}

	if err := step("initial"); err != nil {
		return err
	}
	for i, f := range prog.Frames() {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("frame %d", i+1)
		}
		sess.Apply(f.Set)
		if err := step(name); err != nil {
			return err
		}
	}

	report.Unmounted = sess.Close()
	report.Remaining = sc.Claimed()

	if env.json {
		if err := output.JSON(env.stdout, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(env.stdout, "closed: %d elements unmounted, %d ids still claimed\n", report.Unmounted, report.Remaining)
	}
	return env.finish()
}

func printFrame(env *cmdEnv, frame PlayFrame) {
	fmt.Fprintf(env.stdout, "== %s (%d claimed)\n", frame.Name, frame.Claimed)
	w := output.Table(env.stdout)
	fmt.Fprintln(w, "PATH\tTYPE\tDESIRED\tOWNED")
	for _, el := range frame.Elements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", el.Path, el.Type, output.OrDash(el.Desired), output.OrDash(el.Owned))
	}
	_ = w.Flush()
}
