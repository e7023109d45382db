package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"martianoff/staticify/internal/difftext"
	"martianoff/staticify/staticerr"
)

type rewriteOptions struct {
	recipeOptions
	sourceOptions
	write bool
	diff  bool
}

func newRewriteCmd(g *globalOptions) *cobra.Command {
	o := &rewriteOptions{}
	cmd := &cobra.Command{
		Use:   "rewrite [path...]",
		Short: "Apply recipes to Java sources",
		Long: `Apply recipes to Java sources.

A single file is printed after rewriting. For several files the changed paths
are listed. Use --diff to see the changes or --write to apply them.

Examples:
  staticify rewrite --class com.yourorg.A src/main/java/com/yourorg/A.java
  staticify rewrite --class com.yourorg.A --diff src/
  staticify rewrite --class com.yourorg.A --write --changed
  staticify rewrite --config rewrite.yml --write src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, g, o, args)
		},
	}
	o.recipeOptions.addFlags(cmd)
	o.sourceOptions.addFlags(cmd)
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "Write changes back to the files")
	cmd.Flags().BoolVarP(&o.diff, "diff", "d", false, "Print a unified diff of the changes")
	return cmd
}

func runRewrite(cmd *cobra.Command, g *globalOptions, o *rewriteOptions, args []string) error {
	rw, err := buildRewriter(cmd, g, &o.recipeOptions)
	if err != nil {
		return err
	}
	files, err := collectFiles(&o.sourceOptions, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errs := &staticerr.MultiError{}
	changed := 0
	for _, path := range files {
		res, before, err := rewriteFile(rw, path, o.write)
		if err != nil {
			g.log.Error("rewrite failed", "file", path, "error", err)
			errs.Errors = append(errs.Errors, err)
			continue
		}
		if res.Changed {
			changed++
			g.log.Info("rewrote", "file", path, "written", o.write)
		}
		switch {
		case o.diff:
			fmt.Fprint(out, difftext.Unified(path, before, res.Output, difftext.DefaultContext))
		case o.write:
		case len(files) == 1:
			fmt.Fprint(out, res.Output)
		case res.Changed:
			fmt.Fprintln(out, path)
		}
	}
	g.log.Debug("rewrite finished", "files", len(files), "changed", changed, "failed", len(errs.Errors))
	return errs.ErrOrNil()
}
