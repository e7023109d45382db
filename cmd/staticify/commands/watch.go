package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"martianoff/staticify/internal/workspace"
)

type watchOptions struct {
	recipeOptions
}

func newWatchCmd(g *globalOptions) *cobra.Command {
	o := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Rewrite Java sources in place whenever they change",
		Long: `Watch directories and apply the recipes to every .java file that is
created or saved. Files are rewritten in place. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, g, o, args)
		},
	}
	o.recipeOptions.addFlags(cmd)
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, g *globalOptions, o *watchOptions, args []string) error {
	rw, err := buildRewriter(cmd, g, &o.recipeOptions)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	w, err := workspace.NewWatcher(g.log, args...)
	if err != nil {
		return err
	}
	defer w.Close()

	g.log.Info("watching", "paths", args)
	return w.Run(ctx, func(path string) {
		res, _, err := rewriteFile(rw, path, true)
		switch {
		case err != nil:
			g.log.Error("rewrite failed", "file", path, "error", err)
		case res.Changed:
			g.log.Info("rewrote", "file", path)
		default:
			g.log.Debug("unchanged", "file", path)
		}
	})
}
