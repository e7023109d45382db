// Package commands provides the CLI commands for the staticify tool.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"martianoff/staticify/internal/logging"
	"martianoff/staticify/internal/refactor/staticmethod"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose     bool
	logFormat   string
	logFile     string
	javaRelease string

	log     *slog.Logger
	cleanup func()
}

func (g *globalOptions) setup(cmd *cobra.Command) error {
	format, err := logging.ParseFormat(g.logFormat)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	log, cleanup, err := logging.Setup(format, level, g.logFile)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	g.log, g.cleanup = log, cleanup
	return nil
}

func (g *globalOptions) close() {
	if g.cleanup != nil {
		g.cleanup()
	}
}

// release parses --java-release, falling back to fromConfig and then the
// default release.
func (g *globalOptions) release(cmd *cobra.Command, fromConfig string) (*semver.Version, error) {
	s := g.javaRelease
	if !cmd.Flags().Changed("java-release") && fromConfig != "" {
		s = fromConfig
	}
	return staticmethod.ParseJavaRelease(s)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "staticify",
		Short: "Refactoring recipes for Java sources",
		Long: `staticify applies refactoring recipes to Java source files.

The main recipe, AddStaticModifierToClassLevelMethod, makes the methods of a
class static when they use no instance data, directly or through the methods
they call.

Usage:
  staticify rewrite --class com.x.A src/     Print or apply the rewrite
  staticify analyze --class com.x.A src/     Explain each method's verdict
  staticify watch --class com.x.A src/       Rewrite files as they change
  staticify recipes                          List available recipes
  staticify version                          Print version`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			g.close()
		},
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log analysis passes and verdicts")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", string(logging.FormatText), "Log format: text or json")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Also append logs to this file")
	cmd.PersistentFlags().StringVar(&g.javaRelease, "java-release", staticmethod.DefaultJavaRelease, "Java release of the sources")

	cmd.AddCommand(newRewriteCmd(g))
	cmd.AddCommand(newAnalyzeCmd(g))
	cmd.AddCommand(newWatchCmd(g))
	cmd.AddCommand(newRecipesCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
