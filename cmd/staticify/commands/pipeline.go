package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"martianoff/staticify/internal/config"
	"martianoff/staticify/internal/parser"
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/refactor/printer"
	"martianoff/staticify/internal/refactor/registry"
	"martianoff/staticify/internal/refactor/staticmethod"
	"martianoff/staticify/internal/workspace"
	"martianoff/staticify/staticerr"
)

// recipeOptions selects the recipes a command runs.
type recipeOptions struct {
	class   string
	recipes []string
	config  string
}

func (o *recipeOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.class, "class", "c", "", "Fully-qualified name of the target class")
	cmd.Flags().StringArrayVarP(&o.recipes, "recipe", "r", nil, "Recipe to run (repeatable, default "+staticmethod.RecipeName+")")
	cmd.Flags().StringVar(&o.config, "config", "", "Recipe file (default $"+config.EnvConfig+" or ./"+config.DefaultFile+")")
}

// buildRewriter resolves the recipe list from the flags or a recipe file and
// wires it into a rewriter.
func buildRewriter(cmd *cobra.Command, g *globalOptions, o *recipeOptions) (*refactor.SourceRewriter, error) {
	var (
		refs        []config.RecipeRef
		fileRelease string
	)
	path := ""
	if len(o.recipes) == 0 {
		path = config.Resolve(o.config)
	}
	if path != "" {
		f, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		f = f.WithClass(registry.OptionClass, o.class)
		refs, fileRelease = f.RecipeList, f.JavaRelease
		g.log.Debug("loaded recipe file", "path", path, "name", f.Name, "recipes", len(refs))
	} else {
		names := o.recipes
		if len(names) == 0 {
			names = []string{staticmethod.RecipeName}
		}
		if o.class == "" {
			return nil, staticerr.NewSemanticError("--class is required")
		}
		for _, name := range names {
			refs = append(refs, config.RecipeRef{Name: name, Options: map[string]string{registry.OptionClass: o.class}})
		}
	}

	release, err := g.release(cmd, fileRelease)
	if err != nil {
		return nil, err
	}

	reg := registry.Default()
	recipes := make([]refactor.Recipe, 0, len(refs))
	for _, ref := range refs {
		r, err := reg.Build(ref.Name, registry.Params{Options: ref.Options, JavaRelease: release, Logger: g.log})
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return refactor.NewSourceRewriter(parser.NewJavaParser(), printer.NewJavaPrinter(), recipes...), nil
}

// sourceOptions selects the files a command reads.
type sourceOptions struct {
	git     bool
	changed bool
}

func (o *sourceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.git, "git", false, "Only files tracked at HEAD of the enclosing git repository")
	cmd.Flags().BoolVar(&o.changed, "changed", false, "Only files changed in the git worktree")
}

// collectFiles lists the Java sources named by paths, "." when empty.
func collectFiles(o *sourceOptions, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if !o.git && !o.changed {
		return workspace.Walk(paths...)
	}

	repo, err := workspace.OpenRepo(paths[0])
	if err != nil {
		return nil, err
	}
	var files []string
	if o.changed {
		files, err = repo.Changed()
	} else {
		files, err = repo.Tracked()
	}
	if err != nil {
		return nil, err
	}
	return workspace.Within(files, paths...), nil
}

// rewriteFile runs rw over one file. With write set, a changed file is
// replaced in place keeping its permissions.
func rewriteFile(rw *refactor.SourceRewriter, path string, write bool) (refactor.Result, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return refactor.Result{Path: path}, "", err
	}
	before := string(data)
	res, err := rw.Rewrite(before, path)
	if err != nil {
		return res, before, err
	}
	if write && res.Changed {
		info, err := os.Stat(path)
		if err != nil {
			return res, before, err
		}
		if err := os.WriteFile(path, []byte(res.Output), info.Mode().Perm()); err != nil {
			return res, before, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return res, before, nil
}
