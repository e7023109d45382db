// Package registry maps recipe names to recipe constructors.
package registry

import (
	"fmt"
	"log/slog"
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/refactor/sayhello"
	"martianoff/staticify/internal/refactor/staticmethod"
	"martianoff/staticify/staticerr"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// OptionClass is the recipe option naming the target class.
const OptionClass = "fullyQualifiedClassName"

// Params carries what a recipe constructor needs besides its own options.
type Params struct {
	Options     map[string]string
	JavaRelease *semver.Version
	Logger      *slog.Logger
}

// Factory builds a recipe from its parameters.
type Factory func(p Params) (refactor.Recipe, error)

// Entry describes a registered recipe.
type Entry struct {
	Name        string
	DisplayName string
	Description string
	New         Factory
}

// Registry is a name-indexed set of recipes.
type Registry struct {
	entries map[string]Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Default returns a registry holding every built-in recipe.
func Default() *Registry {
	r := New()
	r.Register(Entry{
		Name:        staticmethod.RecipeName,
		DisplayName: "Add static modifier to class level method",
		Description: "Makes methods of the target class static when they use no instance data.",
		New: func(p Params) (refactor.Recipe, error) {
			fqn, err := requireOption(staticmethod.RecipeName, p.Options, OptionClass)
			if err != nil {
				return nil, err
			}
			return staticmethod.NewRecipe(fqn,
				staticmethod.WithLogger(p.Logger),
				staticmethod.WithJavaRelease(p.JavaRelease),
			), nil
		},
	})
	r.Register(Entry{
		Name:        sayhello.RecipeName,
		DisplayName: "Say Hello",
		Description: "Adds a \"hello\" method to the target class.",
		New: func(p Params) (refactor.Recipe, error) {
			fqn, err := requireOption(sayhello.RecipeName, p.Options, OptionClass)
			if err != nil {
				return nil, err
			}
			return sayhello.NewRecipe(fqn, p.Logger), nil
		},
	})
	return r
}

// Register adds e, replacing any entry with the same name.
func (r *Registry) Register(e Entry) {
	r.entries[e.Name] = e
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Build constructs the recipe registered under name.
func (r *Registry) Build(name string, p Params) (refactor.Recipe, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, staticerr.NewSemanticError(fmt.Sprintf("unknown recipe %q", name))
	}
	return e.New(p)
}

func requireOption(recipe string, opts map[string]string, key string) (string, error) {
	v := opts[key]
	if v == "" {
		return "", staticerr.NewSemanticError(fmt.Sprintf("recipe %s: missing option %q", recipe, key))
	}
	return v, nil
}
