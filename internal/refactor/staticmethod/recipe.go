package staticmethod

import (
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/tree"
)

// RecipeName is the registry name of the recipe.
const RecipeName = "AddStaticModifierToClassLevelMethod"

// Recipe adds the static modifier to the eligible methods of one class.
type Recipe struct {
	fqn  string
	opts Options
}

// NewRecipe creates a recipe for the class with the given fully-qualified name.
func NewRecipe(fullyQualifiedClassName string, opts ...Option) *Recipe {
	return &Recipe{fqn: fullyQualifiedClassName, opts: opts}
}

func (r *Recipe) Name() string { return RecipeName }

func (r *Recipe) DisplayName() string { return "Add static modifier to class level method" }

func (r *Recipe) Description() string {
	return "Add the static modifier to methods of " + r.fqn + " that do not access instance data."
}

// FullyQualifiedClassName returns the target class.
func (r *Recipe) FullyQualifiedClassName() string { return r.fqn }

// Visit implements refactor.Recipe.
func (r *Recipe) Visit(cu *tree.CompilationUnit) *tree.CompilationUnit {
	return Rewrite(cu, Analyze(cu, r.fqn, r.opts...))
}

var _ refactor.Recipe = (*Recipe)(nil)
