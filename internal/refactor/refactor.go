// Package refactor wires the Java parser, recipes and printer into a source
// rewriting pipeline.
package refactor

import (
	"martianoff/staticify/internal/tree"
)

// JavaParser parses Java source into a tree.
type JavaParser interface {
	Parse(input, path string) (*tree.CompilationUnit, error)
}

// Printer serializes a tree back to source text.
type Printer interface {
	Print(cu *tree.CompilationUnit) (string, error)
}

// Recipe transforms a compilation unit. Visit returns the unit unchanged
// (the same pointer) when the recipe does not apply.
type Recipe interface {
	Name() string
	DisplayName() string
	Description() string
	Visit(cu *tree.CompilationUnit) *tree.CompilationUnit
}

// Result is the outcome of rewriting one source file.
type Result struct {
	Path    string
	Output  string
	Changed bool
}

// SourceRewriter runs recipes over source files.
type SourceRewriter struct {
	parser  JavaParser
	recipes []Recipe
	printer Printer
}

// NewSourceRewriter creates a new SourceRewriter with its dependencies.
func NewSourceRewriter(parser JavaParser, printer Printer, recipes ...Recipe) *SourceRewriter {
	return &SourceRewriter{
		parser:  parser,
		recipes: recipes,
		printer: printer,
	}
}

// Recipes returns the configured recipes in application order.
func (r *SourceRewriter) Recipes() []Recipe {
	return r.recipes
}

// Rewrite parses input, applies every recipe in order and prints the result.
// Output equals input when no recipe changed the tree.
func (r *SourceRewriter) Rewrite(input, path string) (Result, error) {
	cu, err := r.parser.Parse(input, path)
	if err != nil {
		return Result{Path: path}, err
	}

	changed := false
	for _, recipe := range r.recipes {
		next := recipe.Visit(cu)
		if next != cu {
			changed = true
			cu = next
		}
	}
	if !changed {
		return Result{Path: path, Output: input}, nil
	}

	out, err := r.printer.Print(cu)
	if err != nil {
		return Result{Path: path}, err
	}
	return Result{Path: path, Output: out, Changed: out != input}, nil
}
