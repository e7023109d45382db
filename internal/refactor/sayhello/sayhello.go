// Package sayhello adds a greeting method to a class.
package sayhello

import (
	"fmt"
	"log/slog"
	"martianoff/staticify/internal/parser"
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/tree"
	"strings"
)

// RecipeName is the registry name of the recipe.
const RecipeName = "SayHello"

const defaultIndent = "    "

// Recipe adds `public String hello()` to the target class unless the class
// already declares a method named hello.
type Recipe struct {
	fqn string
	log *slog.Logger
}

// NewRecipe creates a recipe for the class with the given fully-qualified
// name. A nil logger discards.
func NewRecipe(fullyQualifiedClassName string, log *slog.Logger) *Recipe {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Recipe{fqn: fullyQualifiedClassName, log: log}
}

func (r *Recipe) Name() string { return RecipeName }

func (r *Recipe) DisplayName() string { return "Say Hello" }

func (r *Recipe) Description() string {
	return "Adds a \"hello\" method to " + r.fqn + "."
}

// FullyQualifiedClassName returns the target class.
func (r *Recipe) FullyQualifiedClassName() string { return r.fqn }

// Visit implements refactor.Recipe.
func (r *Recipe) Visit(cu *tree.CompilationUnit) *tree.CompilationUnit {
	targets := make(map[*tree.ClassDecl]bool)
	for _, c := range tree.Classes(cu) {
		if !tree.QualifiedNameMatches(c, r.fqn) {
			continue
		}
		if hasHello(c) {
			r.log.Debug("hello already declared", "class", c.FullyQualifiedName)
			continue
		}
		targets[c] = true
	}
	if len(targets) == 0 {
		return cu
	}

	return tree.ReplaceMembers(cu, func(n tree.Node) (tree.Node, bool) {
		c, ok := n.(*tree.ClassDecl)
		if !ok || !targets[c] {
			return nil, false
		}
		next, err := addHello(c)
		if err != nil {
			r.log.Warn("cannot add hello", "class", c.FullyQualifiedName, "error", err)
			return nil, false
		}
		r.log.Debug("added hello", "class", c.FullyQualifiedName)
		return next, true
	})
}

func hasHello(c *tree.ClassDecl) bool {
	for _, m := range c.Methods() {
		if m.SimpleName() == "hello" {
			return true
		}
	}
	return false
}

// addHello returns a copy of c with the greeting appended to its members,
// indented one level deeper than the class.
func addHello(c *tree.ClassDecl) (*tree.ClassDecl, error) {
	classIndent, ok := indentOf(c.Close.Prefix)
	if !ok {
		classIndent, _ = indentOf(tree.LeadingPrefix(c))
	}
	unit := indentUnit(c, classIndent)
	inner := classIndent + unit

	lead := "\n"
	if len(c.Members) > 0 {
		lead = "\n\n"
	}
	src := fmt.Sprintf("%s%spublic String hello() {\n%s%sreturn \"Hello from %s!\";\n%s}",
		lead, inner, inner, unit, javaQualifiedName(c.FullyQualifiedName), inner)
	member, err := parser.ParseMember(src, c.Name)
	if err != nil {
		return nil, err
	}

	next := *c
	next.Members = make([]tree.Node, 0, len(c.Members)+1)
	next.Members = append(next.Members, c.Members...)
	next.Members = append(next.Members, member)
	if _, ok := indentOf(c.Close.Prefix); !ok {
		next.Close = c.Close.WithPrefix("\n" + classIndent)
	}
	return &next, nil
}

// indentOf returns the whitespace after the last line break of prefix.
func indentOf(prefix string) (string, bool) {
	i := strings.LastIndexByte(prefix, '\n')
	if i < 0 {
		return "", false
	}
	rest := prefix[i+1:]
	if strings.TrimLeft(rest, " \t") != "" {
		return "", false
	}
	return rest, true
}

// indentUnit guesses one indentation level from the first member that starts
// on its own line.
func indentUnit(c *tree.ClassDecl, classIndent string) string {
	for _, m := range c.Members {
		indent, ok := indentOf(tree.LeadingPrefix(m))
		if ok && len(indent) > len(classIndent) && strings.HasPrefix(indent, classIndent) {
			return indent[len(classIndent):]
		}
	}
	return defaultIndent
}

// javaQualifiedName spells a binary nested-class name the way Java source
// does.
func javaQualifiedName(fqn string) string {
	return strings.ReplaceAll(fqn, "$", ".")
}

var _ refactor.Recipe = (*Recipe)(nil)
