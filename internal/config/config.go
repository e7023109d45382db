// Package config loads declarative recipe files.
//
// A recipe file lists the recipes to run, in order, with their options:
//
//	name: my.Recipes
//	javaRelease: "17"
//	recipeList:
//	  - AddStaticModifierToClassLevelMethod:
//	      fullyQualifiedClassName: com.yourorg.A
//	  - SayHello:
//	      fullyQualifiedClassName: com.yourorg.A
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"martianoff/staticify/staticerr"
)

// EnvConfig names the environment variable holding the default recipe file.
const EnvConfig = "STATICIFY_CONFIG"

// DefaultFile is the recipe file looked up in the working directory.
const DefaultFile = "rewrite.yml"

// File is a parsed recipe file.
type File struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	JavaRelease string      `yaml:"javaRelease,omitempty"`
	RecipeList  []RecipeRef `yaml:"recipeList"`
}

// RecipeRef is one entry of a recipe list: a recipe name, optionally with
// options.
type RecipeRef struct {
	Name    string
	Options map[string]string
}

// UnmarshalYAML accepts either a bare name or a single-key mapping from the
// name to its options.
func (r *RecipeRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		r.Name = node.Value
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: recipe entry must have exactly one name", node.Line)
		}
		r.Name = node.Content[0].Value
		if node.Content[1].Kind == yaml.ScalarNode && node.Content[1].Tag == "!!null" {
			return nil
		}
		if err := node.Content[1].Decode(&r.Options); err != nil {
			return fmt.Errorf("line %d: options of %s: %w", node.Line, r.Name, err)
		}
		return nil
	}
	return fmt.Errorf("line %d: recipe entry must be a name or a mapping", node.Line)
}

// MarshalYAML writes the mapping form.
func (r RecipeRef) MarshalYAML() (any, error) {
	if len(r.Options) == 0 {
		return r.Name, nil
	}
	return map[string]map[string]string{r.Name: r.Options}, nil
}

// Parse decodes a recipe file read from rd. path is only used in errors.
func Parse(rd io.Reader, path string) (*File, error) {
	var f File
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, staticerr.NewConfigError(path, "empty recipe file", nil)
		}
		return nil, staticerr.NewConfigError(path, "invalid recipe file", err)
	}
	if len(f.RecipeList) == 0 {
		return nil, staticerr.NewConfigError(path, "recipeList is empty", nil)
	}
	for i, r := range f.RecipeList {
		if r.Name == "" {
			return nil, staticerr.NewConfigError(path, fmt.Sprintf("recipeList[%d] has no name", i), nil)
		}
	}
	return &f, nil
}

// Load reads the recipe file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, staticerr.NewConfigError(path, "cannot open recipe file", err)
	}
	defer fh.Close()
	return Parse(fh, path)
}

// Resolve picks the recipe file to use: explicit wins, then $STATICIFY_CONFIG,
// then rewrite.yml in the working directory if it exists. It returns "" when
// there is none.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// WithClass returns a copy of f in which every recipe lacking the option key
// gets value. It lets a --class flag fill in a shared recipe file.
func (f *File) WithClass(key, value string) *File {
	c := *f
	c.RecipeList = make([]RecipeRef, len(f.RecipeList))
	for i, r := range f.RecipeList {
		opts := make(map[string]string, len(r.Options)+1)
		for k, v := range r.Options {
			opts[k] = v
		}
		if value != "" && opts[key] == "" {
			opts[key] = value
		}
		c.RecipeList[i] = RecipeRef{Name: r.Name, Options: opts}
	}
	return &c
}
