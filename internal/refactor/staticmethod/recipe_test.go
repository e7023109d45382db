package staticmethod_test

import (
	"martianoff/staticify/internal/parser"
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/refactor/printer"
	"martianoff/staticify/internal/refactor/staticmethod"
	"martianoff/staticify/internal/testsource"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRewriter(t *testing.T, c testsource.Case) *refactor.SourceRewriter {
	t.Helper()
	var opts []staticmethod.Option
	if rel, ok := c.Options["javaRelease"]; ok {
		v, err := staticmethod.ParseJavaRelease(rel)
		require.NoError(t, err)
		opts = append(opts, staticmethod.WithJavaRelease(v))
	}
	recipe := staticmethod.NewRecipe(c.Options["class"], opts...)
	return refactor.NewSourceRewriter(parser.NewJavaParser(), printer.NewJavaPrinter(), recipe)
}

func TestRecipeFixtures(t *testing.T) {
	cases, err := testsource.Load(testsource.Dir("internal/refactor/staticmethod"))
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			rw := newRewriter(t, c)

			res, err := rw.Rewrite(c.Before, c.Name+".java")
			require.NoError(t, err)
			assert.Equal(t, c.After, res.Output)
			assert.Equal(t, c.After != c.Before, res.Changed)

			// A second run finds nothing left to promote.
			again, err := rw.Rewrite(res.Output, c.Name+".java")
			require.NoError(t, err)
			assert.Equal(t, res.Output, again.Output)
			assert.False(t, again.Changed)
		})
	}
}

func TestRecipeMetadata(t *testing.T) {
	r := staticmethod.NewRecipe("com.yourorg.A")
	assert.Equal(t, staticmethod.RecipeName, r.Name())
	assert.Equal(t, "com.yourorg.A", r.FullyQualifiedClassName())
	assert.NotEmpty(t, r.DisplayName())
	assert.Contains(t, r.Description(), "com.yourorg.A")
}
