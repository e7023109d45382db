package sayhello_test

import (
	"martianoff/staticify/internal/parser"
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/refactor/printer"
	"martianoff/staticify/internal/refactor/sayhello"
	"martianoff/staticify/internal/testsource"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeFixtures(t *testing.T) {
	cases, err := testsource.Load(testsource.Dir("internal/refactor/sayhello"))
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			recipe := sayhello.NewRecipe(c.Options["class"], nil)
			rw := refactor.NewSourceRewriter(parser.NewJavaParser(), printer.NewJavaPrinter(), recipe)

			res, err := rw.Rewrite(c.Before, c.Name+".java")
			require.NoError(t, err)
			assert.Equal(t, c.After, res.Output)

			// The added method makes the recipe a no-op on its own output.
			again, err := rw.Rewrite(res.Output, c.Name+".java")
			require.NoError(t, err)
			assert.False(t, again.Changed)
		})
	}
}

func TestRecipeOnCompactClass(t *testing.T) {
	recipe := sayhello.NewRecipe("A", nil)
	rw := refactor.NewSourceRewriter(parser.NewJavaParser(), printer.NewJavaPrinter(), recipe)

	res, err := rw.Rewrite("class A {}", "A.java")
	require.NoError(t, err)
	assert.Equal(t, "class A {\n    public String hello() {\n        return \"Hello from A!\";\n    }\n}", res.Output)
}

func TestRecipeMetadata(t *testing.T) {
	r := sayhello.NewRecipe("com.yourorg.A", nil)
	assert.Equal(t, sayhello.RecipeName, r.Name())
	assert.Equal(t, "com.yourorg.A", r.FullyQualifiedClassName())
	assert.Contains(t, r.Description(), "com.yourorg.A")
}
