package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/staticify/internal/config"
	"martianoff/staticify/internal/refactor/sayhello"
	"martianoff/staticify/internal/refactor/staticmethod"
)

const sourceA = `package com.yourorg;

class A {
    int count;

    int add(int a, int b) {
        return a + b;
    }

    int next() {
        return ++count;
    }
}
`

const rewrittenA = `package com.yourorg;

class A {
    int count;

    static int add(int a, int b) {
        return a + b;
    }

    int next() {
        return ++count;
    }
}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRewritePrintsSingleFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeSource(t, ".", "A.java", sourceA)

	out, err := run(t, "rewrite", "--class", "com.yourorg.A", path)
	require.NoError(t, err)
	assert.Equal(t, rewrittenA, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sourceA, string(data), "file must not change without --write")
}

func TestRewriteWrite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeSource(t, dir, "src/A.java", sourceA)
	b := writeSource(t, dir, "src/B.java", "class B { int f() { return 1; } }\n")

	out, err := run(t, "rewrite", "--class", "com.yourorg.A", "--write", "src")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, rewrittenA, string(data))

	data, err = os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "class B { int f() { return 1; } }\n", string(data))
}

func TestRewriteListsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "src/A.java", sourceA)
	writeSource(t, dir, "src/B.java", "class B {}\n")

	out, err := run(t, "rewrite", "--class", "com.yourorg.A", "src")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "A.java")+"\n", out)
}

func TestRewriteDiff(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "A.java", sourceA)

	out, err := run(t, "rewrite", "--class", "com.yourorg.A", "--diff", "A.java")
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/A.java\n+++ b/A.java\n")
	assert.Contains(t, out, "-    int add(int a, int b) {\n+    static int add(int a, int b) {\n")
}

func TestRewriteWithRecipeFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "A.java", "package com.yourorg;\n\nclass A {\n}\n")
	writeSource(t, dir, "recipes.yml", `name: test
recipeList:
  - SayHello:
      fullyQualifiedClassName: com.yourorg.A
`)

	out, err := run(t, "rewrite", "--config", "recipes.yml", "A.java")
	require.NoError(t, err)
	assert.Contains(t, out, `return "Hello from com.yourorg.A!";`)
}

func TestRewriteExplicitRecipes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "A.java", "package com.yourorg;\n\nclass A {\n}\n")

	out, err := run(t, "rewrite", "--class", "com.yourorg.A",
		"--recipe", sayhello.RecipeName, "--recipe", staticmethod.RecipeName, "A.java")
	require.NoError(t, err)
	// The greeting uses no instance state, so the second recipe promotes it.
	assert.Contains(t, out, "public static String hello() {")
}

func TestRewriteErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "Broken.java", "class Broken {\n")

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "Missing class", args: []string{"rewrite", "Broken.java"}, expected: "--class is required"},
		{name: "Unknown recipe", args: []string{"rewrite", "--class", "A", "--recipe", "Nope", "Broken.java"}, expected: `unknown recipe "Nope"`},
		{name: "Syntax error", args: []string{"rewrite", "--class", "A", "Broken.java"}, expected: "Broken.java:1:14"},
		{name: "Bad java release", args: []string{"rewrite", "--class", "A", "--java-release", "x", "Broken.java"}, expected: "invalid java release"},
		{name: "Bad log format", args: []string{"rewrite", "--log-format", "xml", "--class", "A", "Broken.java"}, expected: "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestAnalyzeJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "A.java", sourceA)

	out, err := run(t, "analyze", "--class", "com.yourorg.A", "--json", "A.java")
	require.NoError(t, err)

	var reports []classReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "com.yourorg.A", reports[0].Class)
	assert.Equal(t, []methodReport{
		{Name: "add", Line: 6, Eligible: true, Reason: "eligible", Pass: 1},
		{Name: "next", Line: 10, Eligible: false, Reason: "instance-state", Pass: 1},
	}, reports[0].Methods)
}

func TestAnalyzeText(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeSource(t, dir, "A.java", sourceA)

	out, err := run(t, "analyze", "--class", "com.yourorg.A", "A.java")
	require.NoError(t, err)
	assert.Contains(t, out, "com.yourorg.A (A.java)")
	assert.Regexp(t, `6\s+add\s+static\s+eligible`, out)
	assert.Regexp(t, `10\s+next\s+keep\s+instance-state`, out)
}

func TestRecipesAndVersion(t *testing.T) {
	out, err := run(t, "recipes")
	require.NoError(t, err)
	assert.Contains(t, out, staticmethod.RecipeName)
	assert.Contains(t, out, sayhello.RecipeName)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "staticify version dev")
}
