package testsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "promote.txtar", `# comment lines are ignored
class: com.yourorg.A
javaRelease: 11
-- before.java --
class A {}
-- after.java --
class A { }
`)

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "promote", c.Name)
	assert.Equal(t, map[string]string{"class": "com.yourorg.A", "javaRelease": "11"}, c.Options)
	assert.Equal(t, "class A {}\n", c.Before)
	assert.Equal(t, "class A { }\n", c.After)
}

func TestLoadFileWithoutAfter(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "same.txtar", "-- before.java --\nclass A {}\n")

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Before, c.After)
	assert.Empty(t, c.Options)
}

func TestLoadFileMissingBefore(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "broken.txtar", "-- after.java --\nclass A {}\n")

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "missing before.java")
}

func TestLoadSortsArchives(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "b.txtar", "-- before.java --\nclass B {}\n")
	writeArchive(t, dir, "a.txtar", "-- before.java --\nclass A {}\n")
	writeArchive(t, dir, "notes.txt", "ignored")

	cases, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "a", cases[0].Name)
	assert.Equal(t, "b", cases[1].Name)
}
