package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "A.java"), "class A {}")
	writeFile(t, filepath.Join(dir, "src", "pkg", "B.java"), "class B {}")
	writeFile(t, filepath.Join(dir, "src", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".hidden", "C.java"), "class C {}")
	single := filepath.Join(dir, "Single.jav")
	writeFile(t, single, "class S {}")

	files, err := Walk(dir, filepath.Join(dir, "src"), single)
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "src", "A.java"),
		filepath.Join(dir, "src", "pkg", "B.java"),
	}, files)
}

func TestWalkMissingPath(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func initRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return dir, wt
}

func commitAll(t *testing.T, wt *git.Worktree, paths ...string) {
	t.Helper()
	for _, p := range paths {
		_, err := wt.Add(p)
		require.NoError(t, err)
	}
	_, err := wt.Commit("snapshot", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
}

func TestRepoTrackedAndChanged(t *testing.T) {
	dir, wt := initRepo(t)
	writeFile(t, filepath.Join(dir, "src", "A.java"), "class A {}")
	writeFile(t, filepath.Join(dir, "src", "B.java"), "class B {}")
	writeFile(t, filepath.Join(dir, "README.md"), "readme")
	commitAll(t, wt, "src/A.java", "src/B.java", "README.md")

	writeFile(t, filepath.Join(dir, "src", "A.java"), "class A { int x; }")
	writeFile(t, filepath.Join(dir, "src", "New.java"), "class New {}")
	require.NoError(t, os.Remove(filepath.Join(dir, "src", "B.java")))

	r, err := OpenRepo(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, dir, r.Root())

	tracked, err := r.Tracked()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "A.java"),
		filepath.Join(dir, "src", "B.java"),
	}, tracked)

	changed, err := r.Changed()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "A.java"),
		filepath.Join(dir, "src", "New.java"),
	}, changed)
}

func TestRepoWithoutCommits(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := OpenRepo(dir)
	require.NoError(t, err)

	tracked, err := r.Tracked()
	require.NoError(t, err)
	assert.Empty(t, tracked)
}

func TestOpenRepoOutsideGit(t *testing.T) {
	_, err := OpenRepo(t.TempDir())
	assert.Error(t, err)
}

func TestWithin(t *testing.T) {
	files := []string{"/repo/a/A.java", "/repo/b/B.java", "/repo/ab/C.java"}
	assert.Equal(t, files, Within(files))
	assert.Equal(t, []string{"/repo/a/A.java"}, Within(files, "/repo/a"))
	assert.Equal(t, []string{"/repo/a/A.java", "/repo/b/B.java"}, Within(files, "/repo/b", "/repo/a"))
}
