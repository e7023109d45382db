// Package workspace finds the Java sources a command operates on.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Ext is the extension of the files recipes apply to.
const Ext = ".java"

// IsSource reports whether path names a Java source file.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Walk returns the Java sources under paths, sorted and without duplicates.
// A path may be a file, which is returned even without the .java extension,
// or a directory, which is searched recursively skipping hidden directories.
func Walk(paths ...string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Repo is a git working tree holding Java sources.
type Repo struct {
	repo *git.Repository
	wt   *git.Worktree
	root string
}

// OpenRepo opens the repository containing path, searching parent
// directories for .git.
func OpenRepo(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &Repo{repo: repo, wt: wt, root: wt.Filesystem.Root()}, nil
}

// Root returns the top directory of the working tree.
func (r *Repo) Root() string { return r.root }

// Tracked returns the Java sources committed at HEAD. A repository without
// commits has none.
func (r *Repo) Tracked() ([]string, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("loading HEAD commit: %w", err)
	}
	files, err := commit.Files()
	if err != nil {
		return nil, err
	}

	var out []string
	err = files.ForEach(func(f *object.File) error {
		if IsSource(f.Name) {
			out = append(out, r.abs(f.Name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Changed returns the Java sources that differ from HEAD in the index or
// the working tree, untracked files included. Deleted files are left out.
func (r *Repo) Changed() ([]string, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}
	var out []string
	for name, st := range status {
		if !IsSource(name) || st.Worktree == git.Deleted {
			continue
		}
		if st.Staging == git.Deleted && st.Worktree != git.Untracked {
			continue
		}
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		out = append(out, r.abs(name))
	}
	sort.Strings(out)
	return out, nil
}

func (r *Repo) abs(name string) string {
	return filepath.Join(r.root, filepath.FromSlash(name))
}

// Within keeps the files located under one of roots. With no roots every
// file is kept.
func Within(files []string, roots ...string) []string {
	if len(roots) == 0 {
		return files
	}
	var absRoots []string
	for _, r := range roots {
		if a, err := filepath.Abs(r); err == nil {
			absRoots = append(absRoots, a)
		}
	}
	var out []string
	for _, f := range files {
		for _, r := range absRoots {
			rel, err := filepath.Rel(r, f)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
