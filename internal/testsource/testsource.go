// Package testsource loads before/after Java fixtures stored as txtar
// archives.
package testsource

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
	"golang.org/x/tools/txtar"
)

// Case is one fixture: source before and after applying recipes.
//
// The archive comment holds "key: value" lines; files named before.java and
// after.java hold the sources. A missing after.java means the source is
// expected to stay unchanged.
type Case struct {
	Name    string
	Options map[string]string
	Before  string
	After   string
	Files   map[string]string
}

// Dir returns the directory holding the fixtures of the package pkgDir,
// given relative to the module root. In Bazel tests it uses runfiles;
// otherwise it walks up to go.mod and resolves pkgDir from there.
func Dir(pkgDir string) string {
	rel := filepath.Join(pkgDir, "testdata")
	if path, err := bazel.Runfile(rel); err == nil {
		return path
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "testdata"
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, rel)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "testdata"
}

// Load parses every .txtar archive in dir.
func Load(dir string) ([]Case, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	cases := make([]Case, 0, len(matches))
	for _, path := range matches {
		c, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// LoadFile parses one archive.
func LoadFile(path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, err
	}
	ar := txtar.Parse(data)
	c := Case{
		Name:    strings.TrimSuffix(filepath.Base(path), ".txtar"),
		Options: parseOptions(ar.Comment),
		Files:   make(map[string]string),
	}
	for _, f := range ar.Files {
		c.Files[f.Name] = string(f.Data)
	}
	before, ok := c.Files["before.java"]
	if !ok {
		return Case{}, fmt.Errorf("%s: missing before.java", path)
	}
	c.Before = before
	c.After = before
	if after, ok := c.Files["after.java"]; ok {
		c.After = after
	}
	return c, nil
}

func parseOptions(comment []byte) map[string]string {
	opts := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(string(comment)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			opts[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return opts
}
