// Package golden loads paired harness captures and expected JUnit reports
// used to check the serializer end to end.
package golden

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions of the two files that make up a case.
const (
	InputExt    = ".jsonl"
	ExpectedExt = ".xml"
)

// Case is one captured harness stream together with the report it must produce.
type Case struct {
	Name     string // Case name (input filename without extension)
	Path     string // Full path to the input file
	Input    string // Captured harness output
	Expected string // Expected JUnit XML document
}

// ExpectedPath returns the path of the expected report for the case.
func (c *Case) ExpectedPath() string {
	return strings.TrimSuffix(c.Path, InputExt) + ExpectedExt
}

// LoadCases loads every case found under dir, sorted by name.
// Every input file must have an expected report next to it.
func LoadCases(dir string) ([]Case, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("golden directory not found: %s", dir)
	}

	matches, err := findInputs(dir)
	if err != nil {
		return nil, err
	}

	cases := make([]Case, 0, len(matches))
	for _, path := range matches {
		c, err := LoadCase(path)
		if err != nil {
			return nil, fmt.Errorf("golden case %s: %w", path, err)
		}
		cases = append(cases, *c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
	return cases, nil
}

// LoadCase loads a single case from its input file.
func LoadCase(path string) (*Case, error) {
	if filepath.Ext(path) != InputExt {
		return nil, fmt.Errorf("input must have %s extension", InputExt)
	}
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Case{
		Name:  strings.TrimSuffix(filepath.Base(path), InputExt),
		Path:  path,
		Input: string(input),
	}
	expected, err := os.ReadFile(c.ExpectedPath())
	if err != nil {
		return nil, fmt.Errorf("missing expected report: %w", err)
	}
	c.Expected = string(expected)
	return c, nil
}

// findInputs walks dir and returns the input files in lexical order.
func findInputs(dir string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != InputExt {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
