// Package scanner discovers course documents under the configured input
// directories.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matthew-brett/oktools/internal/domain"
)

// Scanner finds candidate document files.
type Scanner interface {
	Scan(rootDir string, include []string, exclude []string) ([]string, error)
}

// DocScanner implements Scanner over the local filesystem.
type DocScanner struct {
	Recursive bool
}

// New creates a DocScanner.
func New(recursive bool) *DocScanner {
	return &DocScanner{Recursive: recursive}
}

// Scan walks rootDir and returns the sorted paths of files matching any
// include pattern and no exclude pattern. Patterns match against the path
// relative to rootDir and support ** for any number of directories.
func (s *DocScanner) Scan(rootDir string, include []string, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if !s.Recursive && rel != "." {
				return filepath.SkipDir
			}
			for _, pattern := range exclude {
				if matchGlob(rel, pattern) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, pattern := range exclude {
			if matchGlob(rel, pattern) {
				return nil
			}
		}
		for _, pattern := range include {
			if matchGlob(rel, pattern) {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewError(domain.PhaseScan, rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// matchGlob matches rel against pattern, treating a ** segment as any
// directory prefix. Plain patterns also match against the base name, so
// "*.Rmd" finds files at any depth.
func matchGlob(rel, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], string(filepath.Separator))
		suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

		if prefix != "" {
			if !strings.HasPrefix(rel, prefix) {
				return false
			}
			rel = strings.TrimPrefix(strings.TrimPrefix(rel, prefix), string(filepath.Separator))
		}
		if suffix == "" {
			return true
		}
		segments := strings.Split(rel, string(filepath.Separator))
		for i := range segments {
			if ok, _ := filepath.Match(suffix, filepath.Join(segments[i:]...)); ok {
				return true
			}
		}
		return false
	}

	if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
		return true
	}
	ok, _ := filepath.Match(pattern, rel)
	return ok
}
