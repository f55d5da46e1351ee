// Package export serializes parsed tests for the grading engine.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/matthew-brett/oktools/internal/domain"
)

// Writer writes one JSON file per test into an output directory.
type Writer struct {
	dir    string
	dryRun bool
}

// NewWriter creates a Writer targeting dir. With dryRun set, nothing touches
// the filesystem and paths are computed only.
func NewWriter(dir string, dryRun bool) *Writer {
	return &Writer{dir: dir, dryRun: dryRun}
}

// WriteTest serializes the test to <dir>/<name>.json and returns the path.
// A test without a name cannot be addressed by the grading engine and is an
// export error.
func (w *Writer) WriteTest(t *domain.Test) (string, error) {
	if t.Name == "" {
		return "", domain.NewError(domain.PhaseExport, "", 0, "test has no name", nil)
	}
	path := filepath.Join(w.dir, t.Name+".json")

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", domain.NewError(domain.PhaseExport, path, 0, "failed to serialize test", err)
	}
	if w.dryRun {
		return path, nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", domain.NewError(domain.PhaseExport, w.dir, 0, "failed to create output directory", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", domain.NewError(domain.PhaseExport, path, 0, "failed to write test", err)
	}
	return path, nil
}

// Manifest summarizes one extraction run.
type Manifest struct {
	GeneratedAt string          `json:"generated_at"`
	Tests       []ManifestEntry `json:"tests"`
}

// ManifestEntry records where a test came from and where it went.
type ManifestEntry struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Suites int     `json:"suites"`
	Source string  `json:"source"`
	Path   string  `json:"path"`
}

// WriteManifest writes the run summary to <dir>/manifest.json.
func (w *Writer) WriteManifest(entries []ManifestEntry) error {
	if w.dryRun {
		return nil
	}
	m := Manifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Tests:       entries,
	}
	if m.Tests == nil {
		m.Tests = []ManifestEntry{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return domain.NewError(domain.PhaseExport, "", 0, "failed to serialize manifest", err)
	}
	path := filepath.Join(w.dir, "manifest.json")
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return domain.NewError(domain.PhaseExport, w.dir, 0, "failed to create output directory", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return domain.NewError(domain.PhaseExport, path, 0, "failed to write manifest", err)
	}
	return nil
}
