// Package generator wires the extraction pipeline: scan documents, read
// cells, sanitize, parse test blocks, export.
package generator

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/matthew-brett/oktools/internal/config"
	"github.com/matthew-brett/oktools/internal/document"
	"github.com/matthew-brett/oktools/internal/domain"
	"github.com/matthew-brett/oktools/internal/export"
	"github.com/matthew-brett/oktools/internal/parser"
	"github.com/matthew-brett/oktools/internal/sanitize"
	"github.com/matthew-brett/oktools/internal/scanner"
)

// Result aggregates counts from one extraction run.
type Result struct {
	Documents int // documents processed
	Cells     int // code cells examined
	Tests     int // test blocks extracted
	Skipped   int // cells that were not test blocks
}

// Generator runs the extraction pipeline.
type Generator struct {
	scanner  scanner.Scanner
	registry *document.Registry
	parser   *parser.BlockParser
	writer   *export.Writer
	log      *logrus.Logger
	progress bool
}

// New creates a Generator with all dependencies.
func New(
	s scanner.Scanner,
	registry *document.Registry,
	bp *parser.BlockParser,
	writer *export.Writer,
	log *logrus.Logger,
) *Generator {
	return &Generator{
		scanner:  s,
		registry: registry,
		parser:   bp,
		writer:   writer,
		log:      log,
	}
}

// WithProgress enables a progress bar over documents on stderr.
func (g *Generator) WithProgress() *Generator {
	g.progress = true
	return g
}

// Run extracts tests from every document the config points at.
func (g *Generator) Run(cfg *config.Config) (*Result, error) {
	var files []string
	for _, dir := range cfg.Input.Directories {
		g.log.Debugf("Scanning directory: %s", dir)
		found, err := g.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			g.log.Warnf("Failed to scan directory %s: %v", dir, err)
			continue
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		g.log.Warn("No documents found")
		return &Result{}, nil
	}
	g.log.Infof("Found %d document(s)", len(files))

	var bar *progressbar.ProgressBar
	if g.progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Parsing documents"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	res := &Result{}
	seen := make(map[string]string) // test name -> source document
	var entries []export.ManifestEntry

	for _, path := range files {
		if err := g.processDocument(path, res, seen, &entries); err != nil {
			return nil, err
		}
		res.Documents++
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if cfg.Output.Manifest {
		if err := g.writer.WriteManifest(entries); err != nil {
			return nil, err
		}
	}

	g.log.Infof("Extracted %d test(s) from %d cell(s)", res.Tests, res.Cells)
	return res, nil
}

func (g *Generator) processDocument(path string, res *Result, seen map[string]string, entries *[]export.ManifestEntry) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.NewError(domain.PhaseRead, path, 0, "failed to read document", err)
	}

	reader, err := g.registry.ReaderFor(filepath.Ext(path))
	if err != nil {
		g.log.Warnf("Skipping %s: %v", path, err)
		return nil
	}

	cells, err := reader.Read(path, content)
	if err != nil {
		return err
	}
	g.log.Debugf("%s: %d code cell(s)", path, len(cells))

	for _, cell := range cells {
		res.Cells++
		src := sanitize.StripHTMLComments(cell.Source)
		test, err := g.parser.Parse(src)
		if err != nil {
			return locate(err, path, cell.Line)
		}
		if test == nil {
			res.Skipped++
			continue
		}
		if prev, dup := seen[test.Name]; dup {
			g.log.Warnf("Test %q in %s overrides earlier definition in %s", test.Name, path, prev)
		}
		seen[test.Name] = path

		outPath, err := g.writer.WriteTest(test)
		if err != nil {
			return locate(err, path, cell.Line)
		}
		res.Tests++
		*entries = append(*entries, export.ManifestEntry{
			Name:   test.Name,
			Points: test.Points.Float(),
			Suites: len(test.Suites),
			Source: path,
			Path:   outPath,
		})
		g.log.Debugf("Wrote %s", outPath)
	}
	return nil
}

// locate stamps the source document, and the cell's position when the cell
// parser only knows cell-relative lines, onto a pipeline error.
func locate(err error, path string, cellLine int) error {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.File == "" {
			de.File = path
		}
		if cellLine > 0 && de.Line > 0 {
			// Cell-relative line -> document line.
			de.Line += cellLine - 1
		}
	}
	return err
}
