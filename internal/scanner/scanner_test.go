package scanner_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/matthew-brett/oktools/internal/scanner"
)

var _ = Describe("DocScanner", func() {
	var s *scanner.DocScanner

	BeforeEach(func() {
		s = scanner.New(true)
	})

	It("finds R-Markdown files in testdata", func() {
		files, err := s.Scan(filepath.Join("..", "..", "testdata", "markdown"), []string{"*.Rmd"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(filepath.Base(files[0])).To(Equal("exercise.Rmd"))
	})

	It("returns sorted paths across several patterns", func() {
		files, err := s.Scan(filepath.Join("..", "..", "testdata", "markdown"), []string{"*.Rmd", "*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(2))
		Expect(filepath.Base(files[0])).To(Equal("exercise.Rmd"))
		Expect(filepath.Base(files[1])).To(Equal("notes.md"))
	})

	It("matches base names at any depth", func() {
		files, err := s.Scan(filepath.Join("..", "..", "testdata"), []string{"*.ipynb"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(filepath.Base(files[0])).To(Equal("exercise.ipynb"))
	})

	It("respects exclude patterns", func() {
		files, err := s.Scan(filepath.Join("..", "..", "testdata", "markdown"), []string{"*.Rmd", "*.md"}, []string{"notes.md"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(filepath.Base(files[0])).To(Equal("exercise.Rmd"))
	})

	It("skips excluded directory trees", func() {
		files, err := s.Scan(filepath.Join("..", "..", "testdata"), []string{"*.ipynb"}, []string{"ipynb/**"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(BeEmpty())
	})

	It("handles non-recursive mode", func() {
		s = scanner.New(false)
		files, err := s.Scan(filepath.Join("..", "..", "testdata"), []string{"*.Rmd", "*.md", "*.ipynb"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(BeEmpty())
	})

	It("returns an error for a nonexistent directory", func() {
		_, err := s.Scan("nonexistent_dir", []string{"*.Rmd"}, nil)
		Expect(err).To(HaveOccurred())
	})
})
