package parser_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/matthew-brett/oktools/internal/domain"
	"github.com/matthew-brett/oktools/internal/parser"
)

const egCellText = `#t name=q1a_2 points=1
# a should be greater than 0.
assert a > 0
#c
# a should be less than 10.
assert a < 10
#s private=true
# a should be equal to 1.
assert a == 1
#c
#t# Comment not visible in output test.
# a should be less than 5.
assert a == 1
`

const egCellJSON = `{
  "name": "q1a_2",
  "points": 1,
  "suites": [
    {
      "cases": [
        {"code": "# a should be greater than 0.\nassert a > 0", "hidden": false, "locked": false},
        {"code": "# a should be less than 10.\nassert a < 10", "hidden": false, "locked": false}
      ],
      "scored": true,
      "setup": "",
      "teardown": "",
      "type": "doctest"
    },
    {
      "cases": [
        {"code": "# a should be equal to 1.\nassert a == 1", "hidden": false, "locked": false},
        {"code": "# a should be less than 5.\nassert a == 1", "hidden": false, "locked": false}
      ],
      "private": true,
      "scored": true,
      "setup": "",
      "teardown": "",
      "type": "doctest"
    }
  ]
}`

var _ = Describe("BlockParser", func() {
	Describe("the canonical test cell", func() {
		It("builds the full two-suite structure", func() {
			test, err := parser.ParseTest(egCellText)
			Expect(err).ToNot(HaveOccurred())
			Expect(test).ToNot(BeNil())

			Expect(test.Name).To(Equal("q1a_2"))
			Expect(test.Points.Float()).To(Equal(1.0))
			Expect(test.Suites).To(HaveLen(2))
			Expect(test.Suites[0].Cases).To(HaveLen(2))
			Expect(test.Suites[1].Cases).To(HaveLen(2))
			Expect(test.Suites[0].Extra).ToNot(HaveKey("private"))
			Expect(test.Suites[1].Extra).To(HaveKeyWithValue("private", true))

			code, set := test.Suites[1].Cases[1].Code()
			Expect(set).To(BeTrue())
			// The #t# line is invisible and does not interrupt accumulation.
			Expect(code).To(Equal("# a should be less than 5.\nassert a == 1"))
		})

		It("serializes to the grading engine layout", func() {
			test, err := parser.ParseTest(egCellText)
			Expect(err).ToNot(HaveOccurred())
			data, err := json.Marshal(test)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(MatchJSON(egCellJSON))
		})
	})

	Describe("header defaults", func() {
		It("defaults points to 1", func() {
			test, err := parser.ParseTest("#t name=q1\nassert a\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Points.Float()).To(Equal(1.0))
		})

		It("builds one default suite and case for a bare #t", func() {
			test, err := parser.ParseTest("#t")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Name).To(BeEmpty())
			Expect(test.Suites).To(HaveLen(1))
			Expect(test.Suites[0].Scored).To(BeTrue())
			Expect(test.Suites[0].Type).To(Equal("doctest"))
			Expect(test.Suites[0].Cases).To(HaveLen(1))
			_, set := test.Suites[0].Cases[0].Code()
			Expect(set).To(BeFalse())
		})
	})

	Describe("inputs that are not test blocks", func() {
		It("returns no result when the first line is not #t", func() {
			test, err := parser.ParseTest("# Just a comment\nassert a\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test).To(BeNil())
		})

		It("returns no result for empty text", func() {
			test, err := parser.ParseTest("  \n\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test).To(BeNil())
		})

		It("returns no result when only invisible comments remain", func() {
			test, err := parser.ParseTest("#t# hidden note\n#t# another\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test).To(BeNil())
		})

		It("ignores leading blank lines before the #t marker", func() {
			test, err := parser.ParseTest("\n\n#t name=q1\nassert a\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test).ToNot(BeNil())
			Expect(test.Name).To(Equal("q1"))
		})
	})

	Describe("parameter inheritance", func() {
		It("carries suite parameters to later unmarked suites", func() {
			test, err := parser.ParseTest(
				"#t name=q1\n#s private=true\nassert a\n#s\nassert b\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Suites).To(HaveLen(2))
			Expect(test.Suites[0].Extra).To(HaveKeyWithValue("private", true))
			Expect(test.Suites[1].Extra).To(HaveKeyWithValue("private", true))
		})

		It("carries case parameters to later cases of the same suite", func() {
			test, err := parser.ParseTest(
				"#t name=q1\n#c hidden=true\nassert a\n#c\nassert b\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Suites).To(HaveLen(1))
			cases := test.Suites[0].Cases
			Expect(cases).To(HaveLen(2))
			Expect(cases[0].Hidden).To(BeTrue())
			Expect(cases[1].Hidden).To(BeTrue())
		})

		It("resets the case template at a new suite", func() {
			test, err := parser.ParseTest(
				"#t name=q1\n#c hidden=true\nassert a\n#s\nassert b\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Suites).To(HaveLen(2))
			Expect(test.Suites[0].Cases[0].Hidden).To(BeTrue())
			Expect(test.Suites[1].Cases[0].Hidden).To(BeFalse())
		})

		It("keeps explicit marker keys on top of inherited values", func() {
			test, err := parser.ParseTest(
				"#t name=q1\n#s private=true setup=prep\nassert a\n#s private=false\nassert b\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Suites[1].Extra).To(HaveKeyWithValue("private", false))
			Expect(test.Suites[1].Setup).To(Equal("prep"))
		})
	})

	Describe("suite and case creation order", func() {
		It("gives a marked case directly after a suite marker no default sibling", func() {
			test, err := parser.ParseTest(
				"#t name=q1\n#s\n#c hidden=true\nassert a\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Suites).To(HaveLen(1))
			Expect(test.Suites[0].Cases).To(HaveLen(1))
			Expect(test.Suites[0].Cases[0].Hidden).To(BeTrue())
		})

		It("accumulates multiple plain lines into one case", func() {
			test, err := parser.ParseTest("#t name=q1\nline one\n\nline three\n")
			Expect(err).ToNot(HaveOccurred())
			code, set := test.Suites[0].Cases[0].Code()
			Expect(set).To(BeTrue())
			Expect(code).To(Equal("line one\n\nline three"))
		})
	})

	Describe("later #t lines", func() {
		It("merges later #t parameters with last write winning by default", func() {
			test, err := parser.ParseTest(
				"#t name=q1 points=1\nassert a\n#t points=2\nassert b\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Points.Float()).To(Equal(2.0))
			// The continuation line does not interrupt code accumulation.
			code, _ := test.Suites[0].Cases[0].Code()
			Expect(code).To(Equal("assert a\nassert b"))
		})

		It("rejects name and points redefinition in strict mode", func() {
			bp := parser.NewBlockParser(parser.WithStrictHeader())
			_, err := bp.Parse("#t name=q1\nassert a\n#t points=2\nassert b\n")
			Expect(err).To(HaveOccurred())
			var de *domain.Error
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.IsHeader()).To(BeTrue())
			Expect(de.Line).To(Equal(3))
		})

		It("still merges other keys in strict mode", func() {
			bp := parser.NewBlockParser(parser.WithStrictHeader())
			test, err := bp.Parse("#t name=q1\nassert a\n#t author=mb\nassert b\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(test.Extra).To(HaveKeyWithValue("author", "mb"))
		})
	})

	Describe("malformed marker lines", func() {
		It("aborts the whole block and reports the line", func() {
			_, err := parser.ParseTest("#t name=q1\n#s bad=\nassert a\n")
			Expect(err).To(HaveOccurred())
			var de *domain.Error
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.IsHeader()).To(BeTrue())
			Expect(de.Line).To(Equal(2))
		})

		It("fails on a malformed first #t line rather than skipping it", func() {
			_, err := parser.ParseTest("#t this is not a header\nassert a\n")
			Expect(err).To(HaveOccurred())
		})

		It("rejects reserved parameter names", func() {
			_, err := parser.ParseTest("#t name=q1 suites=3\n")
			Expect(err).To(HaveOccurred())
		})
	})
})
