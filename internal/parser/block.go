package parser

import (
	"errors"
	"strings"

	"github.com/matthew-brett/oktools/internal/domain"
)

// Marker vocabulary. Markers are case-sensitive and must sit at the start of
// a line with no leading whitespace.
const (
	TestMarker    = "#t"
	SuiteMarker   = "#s"
	CaseMarker    = "#c"
	CommentMarker = "#t#"
)

// BlockParser turns the raw text of one document cell into a Test. It holds
// no state across calls and is safe for concurrent use on independent inputs.
type BlockParser struct {
	strictHeader bool
}

// Option configures a BlockParser.
type Option func(*BlockParser)

// WithStrictHeader makes redefinition of name or points on a later #t line a
// parse error. The default keeps the lenient last-write-wins merge.
func WithStrictHeader() Option {
	return func(bp *BlockParser) { bp.strictHeader = true }
}

// NewBlockParser creates a BlockParser.
func NewBlockParser(opts ...Option) *BlockParser {
	bp := &BlockParser{}
	for _, opt := range opts {
		opt(bp)
	}
	return bp
}

// ParseTest parses one cell's text with the default options.
func ParseTest(text string) (*domain.Test, error) {
	return NewBlockParser().Parse(text)
}

// parseState names where the parser stands in the structural grammar, so
// that the first-suite and first-case-of-a-suite transitions are explicit
// rather than inferred from nil pointers.
type parseState int

const (
	stateNoSuite parseState = iota // test opened, no suite yet
	stateNoCase                    // suite open, no case yet
	stateInCase                    // case open, accepting code lines
)

// Parse builds the Test/Suite/Case tree from one cell's text. It returns
// (nil, nil) when the first significant line is not a #t marker: such a cell
// is not a test block at all.
//
// Each loop pass consumes, in order: any #t continuation lines, at most one
// #s line, at most one #c line, then exactly one plain code line. A new
// suite starts on a #s line or in stateNoSuite; a new case starts on a #c
// line or in stateNoCase. New sections inherit the previous section's
// resolved parameters rather than resetting to the defaults; only the first
// suite of a test and the first case of each suite start from the default
// templates. A #s line directly followed by a #c line therefore yields one
// suite whose first case carries the #c parameters, with no empty default
// case in between.
func (bp *BlockParser) Parse(text string) (*domain.Test, error) {
	r := &blockRun{lines: splitCellLines(text)}

	params, ok, err := r.takeHeader(TestMarker)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	test := domain.NewTest()
	if err := r.apply(test.Apply, params); err != nil {
		return nil, err
	}

	state := stateNoSuite
	var suite *domain.Suite
	var kase *domain.Case
	for {
		if err := r.takeTestContinuations(bp.strictHeader, test); err != nil {
			return nil, err
		}

		params, ok, err := r.takeHeader(SuiteMarker)
		if err != nil {
			return nil, err
		}
		if ok || state == stateNoSuite {
			next := domain.DefaultSuite()
			if state != stateNoSuite {
				next = suite.CloneTemplate()
			}
			if ok {
				if err := r.apply(next.Apply, params); err != nil {
					return nil, err
				}
			}
			suite = next
			test.Suites = append(test.Suites, suite)
			state = stateNoCase
		}

		params, ok, err = r.takeHeader(CaseMarker)
		if err != nil {
			return nil, err
		}
		if ok || state == stateNoCase {
			next := domain.DefaultCase()
			if state == stateInCase {
				next = kase.CloneTemplate()
			}
			if ok {
				if err := r.apply(next.Apply, params); err != nil {
					return nil, err
				}
			}
			kase = next
			suite.Cases = append(suite.Cases, kase)
			state = stateInCase
		}

		if len(r.lines) == 0 {
			return test, nil
		}
		kase.AppendCode(r.pop().text)
	}
}

// cellLine is one line of the cell with its original 1-based line number,
// kept for error reporting after comment lines are dropped.
type cellLine struct {
	text string
	num  int
}

// splitCellLines trims outer blank lines, splits, and discards invisible
// comment lines before any other processing.
func splitCellLines(text string) []cellLine {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	leading := 0
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) != "" {
			break
		}
		leading++
	}
	var lines []cellLine
	for i, raw := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(raw, CommentMarker) {
			continue
		}
		lines = append(lines, cellLine{text: raw, num: leading + i + 1})
	}
	return lines
}

// blockRun is the mutable cursor for one Parse call.
type blockRun struct {
	lines   []cellLine
	lastNum int
}

func (r *blockRun) pop() cellLine {
	ln := r.lines[0]
	r.lines = r.lines[1:]
	r.lastNum = ln.num
	return ln
}

// takeHeader consumes the head line when it starts with marker and returns
// its parsed parameters. Header errors are annotated with the line number.
func (r *blockRun) takeHeader(marker string) (domain.Params, bool, error) {
	if len(r.lines) == 0 || !strings.HasPrefix(r.lines[0].text, marker) {
		return nil, false, nil
	}
	ln := r.pop()
	params, err := ParseHeader(ln.text, marker)
	if err != nil {
		return nil, false, r.located(err)
	}
	return params, true, nil
}

// takeTestContinuations consumes any run of #t lines after the first,
// merging their parameters onto the test. In strict mode a continuation
// carrying name or points fails instead of silently overriding.
func (r *blockRun) takeTestContinuations(strict bool, test *domain.Test) error {
	for {
		params, ok, err := r.takeHeader(TestMarker)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if strict {
			for _, key := range []string{"name", "points"} {
				if _, present := params[key]; present {
					return r.located(domain.NewHeaderError(-1,
						"%s may only be set on the first %s line", key, TestMarker))
				}
			}
		}
		if err := r.apply(test.Apply, params); err != nil {
			return err
		}
	}
}

// apply runs a section's parameter merge, annotating failures with the
// header line they came from.
func (r *blockRun) apply(merge func(domain.Params) error, params domain.Params) error {
	if err := merge(params); err != nil {
		return r.located(err)
	}
	return nil
}

// located stamps the most recently consumed line's number onto the error.
func (r *blockRun) located(err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Line == 0 {
		de.Line = r.lastNum
	}
	return err
}
