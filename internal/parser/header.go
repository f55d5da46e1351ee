package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matthew-brett/oktools/internal/domain"
)

// ParseHeader parses the key=value payload of a marker line into typed
// parameters. The line must begin with exactly marker; the rest of the line
// is a whitespace-separated sequence of NAME=value tokens where value is a
// quoted string, a number, a boolean or a bare word. A payload that is empty
// or whitespace-only yields an empty parameter set.
//
// Any stretch of the payload not consumed by that grammar fails with a
// header error carrying the byte offset of the unparsed text.
func ParseHeader(line, marker string) (domain.Params, error) {
	if !strings.HasPrefix(line, marker) {
		return nil, domain.NewHeaderError(0, "expecting %q at start of line %q", marker, line)
	}
	s := &headerScanner{line: line, pos: len(marker)}
	params := domain.Params{}
	for {
		s.skipSpaces()
		if s.atEnd() {
			return params, nil
		}
		name, err := s.scanName()
		if err != nil {
			return nil, err
		}
		s.skipSpaces()
		if !s.consume('=') {
			return nil, domain.NewHeaderError(s.pos, "expected '=' after parameter name %q", name)
		}
		s.skipSpaces()
		value, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		params[name] = value
	}
}

// headerScanner walks a marker line byte by byte so that errors can report
// exactly where parsing stopped.
type headerScanner struct {
	line string
	pos  int
}

func (s *headerScanner) atEnd() bool {
	return s.pos >= len(s.line)
}

func (s *headerScanner) skipSpaces() {
	for !s.atEnd() {
		r, size := utf8.DecodeRuneInString(s.line[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *headerScanner) consume(b byte) bool {
	if s.atEnd() || s.line[s.pos] != b {
		return false
	}
	s.pos++
	return true
}

// scanName reads one or more word characters.
func (s *headerScanner) scanName() (string, error) {
	word := s.scanWord()
	if word == "" {
		return "", domain.NewHeaderError(s.pos, "expected parameter name")
	}
	return word, nil
}

// scanValue reads one value, trying the alternatives in fixed order: quoted
// string, number, boolean, bare word.
func (s *headerScanner) scanValue() (any, error) {
	if s.atEnd() {
		return nil, domain.NewHeaderError(s.pos, "expected a parameter value")
	}
	if q := s.line[s.pos]; q == '"' || q == '\'' {
		return s.scanQuoted(q)
	}
	if v, ok := s.scanNumber(); ok {
		return v, nil
	}
	if v, ok := s.scanBool(); ok {
		return v, nil
	}
	if word := s.scanWord(); word != "" {
		return word, nil
	}
	return nil, domain.NewHeaderError(s.pos, "expected a parameter value")
}

// scanQuoted reads up to the next identical delimiter. There is no escape
// processing: an embedded delimiter ends the value early.
func (s *headerScanner) scanQuoted(quote byte) (string, error) {
	start := s.pos
	s.pos++
	end := strings.IndexByte(s.line[s.pos:], quote)
	if end < 0 {
		return "", domain.NewHeaderError(start, "unterminated %c-quoted string", quote)
	}
	value := s.line[s.pos : s.pos+end]
	s.pos += end + 1
	return value, nil
}

// scanNumber reads an optional sign, digits and an optional fractional part.
// A value containing a decimal point becomes a float64, otherwise an int.
func (s *headerScanner) scanNumber() (any, bool) {
	start := s.pos
	p := s.pos
	if p < len(s.line) && (s.line[p] == '+' || s.line[p] == '-') {
		p++
	}
	intDigits := 0
	for p < len(s.line) && isDigit(s.line[p]) {
		p++
		intDigits++
	}
	sawDot := false
	if intDigits > 0 {
		if p < len(s.line) && s.line[p] == '.' {
			sawDot = true
			p++
			for p < len(s.line) && isDigit(s.line[p]) {
				p++
			}
		}
	} else {
		// No integer part: require .digits
		if p >= len(s.line) || s.line[p] != '.' {
			return nil, false
		}
		sawDot = true
		p++
		fracDigits := 0
		for p < len(s.line) && isDigit(s.line[p]) {
			p++
			fracDigits++
		}
		if fracDigits == 0 {
			return nil, false
		}
	}
	text := s.line[start:p]
	s.pos = p
	if sawDot {
		f, _ := strconv.ParseFloat(text, 64)
		return f, true
	}
	i, err := strconv.Atoi(text)
	if err != nil {
		// Out of int range; keep the value rather than failing.
		f, _ := strconv.ParseFloat(text, 64)
		return f, true
	}
	return i, true
}

// scanBool matches a true/false literal of any case. Checked before the
// bare-word rule so true/false never fall through to a string.
func (s *headerScanner) scanBool() (bool, bool) {
	rest := s.line[s.pos:]
	for _, lit := range []string{"true", "false"} {
		if len(rest) >= len(lit) && strings.EqualFold(rest[:len(lit)], lit) {
			s.pos += len(lit)
			return lit == "true", true
		}
	}
	return false, false
}

// scanWord reads a maximal run of word characters (letters, digits,
// underscore), or "" when the current position starts with none.
func (s *headerScanner) scanWord() string {
	start := s.pos
	for !s.atEnd() {
		r, size := utf8.DecodeRuneInString(s.line[s.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		s.pos += size
	}
	return s.line[start:s.pos]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
