package domain

import "fmt"

// Error phases, named after the pipeline stage that failed.
const (
	PhaseHeader = "header"
	PhaseConfig = "config"
	PhaseScan   = "scan"
	PhaseRead   = "read"
	PhaseExport = "export"
)

// Error is the toolkit error type carrying source context.
type Error struct {
	Phase   string
	File    string
	Line    int // 1-based line within the document cell, 0 when unknown
	Offset  int // byte offset within a marker line, -1 when unknown
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.Line > 0 {
		s += fmt.Sprintf(":%d", e.Line)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Offset >= 0 {
		s += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsHeader reports whether the error came from marker/parameter parsing.
func (e *Error) IsHeader() bool {
	return e.Phase == PhaseHeader
}

// NewError creates a new Error for the given pipeline phase.
func NewError(phase, file string, line int, message string, cause error) *Error {
	return &Error{
		Phase:   phase,
		File:    file,
		Line:    line,
		Offset:  -1,
		Message: message,
		Cause:   cause,
	}
}

// NewHeaderError creates a marker/parameter parse error. offset is the byte
// position of the unparsed text within the marker line, or -1 when the
// failure has no single position.
func NewHeaderError(offset int, format string, args ...any) *Error {
	return &Error{
		Phase:   PhaseHeader,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
}
