package parser

import "fmt"

// ErrorKind classifies a parse failure.
type ErrorKind string

const (
	// ErrLexical marks a non-blank line matching none of the three
	// syntactic forms.
	ErrLexical ErrorKind = "lexical"
	// ErrIndentation marks a line whose indentation implies nesting
	// under a non-domain parent, or an indent off the document's step.
	ErrIndentation ErrorKind = "indentation"
	// ErrMalformedLink marks a link line with an empty or non-atom side.
	ErrMalformedLink ErrorKind = "malformed link"
	// ErrUnterminatedBracket marks a bracketed atom opened but never
	// closed before the end of the line.
	ErrUnterminatedBracket ErrorKind = "unterminated bracket"
)

// ParseError is the single error type produced by parsing. Parsing stops at
// the first error; no document is returned alongside one.
type ParseError struct {
	Kind    ErrorKind
	Line    int    // 1-based line number
	Column  int    // 1-based column of the offending construct, 0 if whole-line
	Text    string // offending line, leading indent stripped
	Message string
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d:%d: %s: %s: %q", e.Line, e.Column, e.Kind, e.Message, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %s: %q", e.Line, e.Kind, e.Message, e.Text)
}

func newError(kind ErrorKind, line, column int, text, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Line:    line,
		Column:  column,
		Text:    text,
		Message: fmt.Sprintf(format, args...),
	}
}
