package parser

import (
	"bufio"
	"strings"
)

// Kind classifies a source line before structural parsing begins.
type Kind int

const (
	Blank Kind = iota
	AtomLine
	LinkLine
	DomainLine
)

// Line is a single classified source line. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Line struct {
	Number int
	Indent int // count of leading spaces
	Kind   Kind

	Atom        string // AtomLine: the atom value, brackets stripped
	Key, Target string // LinkLine
	Label       string // DomainLine
}

// Scanner turns source text into a sequence of classified lines. It is
// single-pass and not restartable; the parser consumes it exactly once.
type Scanner struct {
	sc   *bufio.Scanner
	n    int
	cur  Line
	perr *ParseError
}

// NewScanner wraps already-decoded source text.
func NewScanner(src string) *Scanner {
	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{sc: sc}
}

// Scan advances to the next line, returning false at end of input or on the
// first lexical error. Check Err after Scan returns false.
func (s *Scanner) Scan() bool {
	if s.perr != nil {
		return false
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			s.perr = newError(ErrLexical, s.n+1, 0, "", "reading source: %v", err)
		}
		return false
	}
	s.n++
	line, perr := classifyLine(s.sc.Text(), s.n)
	if perr != nil {
		s.perr = perr
		return false
	}
	s.cur = line
	return true
}

// Line returns the record produced by the last successful Scan.
func (s *Scanner) Line() Line { return s.cur }

// Err returns the error that stopped scanning, if any.
func (s *Scanner) Err() error {
	if s.perr != nil {
		return s.perr
	}
	return nil
}

// classifyLine measures indentation and classifies one raw line.
// Precedence per the grammar: domain, then link, then atom.
func classifyLine(raw string, number int) (Line, *ParseError) {
	raw = strings.TrimSuffix(raw, "\r")

	indent := 0
	for indent < len(raw) && (raw[indent] == ' ' || raw[indent] == '\t') {
		if raw[indent] == '\t' {
			return Line{}, newError(ErrIndentation, number, indent+1, strings.TrimSpace(raw),
				"tab in indentation, use spaces")
		}
		indent++
	}

	content := strings.TrimRight(raw[indent:], " \t")
	if content == "" {
		return Line{Number: number, Kind: Blank}, nil
	}

	line := Line{Number: number, Indent: indent}

	// Domain header: "+" followed by whitespace and a label atom.
	if strings.HasPrefix(content, "+ ") || strings.HasPrefix(content, "+\t") {
		rest := strings.TrimLeft(content[1:], " \t")
		label, leftover, unterminated := scanAtom(rest)
		if unterminated {
			return Line{}, newError(ErrUnterminatedBracket, number, indent+1, content,
				"bracket opened in domain label is never closed")
		}
		if strings.TrimSpace(leftover) != "" {
			return Line{}, newError(ErrLexical, number, indent+1, content,
				"unexpected text after domain label")
		}
		line.Kind = DomainLine
		line.Label = label
		return line, nil
	}

	// Link: a "=" outside any bracketed form.
	if eq := topLevelEquals(content); eq >= 0 {
		key := strings.TrimSpace(content[:eq])
		target := strings.TrimSpace(content[eq+1:])
		if key == "" {
			return Line{}, newError(ErrMalformedLink, number, indent+eq+1, content, "empty link key")
		}
		if target == "" {
			return Line{}, newError(ErrMalformedLink, number, indent+eq+1, content, "empty link target")
		}
		if perr := scanLinkSide(&line.Key, key, "key", number, indent, content); perr != nil {
			return Line{}, perr
		}
		if perr := scanLinkSide(&line.Target, target, "target", number, indent, content); perr != nil {
			return Line{}, perr
		}
		line.Kind = LinkLine
		return line, nil
	}

	// Atom: a bracketed form or a single bare token.
	value, leftover, unterminated := scanAtom(content)
	if unterminated {
		return Line{}, newError(ErrUnterminatedBracket, number, indent+1, content,
			"bracket is never closed")
	}
	if strings.TrimSpace(leftover) != "" {
		return Line{}, newError(ErrLexical, number, indent+len(content)-len(leftover)+1, content,
			"unexpected text after atom")
	}
	line.Kind = AtomLine
	line.Atom = value
	return line, nil
}

// scanLinkSide parses one side of a link as a single atom.
func scanLinkSide(dst *string, side, name string, number, indent int, content string) *ParseError {
	value, leftover, unterminated := scanAtom(side)
	if unterminated {
		return newError(ErrUnterminatedBracket, number, indent+1, content,
			"bracket opened in link %s is never closed", name)
	}
	if strings.TrimSpace(leftover) != "" {
		return newError(ErrMalformedLink, number, indent+1, content,
			"link %s is not a single atom", name)
	}
	*dst = value
	return nil
}

// scanAtom reads one atom from the front of s. A bracketed form runs to the
// first closing bracket with its inner text trimmed; a bare token is a
// maximal run of characters that are not whitespace and not "=".
func scanAtom(s string) (value, rest string, unterminated bool) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return "", "", true
		}
		return strings.TrimSpace(s[1:end]), s[end+1:], false
	}
	end := strings.IndexAny(s, " \t=")
	if end < 0 {
		return s, "", false
	}
	return s[:end], s[end:], false
}

// topLevelEquals returns the index of the first "=" outside a bracketed
// form, or -1. Inside brackets every character except "]" is plain text.
// A "[" only opens a bracketed form at the start of an atom, so a bare
// token like "a[b" does not swallow the "=" that follows it.
func topLevelEquals(s string) int {
	inBracket := false
	for i := 0; i < len(s); i++ {
		switch {
		case inBracket:
			if s[i] == ']' {
				inBracket = false
			}
		case s[i] == '=':
			return i
		case s[i] == '[' && (i == 0 || s[i-1] == ' ' || s[i-1] == '\t'):
			inBracket = true
		}
	}
	return -1
}
