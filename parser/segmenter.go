package parser

import "strings"

// LineKind classifies a physical source line
type LineKind int

const (
	LineStatement LineKind = iota
	LineBlank
	LineComment
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	default:
		return "statement"
	}
}

// Line is one physical source line
type Line struct {
	Number int
	Raw    string
	Text   string
	Kind   LineKind
}

// Skipped reports whether the line is ignored by both checking and execution
func (l Line) Skipped() bool {
	return l.Kind != LineStatement
}

// Terminator returns the final '.', ',' or ':' of the trimmed line, or 0
func (l Line) Terminator() byte {
	if l.Text == "" {
		return 0
	}
	switch c := l.Text[len(l.Text)-1]; c {
	case '.', ',', ':':
		return c
	}
	return 0
}

// Segment splits source on line breaks and classifies every line. Line
// numbers are 1-based.
func Segment(src string) []Line {
	raw := strings.Split(src, "\n")
	lines := make([]Line, len(raw))
	for i, r := range raw {
		r = strings.TrimSuffix(r, "\r")
		text := strings.TrimSpace(r)
		kind := LineStatement
		switch {
		case text == "":
			kind = LineBlank
		case strings.HasPrefix(text, "*"), strings.HasPrefix(text, `"`):
			kind = LineComment
		}
		lines[i] = Line{Number: i + 1, Raw: r, Text: text, Kind: kind}
	}
	return lines
}
