package repl

import (
	"strings"
)

// MultiLineBuffer accumulates program lines until they are run
type MultiLineBuffer struct {
	lines []string
}

// NewMultiLineBuffer creates an empty buffer
func NewMultiLineBuffer() *MultiLineBuffer {
	return &MultiLineBuffer{}
}

// AddLine appends a line to the program being edited
func (b *MultiLineBuffer) AddLine(line string) {
	b.lines = append(b.lines, line)
}

// GetContent returns the buffered program text
func (b *MultiLineBuffer) GetContent() string {
	return strings.Join(b.lines, "\n")
}

// Clear discards the buffered program
func (b *MultiLineBuffer) Clear() {
	b.lines = nil
}

// IsActive reports whether a program is being edited
func (b *MultiLineBuffer) IsActive() bool {
	return len(b.lines) > 0
}

// GetLineCount returns the number of buffered lines
func (b *MultiLineBuffer) GetLineCount() int {
	return len(b.lines)
}

// GetLines returns a copy of the buffered lines
func (b *MultiLineBuffer) GetLines() []string {
	return append([]string(nil), b.lines...)
}

// RemoveLastLine drops and returns the last line, "" when empty
func (b *MultiLineBuffer) RemoveLastLine() string {
	if len(b.lines) == 0 {
		return ""
	}
	last := b.lines[len(b.lines)-1]
	b.lines = b.lines[:len(b.lines)-1]
	return last
}
