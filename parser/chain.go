package parser

import "strings"

// logicalStatement is statement text assembled from one or more physical
// lines, with the final terminator removed.
type logicalStatement struct {
	Line int
	Text string
}

// joinLines folds physical lines into logical statements. A line ending in
// ',' or ':' continues into the next non-skipped line; the joined statement
// keeps the number of its first line.
func joinLines(lines []Line) []logicalStatement {
	var out []logicalStatement
	var buf strings.Builder
	first := 0

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		text = strings.TrimRight(text, ".,:")
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, logicalStatement{Line: first, Text: text})
		}
	}

	for _, line := range lines {
		if line.Skipped() {
			continue
		}
		if buf.Len() == 0 {
			first = line.Number
		} else {
			buf.WriteByte(' ')
		}
		buf.WriteString(line.Text)

		switch line.Terminator() {
		case ',', ':':
			continue
		}
		flush()
	}
	if buf.Len() > 0 {
		flush()
	}
	return out
}

// expandChain applies colon chaining: `prefix: a, b` becomes `prefix a` and
// `prefix b`. WRITE keeps its comma list as a single statement. DATA splits
// a comma list even without a colon.
func expandChain(stmt logicalStatement) []logicalStatement {
	colon := indexTopLevel(stmt.Text, ':')
	if colon < 0 {
		if keywordOf(stmt.Text) != "DATA" {
			return []logicalStatement{stmt}
		}
		rest := strings.TrimSpace(strings.TrimPrefix(stmt.Text, "DATA"))
		return chainItems(stmt.Line, "DATA", rest)
	}

	prefix := strings.TrimSpace(stmt.Text[:colon])
	rest := strings.TrimSpace(stmt.Text[colon+1:])
	if keywordOf(prefix) == "WRITE" {
		return []logicalStatement{{Line: stmt.Line, Text: strings.TrimSpace(prefix + " " + rest)}}
	}
	return chainItems(stmt.Line, prefix, rest)
}

func chainItems(line int, prefix, rest string) []logicalStatement {
	var out []logicalStatement
	for _, item := range splitTopLevel(rest, ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, logicalStatement{Line: line, Text: prefix + " " + item})
	}
	if len(out) == 0 {
		out = append(out, logicalStatement{Line: line, Text: prefix})
	}
	return out
}

// keywordOf returns the first whitespace-delimited word with any trailing
// ':' or '.' removed.
func keywordOf(text string) string {
	word := text
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		word = text[:i]
	}
	return strings.TrimRight(word, ":.")
}
