package parser

import (
	"fmt"
	"strings"
)

// TokenType is the lexical class of a statement token
type TokenType int

const (
	TokenWord     TokenType = iota // name, number or bare literal
	TokenQuoted                    // 'text' or `text`
	TokenOperator                  // = <> < <= > >= and other runs of <, >, =
	TokenComma                     // ,
)

func (t TokenType) String() string {
	switch t {
	case TokenQuoted:
		return "QUOTED"
	case TokenOperator:
		return "OPERATOR"
	case TokenComma:
		return "COMMA"
	default:
		return "WORD"
	}
}

// Token is one lexeme of a statement. Pos is the byte offset into the
// statement text.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Text)
}

// Is reports whether the token is the word w
func (t Token) Is(w string) bool {
	return t.Type == TokenWord && t.Text == w
}

func isOperatorChar(c byte) bool {
	return c == '<' || c == '>' || c == '='
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Lex splits statement text into tokens. Whitespace separates words; quotes
// may contain whitespace and commas, and a doubled quote inside a literal
// stands for one quote character. An unterminated literal runs to the end
// of the text.
func Lex(text string) []Token {
	var tokens []Token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case isSpace(c):
			i++
		case c == ',':
			tokens = append(tokens, Token{Type: TokenComma, Text: ",", Pos: i})
			i++
		case c == '\'' || c == '`':
			start := i
			literal, next := scanQuoted(text, i)
			tokens = append(tokens, Token{Type: TokenQuoted, Text: literal, Pos: start})
			i = next
		case isOperatorChar(c):
			start := i
			for i < len(text) && isOperatorChar(text[i]) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenOperator, Text: text[start:i], Pos: start})
		default:
			start := i
			for i < len(text) {
				ch := text[i]
				if isSpace(ch) || ch == ',' || ch == '\'' || ch == '`' || isOperatorChar(ch) {
					break
				}
				i++
			}
			tokens = append(tokens, Token{Type: TokenWord, Text: text[start:i], Pos: start})
		}
	}
	return tokens
}

// scanQuoted reads a literal starting at the opening quote at text[i] and
// returns its content and the index after the closing quote.
func scanQuoted(text string, i int) (string, int) {
	quote := text[i]
	var b strings.Builder
	i++
	for i < len(text) {
		if text[i] == quote {
			if i+1 < len(text) && text[i+1] == quote {
				b.WriteByte(quote)
				i += 2
				continue
			}
			return b.String(), i + 1
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String(), i
}

// splitTopLevel splits text on sep outside quoted literals
func splitTopLevel(text string, sep byte) []string {
	var parts []string
	start := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '`':
			quote = c
		case c == sep:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// indexTopLevel returns the index of the first sep outside quoted literals, or -1
func indexTopLevel(text string, sep byte) int {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '`':
			quote = c
		case c == sep:
			return i
		}
	}
	return -1
}
