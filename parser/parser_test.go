package parser

import (
	"testing"

	"abapsim/ast"
	"abapsim/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	lines := Segment("DATA: x TYPE i.\r\n\n  * comment\n\" note\n  WRITE x.  ")
	require.Len(t, lines, 5)

	assert.Equal(t, LineStatement, lines[0].Kind)
	assert.Equal(t, "DATA: x TYPE i.", lines[0].Text)
	assert.Equal(t, LineBlank, lines[1].Kind)
	assert.Equal(t, LineComment, lines[2].Kind)
	assert.Equal(t, LineComment, lines[3].Kind)
	assert.Equal(t, "WRITE x.", lines[4].Text)
	assert.Equal(t, 5, lines[4].Number)
	assert.Equal(t, byte('.'), lines[4].Terminator())
}

func TestCheck(t *testing.T) {
	t.Run("clean source", func(t *testing.T) {
		assert.Empty(t, Check("DATA: x TYPE i.\nWRITE: x,\n  x.\n* no terminator needed\n\nDATA:"))
	})

	t.Run("one error per unterminated line", func(t *testing.T) {
		errs := Check("WRITE 'a'\nWRITE 'b'.\n\nADD 1 TO x\n\" comment")
		require.Len(t, errs, 2)
		assert.Equal(t, errors.SyntaxError{Line: 1, Message: "Missing period/comma/colon."}, errs[0])
		assert.Equal(t, 4, errs[1].Line)
		assert.Equal(t, "Line 1: Missing period/comma/colon.", errs[0].Error())
	})
}

func TestLex(t *testing.T) {
	toks := Lex("WRITE: 'Hello, it''s me', x-y,z")
	require.Len(t, toks, 6)
	assert.Equal(t, Token{Type: TokenWord, Text: "WRITE:", Pos: 0}, toks[0])
	assert.Equal(t, TokenQuoted, toks[1].Type)
	assert.Equal(t, "Hello, it's me", toks[1].Text)
	assert.Equal(t, TokenComma, toks[2].Type)
	assert.Equal(t, "x-y", toks[3].Text)
	assert.Equal(t, TokenComma, toks[4].Type)
	assert.Equal(t, "z", toks[5].Text)

	t.Run("operators split words", func(t *testing.T) {
		toks := Lex("IF x<>5")
		require.Len(t, toks, 4)
		assert.Equal(t, Token{Type: TokenOperator, Text: "<>", Pos: 4}, toks[2])
	})

	t.Run("unterminated literal runs to end", func(t *testing.T) {
		toks := Lex("WRITE 'abc")
		require.Len(t, toks, 2)
		assert.Equal(t, "abc", toks[1].Text)
	})
}

func parseOne(t *testing.T, src string) ast.Statement {
	t.Helper()
	program := NewParser().Parse(src)
	require.Equal(t, 1, program.Len(), "expected a single statement from %q", src)
	return program.At(0)
}

func TestParseData(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		s := parseOne(t, "DATA: itab TYPE TABLE OF ty_row.").(*ast.DataStatement)
		assert.Equal(t, ast.Declaration{Name: "itab", TypeName: "ty_row", Table: true}, s.Decl)
	})

	t.Run("standard table", func(t *testing.T) {
		s := parseOne(t, "DATA itab TYPE STANDARD TABLE OF ty_row.").(*ast.DataStatement)
		assert.True(t, s.Decl.Table)
	})

	t.Run("scalar with value", func(t *testing.T) {
		s := parseOne(t, "DATA: x TYPE i VALUE 5.").(*ast.DataStatement)
		require.NotNil(t, s.Decl.Value)
		assert.Equal(t, "5", s.Decl.Value.Raw)
		assert.False(t, s.Decl.Value.Quoted)
	})

	t.Run("quoted value with length", func(t *testing.T) {
		s := parseOne(t, "DATA: name TYPE c LENGTH 10 VALUE 'Bob Smith'.").(*ast.DataStatement)
		require.NotNil(t, s.Decl.Value)
		assert.Equal(t, "Bob Smith", s.Decl.Value.Raw)
		assert.True(t, s.Decl.Value.Quoted)
	})

	t.Run("chained declarations", func(t *testing.T) {
		program := NewParser().Parse("DATA: a TYPE i,\n      b TYPE i VALUE 2.")
		require.Equal(t, 2, program.Len())
		a := program.At(0).(*ast.DataStatement)
		b := program.At(1).(*ast.DataStatement)
		assert.Equal(t, "a", a.Decl.Name)
		assert.Equal(t, "b", b.Decl.Name)
		assert.Equal(t, 1, b.Line(), "chained items keep the first line number")
	})

	t.Run("missing name", func(t *testing.T) {
		s := parseOne(t, "DATA: .")
		assert.Equal(t, ast.NodeUnknown, s.Type())
	})
}

func TestParseStructure(t *testing.T) {
	t.Run("chained block", func(t *testing.T) {
		s := parseOne(t, "DATA: BEGIN OF wa,\n        name TYPE string,\n        age TYPE i VALUE 3,\n      END OF wa.").(*ast.DataStatement)
		assert.True(t, s.Decl.Structure)
		assert.Equal(t, "wa", s.Decl.Name)
		require.Len(t, s.Decl.Fields, 2)
		assert.Equal(t, "name", s.Decl.Fields[0].Name)
		assert.Equal(t, "age", s.Decl.Fields[1].Name)
		require.NotNil(t, s.Decl.Fields[1].Value)
		assert.Equal(t, "3", s.Decl.Fields[1].Value.Raw)
		assert.Equal(t, 1, s.Line())
		assert.Equal(t, []string{"name", "age"}, s.ToMap()["fields"])
	})

	t.Run("separate statements", func(t *testing.T) {
		program := NewParser().Parse("DATA BEGIN OF wa.\nDATA f TYPE c.\nDATA END OF wa.\nDATA x TYPE i.")
		require.Equal(t, 2, program.Len())
		wa := program.At(0).(*ast.DataStatement)
		assert.True(t, wa.Decl.Structure)
		assert.Equal(t, "x", program.At(1).(*ast.DataStatement).Decl.Name)
	})

	t.Run("items after END OF are ordinary declarations", func(t *testing.T) {
		program := NewParser().Parse("DATA: BEGIN OF wa, f TYPE i, END OF wa, n TYPE i.")
		require.Equal(t, 2, program.Len())
		assert.Equal(t, "n", program.At(1).(*ast.DataStatement).Decl.Name)
	})

	t.Run("unclosed block", func(t *testing.T) {
		program := NewParser().Parse("DATA: BEGIN OF wa, f TYPE i.\nWRITE 'x'.")
		require.Equal(t, 2, program.Len())
		s := program.At(0).(*ast.UnknownStatement)
		assert.Equal(t, "BEGIN OF wa without END OF", s.Reason)
		assert.Equal(t, ast.NodeWrite, program.At(1).Type())
	})

	t.Run("mismatched end", func(t *testing.T) {
		s := parseOne(t, "DATA: BEGIN OF wa, f TYPE i, END OF other.").(*ast.UnknownStatement)
		assert.Equal(t, "END OF other does not close BEGIN OF wa", s.Reason)
	})

	t.Run("nested block", func(t *testing.T) {
		s := parseOne(t, "DATA: BEGIN OF wa, BEGIN OF inner, f TYPE i, END OF inner, END OF wa.").(*ast.UnknownStatement)
		assert.Contains(t, s.Reason, "nested structure inner")
	})

	t.Run("end without begin", func(t *testing.T) {
		s := parseOne(t, "DATA END OF wa.").(*ast.UnknownStatement)
		assert.Equal(t, "END OF wa without BEGIN OF", s.Reason)
	})

	t.Run("boundary outside a block", func(t *testing.T) {
		s := NewParser().ParseStatement(1, "DATA BEGIN OF wa").(*ast.UnknownStatement)
		assert.Equal(t, "DATA", s.Keyword)
		assert.NotEmpty(t, s.Reason)
	})
}

func TestParseAssign(t *testing.T) {
	t.Run("field target", func(t *testing.T) {
		s := parseOne(t, "wa-name = 'Alice'.").(*ast.AssignStatement)
		assert.Equal(t, ast.Target{Name: "wa", Field: "name"}, s.Target)
		assert.Equal(t, "Alice", s.RawValue)
	})

	t.Run("arithmetic precedence", func(t *testing.T) {
		s := parseOne(t, "x = a + b * c.").(*ast.AssignStatement)
		assert.Equal(t, "(a + (b * c))", s.Value.String())
	})

	t.Run("left associative", func(t *testing.T) {
		s := parseOne(t, "x = 10 - 3 - 2.").(*ast.AssignStatement)
		assert.Equal(t, "((10 - 3) - 2)", s.Value.String())
	})

	t.Run("not an expression", func(t *testing.T) {
		s := parseOne(t, "x = hello world.").(*ast.AssignStatement)
		assert.Nil(t, s.Value)
		assert.Equal(t, "hello world", s.RawValue)
	})

	t.Run("move", func(t *testing.T) {
		s := parseOne(t, "MOVE y TO x.").(*ast.AssignStatement)
		assert.Equal(t, ast.Target{Name: "x"}, s.Target)
		assert.Equal(t, "y", s.Value.String())
	})
}

func TestParseWrite(t *testing.T) {
	t.Run("parts", func(t *testing.T) {
		s := parseOne(t, "WRITE: / row-name, 'is', row-age.").(*ast.WriteStatement)
		assert.True(t, s.NewLine)
		require.Len(t, s.Parts, 3)
		assert.Equal(t, ast.Operand{Raw: "row-name", Name: "row", Field: "name"}, s.Parts[0].Operands[0])
		assert.Equal(t, ast.Operand{Raw: "is", Quoted: true}, s.Parts[1].Operands[0])
	})

	t.Run("slash attached to operand", func(t *testing.T) {
		s := parseOne(t, "WRITE /x.").(*ast.WriteStatement)
		assert.True(t, s.NewLine)
		require.Len(t, s.Parts, 1)
		assert.Equal(t, "x", s.Parts[0].Operands[0].Raw)
	})

	t.Run("chained across lines", func(t *testing.T) {
		program := NewParser().Parse("WRITE:\n  'a',\n  'b'.")
		require.Equal(t, 1, program.Len())
		s := program.At(0).(*ast.WriteStatement)
		assert.Len(t, s.Parts, 2)
	})

	t.Run("later slash is an operand", func(t *testing.T) {
		s := parseOne(t, "WRITE: / 'a', / 'b'.").(*ast.WriteStatement)
		assert.True(t, s.NewLine)
		require.Len(t, s.Parts, 2)
		assert.Equal(t, []ast.Operand{{Raw: "a", Quoted: true}}, s.Parts[0].Operands)
		require.Len(t, s.Parts[1].Operands, 2)
		assert.Equal(t, "/", s.Parts[1].Operands[0].Raw)
		assert.Equal(t, "b", s.Parts[1].Operands[1].Raw)
	})

	t.Run("empty parts are dropped", func(t *testing.T) {
		s := parseOne(t, "WRITE: 'a', , 'b'.").(*ast.WriteStatement)
		assert.Len(t, s.Parts, 2)
	})
}

func TestParseAppend(t *testing.T) {
	var s ast.Statement = parseOne(t, "APPEND wa TO itab.")
	app := s.(*ast.AppendStatement)
	assert.Equal(t, "wa", app.From)
	assert.Equal(t, "itab", app.Table)
	assert.Equal(t, "APPEND wa TO itab", app.Source())
	assert.Equal(t, "wa", app.ToMap()["from"])
}

func TestParseControlFlow(t *testing.T) {
	program := NewParser().Parse(`IF x > 5.
ELSEIF x GE 2.
ELSE.
ENDIF.
CASE x.
WHEN 'A' OR 'B'.
WHEN OTHERS.
ENDCASE.
WHILE i < 3.
ENDWHILE.
DO 3 TIMES.
ENDDO.
LOOP AT itab INTO wa.
ENDLOOP.`)

	kinds := make([]ast.NodeType, program.Len())
	for i, s := range program.Statements {
		kinds[i] = s.Type()
	}
	assert.Equal(t, []ast.NodeType{
		ast.NodeIf, ast.NodeElseIf, ast.NodeElse, ast.NodeEndIf,
		ast.NodeCase, ast.NodeWhen, ast.NodeWhenOthers, ast.NodeEndCase,
		ast.NodeWhile, ast.NodeEndWhile, ast.NodeDo, ast.NodeEndDo,
		ast.NodeLoopAt, ast.NodeEndLoop,
	}, kinds)

	elseif := program.At(1).(*ast.ElseIfStatement)
	assert.Equal(t, ">=", elseif.Cond.Op, "word operators map to symbols")

	when := program.At(5).(*ast.WhenStatement)
	require.Len(t, when.Values, 2)
	assert.Equal(t, "B", when.Values[1].Raw)

	do := program.At(10).(*ast.DoStatement)
	assert.Equal(t, "3", do.Count.Raw)

	loop := program.At(12).(*ast.LoopAtStatement)
	assert.Equal(t, "itab", loop.Table)
	assert.Equal(t, "wa", loop.Row)
}

func TestParseMalformed(t *testing.T) {
	t.Run("condition without operator", func(t *testing.T) {
		s := parseOne(t, "IF x.").(*ast.IfStatement)
		assert.False(t, s.Cond.Valid())
	})

	t.Run("unknown keyword", func(t *testing.T) {
		s := parseOne(t, "SELECT * FROM mara.").(*ast.UnknownStatement)
		assert.Equal(t, "SELECT", s.Keyword)
		assert.Empty(t, s.Reason)
	})

	t.Run("keywords are case sensitive", func(t *testing.T) {
		s := parseOne(t, "write 'x'.")
		assert.Equal(t, ast.NodeUnknown, s.Type())
	})

	t.Run("append shape", func(t *testing.T) {
		s := parseOne(t, "APPEND wa.").(*ast.UnknownStatement)
		assert.NotEmpty(t, s.Reason)
	})
}

func TestCommentsAndBlanksAreNotStatements(t *testing.T) {
	program := NewParser().Parse("* header\n\nWRITE 'a'.\n\" trailer")
	require.Equal(t, 1, program.Len())
	assert.Equal(t, 3, program.At(0).Line())
}
