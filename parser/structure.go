package parser

import (
	"fmt"
	"strings"

	"abapsim/ast"
)

// structureBoundary recognizes `DATA BEGIN OF name` and `DATA END OF name`
func structureBoundary(text string) (begin bool, name string, ok bool) {
	toks := Lex(text)
	if len(toks) != 4 || !toks[0].Is("DATA") || !toks[2].Is("OF") || !isName(toks[3]) {
		return false, "", false
	}
	switch {
	case toks[1].Is("BEGIN"):
		return true, toks[3].Text, true
	case toks[1].Is("END"):
		return false, toks[3].Text, true
	}
	return false, "", false
}

// structureBlock collects the DATA items between BEGIN OF and END OF into
// one structure declaration. Chained and unchained blocks look the same
// here because expandChain has already split them into items.
type structureBlock struct {
	line    int
	name    string
	items   []string
	fields  []ast.Declaration
	depth   int
	problem string
}

func newStructureBlock(item logicalStatement, name string) *structureBlock {
	return &structureBlock{line: item.Line, name: name, items: []string{dataItem(item.Text)}}
}

func dataItem(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, "DATA"))
}

// feed adds one DATA item and returns the finished statement once the
// block's END OF arrives.
func (b *structureBlock) feed(item logicalStatement) ast.Statement {
	b.items = append(b.items, dataItem(item.Text))
	if begin, name, ok := structureBoundary(item.Text); ok {
		switch {
		case begin:
			b.depth++
			b.fail("nested structure %s in %s is not supported", name, b.name)
			return nil
		case b.depth > 0:
			b.depth--
			return nil
		case name != b.name:
			b.fail("END OF %s does not close BEGIN OF %s", name, b.name)
		}
		return b.statement()
	}
	if b.depth > 0 {
		return nil
	}

	stmt := parseData(ast.BaseNode{Pos: item.Line, Text: item.Text}, Lex(item.Text))
	switch s := stmt.(type) {
	case *ast.DataStatement:
		if s.Decl.Table {
			b.fail("table %s inside structure %s is not supported", s.Decl.Name, b.name)
			return nil
		}
		b.fields = append(b.fields, s.Decl)
	case *ast.UnknownStatement:
		b.fail("%s", s.Reason)
	}
	return nil
}

// unclosed ends a block that ran into a non-DATA statement or the end of
// the source
func (b *structureBlock) unclosed() ast.Statement {
	b.fail("BEGIN OF %s without END OF", b.name)
	return b.statement()
}

func (b *structureBlock) fail(format string, args ...interface{}) {
	if b.problem == "" {
		b.problem = fmt.Sprintf(format, args...)
	}
}

func (b *structureBlock) base() ast.BaseNode {
	return ast.BaseNode{Pos: b.line, Text: "DATA " + strings.Join(b.items, ", ")}
}

func (b *structureBlock) statement() ast.Statement {
	if b.problem != "" {
		return malformed(b.base(), "DATA", "%s", b.problem)
	}
	decl := ast.Declaration{Name: b.name, Structure: true, Fields: b.fields}
	return &ast.DataStatement{BaseNode: b.base(), Decl: decl}
}
