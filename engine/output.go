package engine

import (
	"strings"

	"abapsim/ast"
)

// executeWrite renders the WRITE list once, or once per row of the active
// LOOP AT table. Output is suppressed while a branch is being skipped.
func (c *ExecutionContext) executeWrite(stmt ast.Statement) error {
	s := stmt.(*ast.WriteStatement)
	if c.skipping() {
		return nil
	}

	if c.loopAt == nil {
		return c.emitLine(s, nil)
	}
	table, ok := c.env.Table(c.loopAt.table)
	if !ok {
		return nil
	}
	for _, row := range table.Rows() {
		if err := c.emitLine(s, &rowScope{name: c.loopAt.row, row: row}); err != nil {
			return err
		}
	}
	return nil
}

func (c *ExecutionContext) emitLine(s *ast.WriteStatement, scope *rowScope) error {
	return c.emit(s.Line(), c.render(s, scope))
}

// render resolves every operand and joins them with single spaces into one
// output line.
func (c *ExecutionContext) render(s *ast.WriteStatement, scope *rowScope) string {
	var words []string
	for _, part := range s.Parts {
		for _, op := range part.Operands {
			words = append(words, c.resolve(op, scope).String())
		}
	}
	return strings.Join(words, " ")
}
