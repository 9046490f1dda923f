package engine

import (
	"fmt"

	"abapsim/ast"
	"abapsim/errors"
)

// executeIf pushes a frame for IF cond
func (c *ExecutionContext) executeIf(stmt ast.Statement) error {
	s := stmt.(*ast.IfStatement)
	if !s.Cond.Valid() {
		c.warn(s.Line(), errors.WarnMalformed, "malformed IF condition: "+s.Source())
	}
	ok := c.condition(s.Cond)
	c.push(&controlFrame{kind: frameIf, executed: ok, skip: !ok, line: s.Line()})
	return nil
}

// executeElseIf selects the branch only if no earlier branch of the frame ran
func (c *ExecutionContext) executeElseIf(stmt ast.Statement) error {
	s := stmt.(*ast.ElseIfStatement)
	top := c.top()
	if top == nil || top.kind != frameIf {
		c.warn(s.Line(), errors.WarnUnmatchedBlock, "ELSEIF without IF")
		return nil
	}
	if top.executed {
		top.skip = true
		return nil
	}
	if !s.Cond.Valid() {
		c.warn(s.Line(), errors.WarnMalformed, "malformed ELSEIF condition: "+s.Source())
	}
	ok := c.condition(s.Cond)
	top.executed = ok
	top.skip = !ok
	return nil
}

func (c *ExecutionContext) executeElse(stmt ast.Statement) error {
	top := c.top()
	if top == nil || top.kind != frameIf {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock, "ELSE without IF")
		return nil
	}
	top.skip = top.executed
	top.executed = true
	return nil
}

func (c *ExecutionContext) executeEndIf(stmt ast.Statement) error {
	return c.closeFrame(stmt, frameIf)
}

// executeCase pushes a frame for CASE subject. The subject is resolved at
// every WHEN, so it sees assignments made inside earlier branches.
func (c *ExecutionContext) executeCase(stmt ast.Statement) error {
	s := stmt.(*ast.CaseStatement)
	if s.Subject.IsZero() {
		c.warn(s.Line(), errors.WarnMalformed, "CASE without subject")
	}
	c.push(&controlFrame{kind: frameCase, subject: s.Subject, skip: true, line: s.Line()})
	return nil
}

func (c *ExecutionContext) executeWhen(stmt ast.Statement) error {
	s := stmt.(*ast.WhenStatement)
	top := c.top()
	if top == nil || top.kind != frameCase {
		c.warn(s.Line(), errors.WarnUnmatchedBlock, "WHEN without CASE")
		return nil
	}
	if top.executed {
		top.skip = true
		return nil
	}
	subject := c.resolve(top.subject, nil)
	for _, v := range s.Values {
		if EvaluateCondition(subject, "=", c.resolve(v, nil)) {
			top.executed = true
			top.skip = false
			return nil
		}
	}
	top.skip = true
	return nil
}

func (c *ExecutionContext) executeWhenOthers(stmt ast.Statement) error {
	top := c.top()
	if top == nil || top.kind != frameCase {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock, "WHEN OTHERS without CASE")
		return nil
	}
	top.skip = top.executed
	top.executed = true
	return nil
}

func (c *ExecutionContext) executeEndCase(stmt ast.Statement) error {
	return c.closeFrame(stmt, frameCase)
}

// closeFrame pops the innermost frame if it has the expected kind
func (c *ExecutionContext) closeFrame(stmt ast.Statement, kind frameKind) error {
	top := c.top()
	if top == nil {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock, fmt.Sprintf("END%s without %s", kind, kind))
		return nil
	}
	if top.kind != kind {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock,
			fmt.Sprintf("END%s closes %s opened at line %d", kind, top.kind, top.line))
		return nil
	}
	c.pop()
	return nil
}

// executeWhile records the loop condition; the body always runs at least
// once and ENDWHILE decides whether to repeat it.
func (c *ExecutionContext) executeWhile(stmt ast.Statement) error {
	s := stmt.(*ast.WhileStatement)
	if c.whileLoop != nil && c.whileLoop.resume != c.ip {
		c.warn(s.Line(), errors.WarnNestedLoop,
			fmt.Sprintf("WHILE replaces the loop opened at line %d", c.whileLoop.line))
	}
	if !s.Cond.Valid() {
		c.warn(s.Line(), errors.WarnMalformed, "malformed WHILE condition: "+s.Source())
	}
	c.whileLoop = &whileFrame{cond: s.Cond, resume: c.ip, line: s.Line()}
	return nil
}

func (c *ExecutionContext) executeEndWhile(stmt ast.Statement) error {
	loop := c.whileLoop
	if loop == nil {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock, "ENDWHILE without WHILE")
		return nil
	}
	if c.condition(loop.cond) {
		c.ip = loop.resume
		return nil
	}
	c.whileLoop = nil
	return nil
}

// executeDo starts a counted loop with a 1-based counter
func (c *ExecutionContext) executeDo(stmt ast.Statement) error {
	s := stmt.(*ast.DoStatement)
	if c.doLoop != nil && c.doLoop.resume != c.ip {
		c.warn(s.Line(), errors.WarnNestedLoop,
			fmt.Sprintf("DO replaces the loop opened at line %d", c.doLoop.line))
	}
	target, ok := c.resolve(s.Count, nil).Int()
	if s.Count.IsZero() || !ok {
		c.warn(s.Line(), errors.WarnMalformed, "DO without a numeric count, body runs once: "+s.Source())
		target = 1
	}
	c.doLoop = &doFrame{target: target, index: 1, resume: c.ip, line: s.Line()}
	return nil
}

func (c *ExecutionContext) executeEndDo(stmt ast.Statement) error {
	loop := c.doLoop
	if loop == nil {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock, "ENDDO without DO")
		return nil
	}
	if loop.index < loop.target {
		loop.index++
		c.ip = loop.resume
		return nil
	}
	c.doLoop = nil
	return nil
}

// executeLoopAt activates row-scoped WRITE rendering for a table
func (c *ExecutionContext) executeLoopAt(stmt ast.Statement) error {
	s := stmt.(*ast.LoopAtStatement)
	if c.loopAt != nil {
		c.warn(s.Line(), errors.WarnNestedLoop,
			fmt.Sprintf("LOOP AT %s replaces the loop over %s", s.Table, c.loopAt.table))
	}
	if _, ok := c.env.Table(s.Table); !ok {
		c.warn(s.Line(), errors.WarnUnknownTable, "LOOP AT unknown table "+s.Table)
	}
	c.loopAt = &loopAtFrame{table: s.Table, row: s.Row, line: s.Line()}
	return nil
}

func (c *ExecutionContext) executeEndLoop(stmt ast.Statement) error {
	if c.loopAt == nil {
		c.warn(stmt.Line(), errors.WarnUnmatchedBlock, "ENDLOOP without LOOP AT")
		return nil
	}
	c.loopAt = nil
	return nil
}
