package engine

import (
	"abapsim/ast"
	"abapsim/errors"
	"abapsim/runtime"
)

// executeData declares a table, a structure or a scalar. A scalar starts at
// Integer 0 unless a VALUE literal is given; VALUE never reads a variable.
func (c *ExecutionContext) executeData(stmt ast.Statement) error {
	s := stmt.(*ast.DataStatement)
	decl := s.Decl
	switch {
	case decl.Table:
		c.env.DeclareTable(decl.Name, decl.TypeName)
	case decl.Structure:
		st := c.env.DeclareStructure(decl.Name)
		for _, f := range decl.Fields {
			st.Set(f.Name, initialValue(f))
		}
	default:
		c.env.DeclareScalar(decl.Name, initialValue(decl))
	}
	return nil
}

func initialValue(decl ast.Declaration) runtime.Value {
	if decl.Value == nil {
		return runtime.Integer(0)
	}
	return literal(*decl.Value)
}

func literal(op ast.Operand) runtime.Value {
	if op.Quoted {
		return runtime.Text(op.Raw)
	}
	return runtime.Coerce(op.Raw)
}

// executeAssign writes a scalar, a structure field, or copies a structure
func (c *ExecutionContext) executeAssign(stmt ast.Statement) error {
	s := stmt.(*ast.AssignStatement)
	if s.Target.Field != "" {
		c.env.SetField(s.Target.Name, s.Target.Field, c.evaluate(s))
		return nil
	}
	if src, ok := c.structureOperand(s.Value); ok {
		c.env.AssignStructure(s.Target.Name, src)
		return nil
	}
	c.env.SetScalar(s.Target.Name, c.evaluate(s))
	return nil
}

// structureOperand reports whether e is a bare name bound to a structure
func (c *ExecutionContext) structureOperand(e ast.Expr) (*runtime.Structure, bool) {
	oe, ok := e.(*ast.OperandExpr)
	if !ok || oe.Operand.Quoted || oe.Operand.IsField() || oe.Operand.Name == "" {
		return nil, false
	}
	if _, isScalar := c.env.Scalar(oe.Operand.Name); isScalar {
		return nil, false
	}
	return c.env.Structure(oe.Operand.Name)
}

// executeAdd adds an integer amount; the current value counts as 0 when
// missing or non-numeric.
func (c *ExecutionContext) executeAdd(stmt ast.Statement) error {
	s := stmt.(*ast.AddStatement)
	amount, ok := c.resolve(s.Amount, nil).Int()
	if !ok {
		c.warn(s.Line(), errors.WarnMalformed, "ADD with non-numeric amount "+s.Amount.String())
		amount = 0
	}
	if s.Target.Field != "" {
		c.env.AddField(s.Target.Name, s.Target.Field, amount)
		return nil
	}
	c.env.Add(s.Target.Name, amount)
	return nil
}

// executeAppend copies a structure into a table; unknown names change nothing
func (c *ExecutionContext) executeAppend(stmt ast.Statement) error {
	s := stmt.(*ast.AppendStatement)
	if c.env.Append(s.From, s.Table) {
		return nil
	}
	if _, ok := c.env.Structure(s.From); !ok {
		c.warn(s.Line(), errors.WarnUnknownStructure, "APPEND from undeclared structure "+s.From)
		return nil
	}
	c.warn(s.Line(), errors.WarnUnknownTable, "APPEND to undeclared table "+s.Table)
	return nil
}

func (c *ExecutionContext) executeClear(stmt ast.Statement) error {
	s := stmt.(*ast.ClearStatement)
	var ok bool
	if s.Target.Field != "" {
		ok = c.env.ClearField(s.Target.Name, s.Target.Field)
	} else {
		ok = c.env.Clear(s.Target.Name)
	}
	if !ok {
		c.warn(s.Line(), errors.WarnUnknownVariable, "CLEAR of undeclared "+s.Target.String())
	}
	return nil
}

func (c *ExecutionContext) executeUnknown(stmt ast.Statement) error {
	s := stmt.(*ast.UnknownStatement)
	if s.Reason != "" {
		c.warn(s.Line(), errors.WarnMalformed, s.Reason+": "+s.Source())
		return nil
	}
	c.warn(s.Line(), errors.WarnUnknownStatement, "unrecognized statement: "+s.Source())
	return nil
}
