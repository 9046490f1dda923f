package engine

import (
	"strings"

	"abapsim/ast"
	"abapsim/errors"
	"abapsim/runtime"
)

// rowScope binds the current LOOP AT row to its variable name while a
// WRITE renders that row.
type rowScope struct {
	name string
	row  *runtime.Structure
}

// EvaluateCondition compares two values. When both read as integers the
// comparison is numeric and supports = <> < <= > >=; otherwise it is a text
// comparison and only = and <> can be true.
func EvaluateCondition(current runtime.Value, operator string, operand runtime.Value) bool {
	a, aok := current.Int()
	b, bok := operand.Int()
	if aok && bok {
		switch operator {
		case "=":
			return a == b
		case "<>":
			return a != b
		case "<":
			return a < b
		case "<=":
			return a <= b
		case ">":
			return a > b
		case ">=":
			return a >= b
		}
		return false
	}
	switch operator {
	case "=":
		return current.String() == operand.String()
	case "<>":
		return current.String() != operand.String()
	}
	return false
}

// resolve turns an operand into a value. Field references look at the loop
// row first when the name is the row variable, then at declared structures;
// bare names look at scalars and structures; anything else is a literal.
func (c *ExecutionContext) resolve(op ast.Operand, scope *rowScope) runtime.Value {
	if op.Quoted {
		return runtime.Text(op.Raw)
	}
	if op.IsField() {
		if scope != nil && scope.row != nil && op.Name == scope.name {
			if v, ok := scope.row.Get(op.Field); ok {
				return v
			}
		}
		if s, ok := c.env.Structure(op.Name); ok {
			if v, ok := s.Get(op.Field); ok {
				return v
			}
			return runtime.Text("")
		}
		return runtime.Coerce(op.Raw)
	}
	if op.Name != "" {
		if scope != nil && scope.row != nil && op.Name == scope.name {
			return structureText(scope.row)
		}
		if v, ok := c.env.Scalar(op.Name); ok {
			return v
		}
		if s, ok := c.env.Structure(op.Name); ok {
			return structureText(s)
		}
	}
	return runtime.Coerce(op.Raw)
}

// structureText renders field values in first-assignment order
func structureText(s *runtime.Structure) runtime.Value {
	values := s.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return runtime.Text(strings.Join(parts, " "))
}

func (c *ExecutionContext) condition(cond ast.Condition) bool {
	if !cond.Valid() {
		return false
	}
	return EvaluateCondition(c.resolve(cond.Left, nil), cond.Op, c.resolve(cond.Right, nil))
}

// evaluate computes an assignment right-hand side. Arithmetic applies only
// when every operand reads as an integer; otherwise the value is the literal
// text of the expression.
func (c *ExecutionContext) evaluate(stmt *ast.AssignStatement) runtime.Value {
	switch e := stmt.Value.(type) {
	case nil:
		return runtime.Text(stmt.RawValue)
	case *ast.OperandExpr:
		return c.resolve(e.Operand, nil)
	}
	for _, op := range ast.Operands(stmt.Value) {
		if _, ok := c.resolve(op, nil).Int(); !ok {
			return runtime.Text(stmt.RawValue)
		}
	}
	return runtime.Integer(c.arithmetic(stmt.Value, stmt.Line()))
}

func (c *ExecutionContext) arithmetic(e ast.Expr, line int) int64 {
	switch n := e.(type) {
	case *ast.OperandExpr:
		return c.resolve(n.Operand, nil).IntOrZero()
	case *ast.BinaryExpr:
		left := c.arithmetic(n.Left, line)
		right := c.arithmetic(n.Right, line)
		switch n.Op {
		case "+":
			return left + right
		case "-":
			return left - right
		case "*":
			return left * right
		case "/", "MOD":
			if right == 0 {
				c.warn(line, errors.WarnDivisionByZero, "division by zero, result set to 0")
				return 0
			}
			if n.Op == "/" {
				return left / right
			}
			return floorMod(left, right)
		}
	}
	return 0
}

// floorMod returns a MOD b with a result that is never negative
func floorMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		if b < 0 {
			r -= b
		} else {
			r += b
		}
	}
	return r
}
