package ast

import "fmt"

// Expr is the right-hand side of an assignment
type Expr interface {
	String() string
	exprMarker()
}

// OperandExpr is a single operand
type OperandExpr struct {
	Operand Operand
}

func (e *OperandExpr) exprMarker() {}

func (e *OperandExpr) String() string {
	return e.Operand.String()
}

// BinaryExpr is `left op right` for + - * / MOD
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprMarker() {}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// Operands returns the leaves of an expression in source order
func Operands(e Expr) []Operand {
	switch n := e.(type) {
	case *OperandExpr:
		return []Operand{n.Operand}
	case *BinaryExpr:
		return append(Operands(n.Left), Operands(n.Right)...)
	default:
		return nil
	}
}
