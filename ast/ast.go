package ast

import (
	"fmt"
	"strings"
)

// NodeType identifies the statement variant
type NodeType int

const (
	NodeInvalid NodeType = iota
	NodeData
	NodeAssign
	NodeAdd
	NodeAppend
	NodeClear
	NodeWrite
	NodeLoopAt
	NodeEndLoop
	NodeWhile
	NodeEndWhile
	NodeDo
	NodeEndDo
	NodeIf
	NodeElseIf
	NodeElse
	NodeEndIf
	NodeCase
	NodeWhen
	NodeWhenOthers
	NodeEndCase
	NodeUnknown
)

var nodeTypeNames = map[NodeType]string{
	NodeInvalid:    "Invalid",
	NodeData:       "Data",
	NodeAssign:     "Assign",
	NodeAdd:        "Add",
	NodeAppend:     "Append",
	NodeClear:      "Clear",
	NodeWrite:      "Write",
	NodeLoopAt:     "LoopAt",
	NodeEndLoop:    "EndLoop",
	NodeWhile:      "While",
	NodeEndWhile:   "EndWhile",
	NodeDo:         "Do",
	NodeEndDo:      "EndDo",
	NodeIf:         "If",
	NodeElseIf:     "ElseIf",
	NodeElse:       "Else",
	NodeEndIf:      "EndIf",
	NodeCase:       "Case",
	NodeWhen:       "When",
	NodeWhenOthers: "WhenOthers",
	NodeEndCase:    "EndCase",
	NodeUnknown:    "Unknown",
}

// String returns the node type name
func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Statement is one parsed, executable statement. Statements are immutable
// once produced by the parser.
type Statement interface {
	Type() NodeType
	// Line is the 1-based source line the statement starts on
	Line() int
	// Source is the statement text without its terminator
	Source() string
	ToMap() map[string]interface{}
}

// BaseNode carries the position shared by every statement
type BaseNode struct {
	Pos  int
	Text string
}

// Line returns the 1-based line number
func (b BaseNode) Line() int { return b.Pos }

// Source returns the statement text
func (b BaseNode) Source() string { return b.Text }

func (b BaseNode) baseMap(kind string) map[string]interface{} {
	return map[string]interface{}{
		"type":   kind,
		"line":   b.Pos,
		"source": b.Text,
	}
}

// Operand is a single token that the value evaluator resolves at run time:
// a quoted literal, a bare name or literal, or a name-field reference.
type Operand struct {
	Raw    string
	Quoted bool
	Name   string
	Field  string
}

// IsField reports whether the operand has the form name-field
func (o Operand) IsField() bool {
	return !o.Quoted && o.Field != ""
}

// IsZero reports whether the operand is empty
func (o Operand) IsZero() bool {
	return o.Raw == "" && !o.Quoted
}

// String renders the operand as it appeared in source
func (o Operand) String() string {
	if o.Quoted {
		return "'" + strings.ReplaceAll(o.Raw, "'", "''") + "'"
	}
	return o.Raw
}

// Target is the left-hand side of an assignment or ADD: a name with an
// optional field.
type Target struct {
	Name  string
	Field string
}

// String renders the target as name or name-field
func (t Target) String() string {
	if t.Field == "" {
		return t.Name
	}
	return t.Name + "-" + t.Field
}

// Condition is the `left op right` form used by IF, ELSEIF and WHILE.
// A condition that failed to parse has an empty Op and evaluates to false.
type Condition struct {
	Left  Operand
	Op    string
	Right Operand
}

// Valid reports whether the condition parsed
func (c Condition) Valid() bool {
	return c.Op != ""
}

// String renders the condition
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// Declaration is one item of a DATA statement. A structure declared with
// BEGIN OF ... END OF carries its components in Fields.
type Declaration struct {
	Name      string
	TypeName  string
	Table     bool
	Structure bool
	Fields    []Declaration
	Value     *Operand
}

// DataStatement declares a scalar, structure or table. Chained DATA
// statements are split into one DataStatement per item.
type DataStatement struct {
	BaseNode
	Decl Declaration
}

func (n *DataStatement) Type() NodeType { return NodeData }

func (n *DataStatement) ToMap() map[string]interface{} {
	m := n.baseMap("data")
	m["name"] = n.Decl.Name
	m["data_type"] = n.Decl.TypeName
	m["table"] = n.Decl.Table
	if n.Decl.Value != nil {
		m["value"] = n.Decl.Value.String()
	}
	if n.Decl.Structure {
		fields := make([]string, len(n.Decl.Fields))
		for i, f := range n.Decl.Fields {
			fields[i] = f.Name
		}
		m["fields"] = fields
	}
	return m
}

// AssignStatement is `target = expr` and `MOVE expr TO target`
type AssignStatement struct {
	BaseNode
	Target Target
	Value  Expr
	// RawValue is the right-hand side with quotes removed, used when the
	// expression does not evaluate to an integer
	RawValue string
}

func (n *AssignStatement) Type() NodeType { return NodeAssign }

func (n *AssignStatement) ToMap() map[string]interface{} {
	m := n.baseMap("assign")
	m["target"] = n.Target.String()
	m["value"] = n.RawValue
	return m
}

// AddStatement is `ADD amount TO target`
type AddStatement struct {
	BaseNode
	Amount Operand
	Target Target
}

func (n *AddStatement) Type() NodeType { return NodeAdd }

func (n *AddStatement) ToMap() map[string]interface{} {
	m := n.baseMap("add")
	m["amount"] = n.Amount.String()
	m["target"] = n.Target.String()
	return m
}

// AppendStatement is `APPEND from TO table`
type AppendStatement struct {
	BaseNode
	From  string
	Table string
}

func (n *AppendStatement) Type() NodeType { return NodeAppend }

func (n *AppendStatement) ToMap() map[string]interface{} {
	m := n.baseMap("append")
	m["from"] = n.From
	m["table"] = n.Table
	return m
}

// ClearStatement is `CLEAR name` or `CLEAR name-field`
type ClearStatement struct {
	BaseNode
	Target Target
}

func (n *ClearStatement) Type() NodeType { return NodeClear }

func (n *ClearStatement) ToMap() map[string]interface{} {
	m := n.baseMap("clear")
	m["target"] = n.Target.String()
	return m
}

// WritePart is one comma-separated part of a WRITE list. A part may hold
// several whitespace-separated operands.
type WritePart struct {
	Operands []Operand
}

// WriteStatement renders its parts into one output line (one per row inside LOOP AT)
type WriteStatement struct {
	BaseNode
	NewLine bool
	Parts   []WritePart
}

func (n *WriteStatement) Type() NodeType { return NodeWrite }

func (n *WriteStatement) ToMap() map[string]interface{} {
	m := n.baseMap("write")
	parts := make([]interface{}, len(n.Parts))
	for i, p := range n.Parts {
		ops := make([]string, len(p.Operands))
		for j, o := range p.Operands {
			ops[j] = o.String()
		}
		parts[i] = strings.Join(ops, " ")
	}
	m["parts"] = parts
	m["newline"] = n.NewLine
	return m
}

// LoopAtStatement is `LOOP AT table INTO row`
type LoopAtStatement struct {
	BaseNode
	Table string
	Row   string
}

func (n *LoopAtStatement) Type() NodeType { return NodeLoopAt }

func (n *LoopAtStatement) ToMap() map[string]interface{} {
	m := n.baseMap("loop_at")
	m["table"] = n.Table
	m["row"] = n.Row
	return m
}

// WhileStatement is `WHILE cond`
type WhileStatement struct {
	BaseNode
	Cond Condition
}

func (n *WhileStatement) Type() NodeType { return NodeWhile }

func (n *WhileStatement) ToMap() map[string]interface{} {
	m := n.baseMap("while")
	m["condition"] = n.Cond.String()
	return m
}

// DoStatement is `DO count TIMES`. A missing count is an empty operand.
type DoStatement struct {
	BaseNode
	Count Operand
}

func (n *DoStatement) Type() NodeType { return NodeDo }

func (n *DoStatement) ToMap() map[string]interface{} {
	m := n.baseMap("do")
	m["count"] = n.Count.String()
	return m
}

// IfStatement is `IF cond`
type IfStatement struct {
	BaseNode
	Cond Condition
}

func (n *IfStatement) Type() NodeType { return NodeIf }

func (n *IfStatement) ToMap() map[string]interface{} {
	m := n.baseMap("if")
	m["condition"] = n.Cond.String()
	return m
}

// ElseIfStatement is `ELSEIF cond`
type ElseIfStatement struct {
	BaseNode
	Cond Condition
}

func (n *ElseIfStatement) Type() NodeType { return NodeElseIf }

func (n *ElseIfStatement) ToMap() map[string]interface{} {
	m := n.baseMap("elseif")
	m["condition"] = n.Cond.String()
	return m
}

// CaseStatement is `CASE subject`
type CaseStatement struct {
	BaseNode
	Subject Operand
}

func (n *CaseStatement) Type() NodeType { return NodeCase }

func (n *CaseStatement) ToMap() map[string]interface{} {
	m := n.baseMap("case")
	m["subject"] = n.Subject.String()
	return m
}

// WhenStatement is `WHEN a [OR b ...]`
type WhenStatement struct {
	BaseNode
	Values []Operand
}

func (n *WhenStatement) Type() NodeType { return NodeWhen }

func (n *WhenStatement) ToMap() map[string]interface{} {
	m := n.baseMap("when")
	values := make([]string, len(n.Values))
	for i, v := range n.Values {
		values[i] = v.String()
	}
	m["values"] = values
	return m
}

// MarkerStatement covers the keyword-only statements: ELSE, ENDIF,
// WHEN OTHERS, ENDCASE, ENDWHILE, ENDDO and ENDLOOP.
type MarkerStatement struct {
	BaseNode
	Kind NodeType
}

func (n *MarkerStatement) Type() NodeType { return n.Kind }

func (n *MarkerStatement) ToMap() map[string]interface{} {
	return n.baseMap(strings.ToLower(n.Kind.String()))
}

// UnknownStatement is any statement the parser does not recognize, or a
// recognized keyword with a malformed tail.
type UnknownStatement struct {
	BaseNode
	Keyword string
	Reason  string
}

func (n *UnknownStatement) Type() NodeType { return NodeUnknown }

func (n *UnknownStatement) ToMap() map[string]interface{} {
	m := n.baseMap("unknown")
	m["keyword"] = n.Keyword
	if n.Reason != "" {
		m["reason"] = n.Reason
	}
	return m
}

// Program is the statement arena produced from one source text. Control
// flow addresses statements by their index.
type Program struct {
	Statements []Statement
}

// Len returns the statement count
func (p *Program) Len() int {
	return len(p.Statements)
}

// At returns the statement at index i
func (p *Program) At(i int) Statement {
	return p.Statements[i]
}

func (p *Program) ToMap() map[string]interface{} {
	stmts := make([]interface{}, len(p.Statements))
	for i, s := range p.Statements {
		stmts[i] = s.ToMap()
	}
	return map[string]interface{}{
		"type":       "program",
		"statements": stmts,
	}
}
