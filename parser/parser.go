package parser

import (
	"fmt"
	"sort"
	"strings"

	"abapsim/ast"
	"abapsim/logging"
)

// comparison operators, including their word forms
var comparisonOperators = map[string]string{
	"=":  "=",
	"<>": "<>",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
	"EQ": "=",
	"NE": "<>",
	"LT": "<",
	"LE": "<=",
	"GT": ">",
	"GE": ">=",
}

// arithmetic operator precedence for assignment right-hand sides
var arithmeticPrecedence = map[string]int{
	"+":   1,
	"-":   1,
	"*":   2,
	"/":   2,
	"MOD": 2,
}

type statementParser func(base ast.BaseNode, toks []Token) ast.Statement

// Parser turns source text into a statement arena. It never fails: text it
// cannot interpret becomes an UnknownStatement.
type Parser struct {
	logger   logging.Logger
	handlers map[string]statementParser
}

// NewParser creates a parser that logs nothing
func NewParser() *Parser {
	return NewParserWithLogger(nil)
}

// NewParserWithLogger creates a parser that logs each parsed statement at debug level
func NewParserWithLogger(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	p := &Parser{logger: logger.WithComponent("parser")}
	p.handlers = map[string]statementParser{
		"DATA":     parseData,
		"MOVE":     parseMove,
		"ADD":      parseAdd,
		"APPEND":   parseAppend,
		"CLEAR":    parseClear,
		"WRITE":    parseWrite,
		"LOOP":     parseLoopAt,
		"ENDLOOP":  marker(ast.NodeEndLoop),
		"WHILE":    parseWhile,
		"ENDWHILE": marker(ast.NodeEndWhile),
		"DO":       parseDo,
		"ENDDO":    marker(ast.NodeEndDo),
		"IF":       parseIf,
		"ELSEIF":   parseElseIf,
		"ELSE":     marker(ast.NodeElse),
		"ENDIF":    marker(ast.NodeEndIf),
		"CASE":     parseCase,
		"WHEN":     parseWhen,
		"ENDCASE":  marker(ast.NodeEndCase),
	}
	return p
}

// Keywords returns the statement keywords the parser recognizes, sorted
func (p *Parser) Keywords() []string {
	keywords := make([]string, 0, len(p.handlers))
	for k := range p.handlers {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// Parse segments and parses a whole source
func (p *Parser) Parse(src string) *ast.Program {
	return p.ParseLines(Segment(src))
}

// ParseLines parses already segmented lines
func (p *Parser) ParseLines(lines []Line) *ast.Program {
	program := &ast.Program{}
	add := func(stmt ast.Statement) {
		p.logger.Debug("parsed statement",
			logging.LineField(stmt.Line()),
			logging.StringField("kind", stmt.Type().String()))
		program.Statements = append(program.Statements, stmt)
	}

	var block *structureBlock
	for _, logical := range joinLines(lines) {
		for _, item := range expandChain(logical) {
			if block != nil {
				if keywordOf(item.Text) == "DATA" {
					if stmt := block.feed(item); stmt != nil {
						add(stmt)
						block = nil
					}
					continue
				}
				add(block.unclosed())
				block = nil
			}
			if begin, name, ok := structureBoundary(item.Text); ok {
				if begin {
					block = newStructureBlock(item, name)
					continue
				}
				add(malformed(ast.BaseNode{Pos: item.Line, Text: item.Text}, "DATA", "END OF %s without BEGIN OF", name))
				continue
			}
			add(p.ParseStatement(item.Line, item.Text))
		}
	}
	if block != nil {
		add(block.unclosed())
	}
	return program
}

// ParseStatement parses one statement text with its terminator removed
func (p *Parser) ParseStatement(line int, text string) ast.Statement {
	base := ast.BaseNode{Pos: line, Text: text}
	toks := Lex(text)
	if len(toks) == 0 {
		return &ast.UnknownStatement{BaseNode: base, Reason: "empty statement"}
	}

	if toks[0].Type == TokenWord {
		if handler, ok := p.handlers[toks[0].Text]; ok {
			return handler(base, toks)
		}
	}
	if len(toks) >= 2 && toks[1].Type == TokenOperator && toks[1].Text == "=" {
		return parseAssign(base, toks)
	}
	return &ast.UnknownStatement{BaseNode: base, Keyword: toks[0].Text}
}

func malformed(base ast.BaseNode, keyword, format string, args ...interface{}) ast.Statement {
	return &ast.UnknownStatement{BaseNode: base, Keyword: keyword, Reason: fmt.Sprintf(format, args...)}
}

func marker(kind ast.NodeType) statementParser {
	return func(base ast.BaseNode, _ []Token) ast.Statement {
		return &ast.MarkerStatement{BaseNode: base, Kind: kind}
	}
}

// operandOf converts a token into an operand. Unquoted words of the form
// name-field become field references.
func operandOf(t Token) ast.Operand {
	if t.Type == TokenQuoted {
		return ast.Operand{Raw: t.Text, Quoted: true}
	}
	op := ast.Operand{Raw: t.Text}
	if t.Type != TokenWord {
		return op
	}
	if name, field, ok := splitField(t.Text); ok {
		op.Name, op.Field = name, field
	} else {
		op.Name = t.Text
	}
	return op
}

// splitField splits name-field at the first '-'; both sides must be non-empty
func splitField(word string) (string, string, bool) {
	i := strings.IndexByte(word, '-')
	if i <= 0 || i == len(word)-1 {
		return "", "", false
	}
	return word[:i], word[i+1:], true
}

func targetOf(t Token) (ast.Target, bool) {
	if t.Type != TokenWord || t.Text == "" {
		return ast.Target{}, false
	}
	if name, field, ok := splitField(t.Text); ok {
		return ast.Target{Name: name, Field: field}, true
	}
	if strings.HasPrefix(t.Text, "-") {
		return ast.Target{}, false
	}
	return ast.Target{Name: t.Text}, true
}

func isName(t Token) bool {
	return t.Type == TokenWord && t.Text != "" && !strings.Contains(t.Text, "-")
}

// parseData handles `DATA name TYPE [STANDARD] TABLE OF row` and
// `DATA name [TYPE type] [LENGTH n] [VALUE literal]`
func parseData(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) < 2 || !isName(toks[1]) {
		return malformed(base, "DATA", "missing variable name")
	}
	if len(toks) >= 3 && (toks[1].Is("BEGIN") || toks[1].Is("END")) && toks[2].Is("OF") {
		return malformed(base, "DATA", "%s OF outside a structure block", toks[1].Text)
	}
	decl := ast.Declaration{Name: toks[1].Text}
	rest := toks[2:]

	if len(rest) > 0 && (rest[0].Is("TYPE") || rest[0].Is("LIKE")) {
		rest = rest[1:]
		if len(rest) > 0 && (rest[0].Is("STANDARD") || rest[0].Is("SORTED") || rest[0].Is("HASHED")) {
			rest = rest[1:]
		}
		if len(rest) >= 2 && rest[0].Is("TABLE") && rest[1].Is("OF") {
			if len(rest) < 3 {
				return malformed(base, "DATA", "missing row type for table %s", decl.Name)
			}
			decl.Table = true
			decl.TypeName = rest[2].Text
			return &ast.DataStatement{BaseNode: base, Decl: decl}
		}
		if len(rest) == 0 {
			return malformed(base, "DATA", "missing type for %s", decl.Name)
		}
		decl.TypeName = rest[0].Text
		rest = rest[1:]
	}

	for i := 0; i < len(rest); i++ {
		if rest[i].Is("VALUE") {
			if i+1 >= len(rest) {
				return malformed(base, "DATA", "VALUE without literal for %s", decl.Name)
			}
			v := operandOf(rest[i+1])
			decl.Value = &v
			break
		}
	}
	return &ast.DataStatement{BaseNode: base, Decl: decl}
}

func parseAssign(base ast.BaseNode, toks []Token) ast.Statement {
	target, ok := targetOf(toks[0])
	if !ok {
		return malformed(base, toks[0].Text, "invalid assignment target")
	}
	rhs := toks[2:]
	if len(rhs) == 0 {
		return malformed(base, toks[0].Text, "missing value for %s", target)
	}
	return &ast.AssignStatement{
		BaseNode: base,
		Target:   target,
		Value:    parseExpr(rhs),
		RawValue: literalText(rhs),
	}
}

// parseMove handles `MOVE source TO target`
func parseMove(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) != 4 || !toks[2].Is("TO") {
		return malformed(base, "MOVE", "expected MOVE source TO target")
	}
	target, ok := targetOf(toks[3])
	if !ok {
		return malformed(base, "MOVE", "invalid target")
	}
	src := toks[1:2]
	return &ast.AssignStatement{
		BaseNode: base,
		Target:   target,
		Value:    parseExpr(src),
		RawValue: literalText(src),
	}
}

// literalText renders tokens with quotes removed, space separated
func literalText(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// parseExpr parses `operand (op operand)*` with * / MOD binding tighter
// than + -. It returns nil when the tokens do not form such an expression.
func parseExpr(toks []Token) ast.Expr {
	if len(toks)%2 == 0 {
		return nil
	}
	for i, t := range toks {
		if i%2 == 1 {
			if _, ok := arithmeticPrecedence[t.Text]; !ok || t.Type != TokenWord {
				return nil
			}
		} else if t.Type != TokenWord && t.Type != TokenQuoted {
			return nil
		}
	}
	pos := 0
	return parseBinary(toks, &pos, 1)
}

func parseBinary(toks []Token, pos *int, minPrec int) ast.Expr {
	left := ast.Expr(&ast.OperandExpr{Operand: operandOf(toks[*pos])})
	*pos++
	for *pos < len(toks) {
		op := toks[*pos].Text
		prec := arithmeticPrecedence[op]
		if prec < minPrec {
			break
		}
		*pos++
		right := parseBinary(toks, pos, prec+1)
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

// parseAdd handles `ADD amount TO target`
func parseAdd(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) != 4 || !toks[2].Is("TO") {
		return malformed(base, "ADD", "expected ADD amount TO target")
	}
	target, ok := targetOf(toks[3])
	if !ok {
		return malformed(base, "ADD", "invalid target")
	}
	return &ast.AddStatement{BaseNode: base, Amount: operandOf(toks[1]), Target: target}
}

// parseAppend handles `APPEND source TO table`
func parseAppend(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) != 4 || !toks[2].Is("TO") || !isName(toks[1]) || !isName(toks[3]) {
		return malformed(base, "APPEND", "expected APPEND structure TO table")
	}
	return &ast.AppendStatement{BaseNode: base, From: toks[1].Text, Table: toks[3].Text}
}

// parseClear handles `CLEAR name`
func parseClear(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) != 2 {
		return malformed(base, "CLEAR", "expected CLEAR name")
	}
	target, ok := targetOf(toks[1])
	if !ok {
		return malformed(base, "CLEAR", "invalid name")
	}
	return &ast.ClearStatement{BaseNode: base, Target: target}
}

// parseWrite handles `WRITE [/] part[, part]*`. Only a '/' at the very
// start of the list is a line marker; a later '/' is written as text.
func parseWrite(base ast.BaseNode, toks []Token) ast.Statement {
	stmt := &ast.WriteStatement{BaseNode: base}
	rest := toks[1:]
	if len(rest) > 0 && rest[0].Type == TokenWord && strings.HasPrefix(rest[0].Text, "/") {
		stmt.NewLine = true
		if stripped := strings.TrimPrefix(rest[0].Text, "/"); stripped == "" {
			rest = rest[1:]
		} else {
			rest = append([]Token{{Type: TokenWord, Text: stripped, Pos: rest[0].Pos + 1}}, rest[1:]...)
		}
	}

	part := ast.WritePart{}
	flush := func() {
		if len(part.Operands) > 0 {
			stmt.Parts = append(stmt.Parts, part)
		}
		part = ast.WritePart{}
	}
	for _, t := range rest {
		if t.Type == TokenComma {
			flush()
			continue
		}
		part.Operands = append(part.Operands, operandOf(t))
	}
	flush()
	return stmt
}

// parseLoopAt handles `LOOP AT table INTO row`
func parseLoopAt(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) != 5 || !toks[1].Is("AT") || !toks[3].Is("INTO") || !isName(toks[2]) || !isName(toks[4]) {
		return malformed(base, "LOOP", "expected LOOP AT table INTO row")
	}
	return &ast.LoopAtStatement{BaseNode: base, Table: toks[2].Text, Row: toks[4].Text}
}

// parseCondition reads `left op right` from toks
func parseCondition(toks []Token) ast.Condition {
	if len(toks) != 3 {
		return ast.Condition{}
	}
	if toks[1].Type != TokenOperator && toks[1].Type != TokenWord {
		return ast.Condition{}
	}
	op, ok := comparisonOperators[toks[1].Text]
	if !ok || toks[0].Type == TokenComma || toks[2].Type == TokenComma {
		return ast.Condition{}
	}
	return ast.Condition{Left: operandOf(toks[0]), Op: op, Right: operandOf(toks[2])}
}

func parseWhile(base ast.BaseNode, toks []Token) ast.Statement {
	return &ast.WhileStatement{BaseNode: base, Cond: parseCondition(toks[1:])}
}

func parseIf(base ast.BaseNode, toks []Token) ast.Statement {
	return &ast.IfStatement{BaseNode: base, Cond: parseCondition(toks[1:])}
}

func parseElseIf(base ast.BaseNode, toks []Token) ast.Statement {
	return &ast.ElseIfStatement{BaseNode: base, Cond: parseCondition(toks[1:])}
}

// parseDo handles `DO n TIMES`
func parseDo(base ast.BaseNode, toks []Token) ast.Statement {
	stmt := &ast.DoStatement{BaseNode: base}
	if len(toks) == 3 && toks[2].Is("TIMES") && toks[1].Type == TokenWord {
		stmt.Count = operandOf(toks[1])
	}
	return stmt
}

func parseCase(base ast.BaseNode, toks []Token) ast.Statement {
	stmt := &ast.CaseStatement{BaseNode: base}
	if len(toks) == 2 && toks[1].Type == TokenWord {
		stmt.Subject = operandOf(toks[1])
	}
	return stmt
}

// parseWhen handles `WHEN OTHERS` and `WHEN a [OR b ...]`
func parseWhen(base ast.BaseNode, toks []Token) ast.Statement {
	if len(toks) == 2 && toks[1].Is("OTHERS") {
		return &ast.MarkerStatement{BaseNode: base, Kind: ast.NodeWhenOthers}
	}
	stmt := &ast.WhenStatement{BaseNode: base}
	for _, t := range toks[1:] {
		if t.Is("OR") || t.Type == TokenComma {
			continue
		}
		stmt.Values = append(stmt.Values, operandOf(t))
	}
	return stmt
}
