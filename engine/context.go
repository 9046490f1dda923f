package engine

import (
	"abapsim/ast"
	"abapsim/errors"
	"abapsim/logging"
	"abapsim/runtime"
)

type frameKind int

const (
	frameIf frameKind = iota
	frameCase
)

func (k frameKind) String() string {
	if k == frameCase {
		return "CASE"
	}
	return "IF"
}

// controlFrame tracks one open IF or CASE construct
type controlFrame struct {
	kind     frameKind
	subject  ast.Operand
	executed bool
	skip     bool
	line     int
}

type whileFrame struct {
	cond   ast.Condition
	resume int
	line   int
}

type doFrame struct {
	target int64
	index  int64
	resume int
	line   int
}

type loopAtFrame struct {
	table string
	row   string
	line  int
}

// ExecutionContext is the complete mutable state of one interpretation.
// It is created per run and never shared.
type ExecutionContext struct {
	program *ast.Program
	env     *runtime.Environment
	config  ExecutionEngineConfig
	logger  logging.Logger
	guard   *loopGuard

	frames    []*controlFrame
	whileLoop *whileFrame
	doLoop    *doFrame
	loopAt    *loopAtFrame

	ip       int
	output   []string
	warnings []errors.RuntimeWarning
}

func newExecutionContext(program *ast.Program, config ExecutionEngineConfig, guard *loopGuard, logger logging.Logger) *ExecutionContext {
	return &ExecutionContext{
		program: program,
		env:     runtime.NewEnvironment(),
		config:  config,
		logger:  logger,
		guard:   guard,
	}
}

// Environment exposes the runtime environment, mainly for tests and the REPL
func (c *ExecutionContext) Environment() *runtime.Environment {
	return c.env
}

func (c *ExecutionContext) push(f *controlFrame) {
	c.frames = append(c.frames, f)
}

// top returns the innermost frame, or nil
func (c *ExecutionContext) top() *controlFrame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

func (c *ExecutionContext) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

// skipping reports whether WRITE output is currently suppressed
func (c *ExecutionContext) skipping() bool {
	if c.config.ShallowBranchSkip {
		top := c.top()
		return top != nil && top.skip
	}
	for _, f := range c.frames {
		if f.skip {
			return true
		}
	}
	return false
}

func (c *ExecutionContext) warn(line int, code, message string) {
	w := errors.RuntimeWarning{Line: line, Code: code, Message: message}
	c.warnings = append(c.warnings, w)
	c.logger.Warn(message, logging.LineField(line), logging.CodeField(code))
}

func (c *ExecutionContext) emit(line int, text string) error {
	c.output = append(c.output, text)
	return c.guard.output(len(c.output), line)
}

// finish reports constructs still open at the end of the program
func (c *ExecutionContext) finish() {
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]
		c.warn(f.line, errors.WarnUnclosedBlock, f.kind.String()+" without END"+f.kind.String())
	}
	if c.whileLoop != nil {
		c.warn(c.whileLoop.line, errors.WarnUnclosedBlock, "WHILE without ENDWHILE")
	}
	if c.doLoop != nil {
		c.warn(c.doLoop.line, errors.WarnUnclosedBlock, "DO without ENDDO")
	}
	if c.loopAt != nil {
		c.warn(c.loopAt.line, errors.WarnUnclosedBlock, "LOOP AT without ENDLOOP")
	}
}
