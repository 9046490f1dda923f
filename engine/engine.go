package engine

import (
	"context"
	"strings"
	"time"

	"abapsim/ast"
	"abapsim/errors"
	"abapsim/logging"
	"abapsim/parser"
)

type statementHandler func(c *ExecutionContext, stmt ast.Statement) error

// handlers dispatches every statement variant; it is never modified.
var handlers = map[ast.NodeType]statementHandler{
	ast.NodeData:       (*ExecutionContext).executeData,
	ast.NodeAssign:     (*ExecutionContext).executeAssign,
	ast.NodeAdd:        (*ExecutionContext).executeAdd,
	ast.NodeAppend:     (*ExecutionContext).executeAppend,
	ast.NodeClear:      (*ExecutionContext).executeClear,
	ast.NodeWrite:      (*ExecutionContext).executeWrite,
	ast.NodeLoopAt:     (*ExecutionContext).executeLoopAt,
	ast.NodeEndLoop:    (*ExecutionContext).executeEndLoop,
	ast.NodeWhile:      (*ExecutionContext).executeWhile,
	ast.NodeEndWhile:   (*ExecutionContext).executeEndWhile,
	ast.NodeDo:         (*ExecutionContext).executeDo,
	ast.NodeEndDo:      (*ExecutionContext).executeEndDo,
	ast.NodeIf:         (*ExecutionContext).executeIf,
	ast.NodeElseIf:     (*ExecutionContext).executeElseIf,
	ast.NodeElse:       (*ExecutionContext).executeElse,
	ast.NodeEndIf:      (*ExecutionContext).executeEndIf,
	ast.NodeCase:       (*ExecutionContext).executeCase,
	ast.NodeWhen:       (*ExecutionContext).executeWhen,
	ast.NodeWhenOthers: (*ExecutionContext).executeWhenOthers,
	ast.NodeEndCase:    (*ExecutionContext).executeEndCase,
	ast.NodeUnknown:    (*ExecutionContext).executeUnknown,
}

// Result is the outcome of one Run. Output is nil when syntax errors
// withheld execution or a guard aborted it.
type Result struct {
	Output   *string
	Lines    []string
	Errors   errors.SyntaxErrors
	Warnings []errors.RuntimeWarning
	Steps    int64
	Elapsed  time.Duration
}

// Executed reports whether the program ran to completion
func (r *Result) Executed() bool {
	return r.Output != nil
}

// ExecutionEngine checks and runs programs. It holds configuration only, so
// one engine may serve concurrent runs.
type ExecutionEngine struct {
	config ExecutionEngineConfig
	parser *parser.Parser
	logger logging.Logger
}

// NewExecutionEngine creates an engine with the default configuration
func NewExecutionEngine() *ExecutionEngine {
	return NewExecutionEngineWithConfig(DefaultConfig())
}

// NewExecutionEngineWithConfig creates an engine with configuration
func NewExecutionEngineWithConfig(config ExecutionEngineConfig) *ExecutionEngine {
	logger := config.logger().WithComponent("engine")
	return &ExecutionEngine{
		config: config,
		parser: parser.NewParserWithLogger(config.logger()),
		logger: logger,
	}
}

// Config returns the engine configuration
func (e *ExecutionEngine) Config() ExecutionEngineConfig {
	return e.config
}

// Keywords returns the statement keywords the engine understands
func (e *ExecutionEngine) Keywords() []string {
	return e.parser.Keywords()
}

// Check returns the syntax errors of src without executing it
func (e *ExecutionEngine) Check(src string) errors.SyntaxErrors {
	return parser.Check(src)
}

// Parse returns the statement arena for src
func (e *ExecutionEngine) Parse(src string) *ast.Program {
	return e.parser.Parse(src)
}

// Run checks src and, when it is clean, executes it in a fresh context.
// Syntax errors are reported in the result with a nil error. A tripped
// guard returns the partial result together with a
// *errors.ResourceExceededError.
func (e *ExecutionEngine) Run(ctx context.Context, src string) (*Result, error) {
	lines := parser.Segment(src)
	if errs := parser.CheckLines(lines); len(errs) > 0 {
		e.logger.Info("execution withheld", logging.IntField("syntax_errors", len(errs)))
		return &Result{Errors: errs}, nil
	}
	return e.Execute(ctx, e.parser.ParseLines(lines))
}

// Execute runs an already parsed program in a fresh context
func (e *ExecutionEngine) Execute(ctx context.Context, program *ast.Program) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	guard := newLoopGuard(ctx, e.config)
	c := newExecutionContext(program, e.config, guard, e.logger)
	err := c.run()

	result := &Result{
		Lines:    c.output,
		Warnings: c.warnings,
		Steps:    guard.steps,
		Elapsed:  guard.elapsed(),
	}
	if err != nil {
		e.logger.ErrorExecution(err, logging.Int64Field("steps", guard.steps))
		return result, err
	}
	output := strings.Join(c.output, "\n")
	result.Output = &output
	e.logger.Debug("run finished",
		logging.Int64Field("steps", guard.steps),
		logging.IntField("lines", len(c.output)),
		logging.DurationField("elapsed", result.Elapsed))
	return result, nil
}

// run walks the statement arena from the first statement to past-the-end
func (c *ExecutionContext) run() error {
	debug := c.logger.Enabled(logging.LevelDebug)
	for c.ip < c.program.Len() {
		stmt := c.program.At(c.ip)
		if err := c.guard.step(stmt.Line()); err != nil {
			return err
		}
		if debug {
			c.logger.Debug("execute",
				logging.LineField(stmt.Line()),
				logging.IntField("ip", c.ip),
				logging.StringField("kind", stmt.Type().String()))
		}
		c.ip++
		handler, ok := handlers[stmt.Type()]
		if !ok {
			continue
		}
		if err := handler(c, stmt); err != nil {
			return err
		}
	}
	c.finish()
	return nil
}

// Check returns the syntax errors of src
func Check(src string) errors.SyntaxErrors {
	return parser.Check(src)
}

// Run executes src with the default configuration
func Run(ctx context.Context, src string) (*Result, error) {
	return NewExecutionEngine().Run(ctx, src)
}
