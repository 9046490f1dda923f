package errors

import (
	"fmt"
	"strings"
	"time"
)

// MessageMissingTerminator is reported for every statement line that does not
// end in '.', ',' or ':'.
const MessageMissingTerminator = "Missing period/comma/colon."

// SyntaxError is a single line-tagged syntax problem. Any SyntaxError in a
// source withholds execution.
type SyntaxError struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}

// SyntaxErrors is the ordered batch returned by the checker.
type SyntaxErrors []SyntaxError

func (s SyntaxErrors) Error() string {
	lines := make([]string, len(s))
	for i, e := range s {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// AsExecutionError folds the batch into a single structured error.
func (s SyntaxErrors) AsExecutionError() *ExecutionError {
	execErr := newError(ErrorTypeSyntax, SeverityError, CodeSyntaxErrors,
		fmt.Sprintf("%d syntax error(s)", len(s)))
	if len(s) > 0 {
		execErr.Line = s[0].Line
	}
	return execErr.WithContext("errors", []SyntaxError(s))
}

// Limit names the guard that aborted a run.
type Limit string

const (
	LimitSteps   Limit = "steps"
	LimitTimeout Limit = "timeout"
	LimitOutput  Limit = "output_lines"
)

// ErrResourceExceeded matches every ResourceExceededError via errors.Is.
var ErrResourceExceeded = newError(ErrorTypeRuntime, SeverityFatal, CodeResourceExceeded, "resource limit exceeded")

// ResourceExceededError aborts an interpretation when the loop guard trips.
type ResourceExceededError struct {
	Limit   Limit
	Max     int64
	Steps   int64
	Line    int
	Elapsed time.Duration
}

func (e *ResourceExceededError) Error() string {
	switch e.Limit {
	case LimitTimeout:
		return fmt.Sprintf("resource exceeded: timeout of %s reached after %d steps (line %d)",
			time.Duration(e.Max), e.Steps, e.Line)
	case LimitOutput:
		return fmt.Sprintf("resource exceeded: more than %d output lines (line %d)", e.Max, e.Line)
	default:
		return fmt.Sprintf("resource exceeded: step limit of %d reached (line %d)", e.Max, e.Line)
	}
}

// Is lets errors.Is(err, ErrResourceExceeded) succeed.
func (e *ResourceExceededError) Is(target error) bool {
	return target == ErrResourceExceeded
}

// AsExecutionError converts the guard failure into the generic error shape.
func (e *ResourceExceededError) AsExecutionError() *ExecutionError {
	return newError(ErrorTypeRuntime, SeverityFatal, CodeResourceExceeded, e.Error()).
		WithPosition(e.Line).
		WithContext("limit", string(e.Limit)).
		WithContext("max", e.Max).
		WithContext("steps", e.Steps)
}

// Warning codes.
const (
	WarnUnknownStatement = "UNKNOWN_STATEMENT"
	WarnUnknownTable     = "UNKNOWN_TABLE"
	WarnUnknownStructure = "UNKNOWN_STRUCTURE"
	WarnUnknownVariable  = "UNKNOWN_VARIABLE"
	WarnNestedLoop       = "NESTED_LOOP"
	WarnUnmatchedBlock   = "UNMATCHED_BLOCK"
	WarnUnclosedBlock    = "UNCLOSED_BLOCK"
	WarnDivisionByZero   = "DIVISION_BY_ZERO"
	WarnMalformed        = "MALFORMED_STATEMENT"
)

// RuntimeWarning is a non-fatal diagnostic surfaced next to the output.
type RuntimeWarning struct {
	Line    int    `json:"line" yaml:"line"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (w RuntimeWarning) String() string {
	return fmt.Sprintf("Line %d: %s (%s)", w.Line, w.Message, w.Code)
}

// Exit codes used by the command line front end.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitSyntaxErrors     = 2
	ExitResourceExceeded = 3
)

// ExitCode maps an error returned by the engine or the CLI to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var syntax SyntaxErrors
	if As(err, &syntax) {
		return ExitSyntaxErrors
	}
	if Is(err, ErrResourceExceeded) {
		return ExitResourceExceeded
	}
	if execErr, ok := AsExecutionError(err); ok {
		switch execErr.Code {
		case CodeSyntaxErrors:
			return ExitSyntaxErrors
		case CodeResourceExceeded:
			return ExitResourceExceeded
		}
	}
	return ExitFailure
}
