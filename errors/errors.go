// Package errors holds the error taxonomy shared by the parser, the engine
// and the command line: per-line syntax errors, guard failures, runtime
// warnings and the generic ExecutionError used at package boundaries.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType classifies where an error originated
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "SYNTAX"
	ErrorTypeRuntime    ErrorType = "RUNTIME"
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeSystem     ErrorType = "SYSTEM"
)

// ErrorSeverity tells the CLI whether a run could continue
type ErrorSeverity string

const (
	SeverityWarning ErrorSeverity = "WARNING"
	SeverityError   ErrorSeverity = "ERROR"
	SeverityFatal   ErrorSeverity = "FATAL"
)

var defaultSeverity = map[ErrorType]ErrorSeverity{
	ErrorTypeSyntax:     SeverityError,
	ErrorTypeRuntime:    SeverityError,
	ErrorTypeValidation: SeverityWarning,
	ErrorTypeSystem:     SeverityError,
}

// Error codes shared by the parser, the engine and the CLI.
const (
	CodeMissingTerminator = "MISSING_TERMINATOR"
	CodeSyntaxErrors      = "SYNTAX_ERRORS"
	CodeResourceExceeded  = "RESOURCE_EXCEEDED"
	CodeConfig            = "CONFIG_ERROR"
	CodeSourceRead        = "SOURCE_READ_ERROR"
	CodeRunFailed         = "RUN_FAILED"
)

// ExecutionError is the generic error shape. Two ExecutionErrors match under
// errors.Is when their Type and Code agree.
type ExecutionError struct {
	Type     ErrorType              `json:"type"`
	Code     string                 `json:"code"`
	Severity ErrorSeverity          `json:"severity"`
	Message  string                 `json:"message"`
	Line     int                    `json:"line,omitempty"`
	Context  map[string]interface{} `json:"context,omitempty"`
	Cause    error                  `json:"-"`
}

// Error renders "[TYPE][CODE] message line N: cause"
func (e *ExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s][%s] %s", e.Type, e.Code, e.Message)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func (e *ExecutionError) Is(target error) bool {
	other, ok := target.(*ExecutionError)
	return ok && e.Code == other.Code && e.Type == other.Type
}

// WithContext attaches a detail value under key
func (e *ExecutionError) WithContext(key string, value interface{}) *ExecutionError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithPosition sets the 1-based source line
func (e *ExecutionError) WithPosition(line int) *ExecutionError {
	e.Line = line
	return e
}

// Wrap records err as the cause
func (e *ExecutionError) Wrap(err error) *ExecutionError {
	e.Cause = err
	return e
}

func newError(errorType ErrorType, severity ErrorSeverity, code, message string) *ExecutionError {
	if severity == "" {
		severity = defaultSeverity[errorType]
	}
	return &ExecutionError{Type: errorType, Code: code, Severity: severity, Message: message}
}

// NewRuntimeError creates an error raised while a program runs
func NewRuntimeError(code, message string) *ExecutionError {
	return newError(ErrorTypeRuntime, "", code, message)
}

// NewValidationError creates an error for rejected configuration or input
func NewValidationError(code, message string) *ExecutionError {
	return newError(ErrorTypeValidation, "", code, message)
}

// NewSystemError creates an error for I/O and environment failures
func NewSystemError(code, message string) *ExecutionError {
	return newError(ErrorTypeSystem, "", code, message)
}

// WrapError wraps err as a system error
func WrapError(err error, code, message string) *ExecutionError {
	return NewSystemError(code, message).Wrap(err)
}

// AsExecutionError finds an ExecutionError in err's chain
func AsExecutionError(err error) (*ExecutionError, bool) {
	var execErr *ExecutionError
	if stderrors.As(err, &execErr) {
		return execErr, true
	}
	return nil, false
}

// Is and As re-export the standard helpers for callers that import this
// package as "errors".
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }
