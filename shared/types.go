package shared

import (
	"abapsim/engine"
	"abapsim/errors"
)

// RunResult is the response shape of one interpretation request. Output is
// null whenever the program did not run to completion.
type RunResult struct {
	Source   string                  `json:"source,omitempty" yaml:"source,omitempty"`
	Output   *string                 `json:"output" yaml:"output"`
	Errors   []errors.SyntaxError    `json:"errors" yaml:"errors"`
	Warnings []errors.RuntimeWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Failure  *Failure                `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Failure describes why a syntactically clean program produced no output
type Failure struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// NewRunResult builds the response for an engine outcome. Warnings are
// carried only when withWarnings is set.
func NewRunResult(source string, res *engine.Result, err error, withWarnings bool) RunResult {
	out := RunResult{Source: source, Errors: []errors.SyntaxError{}}
	if res != nil {
		out.Output = res.Output
		out.Errors = append(out.Errors, res.Errors...)
		if withWarnings {
			out.Warnings = res.Warnings
		}
	}
	if err != nil {
		out.Output = nil
		out.Failure = failureOf(err)
	}
	return out
}

// NewCheckResult builds the response for a check-only request
func NewCheckResult(source string, errs errors.SyntaxErrors) RunResult {
	out := RunResult{Source: source, Errors: []errors.SyntaxError{}}
	out.Errors = append(out.Errors, errs...)
	return out
}

// NewFailedResult reports a request that never reached the engine
func NewFailedResult(source string, err error) RunResult {
	return RunResult{Source: source, Errors: []errors.SyntaxError{}, Failure: failureOf(err)}
}

func failureOf(err error) *Failure {
	var exceeded *errors.ResourceExceededError
	if errors.As(err, &exceeded) {
		return &Failure{Code: errors.CodeResourceExceeded, Message: exceeded.Error(), Line: exceeded.Line}
	}
	if execErr, ok := errors.AsExecutionError(err); ok {
		return &Failure{Code: execErr.Code, Message: execErr.Message, Line: execErr.Line}
	}
	return &Failure{Code: errors.CodeRunFailed, Message: err.Error()}
}

// ExitCode maps the result to the CLI exit status
func (r RunResult) ExitCode() int {
	switch {
	case len(r.Errors) > 0:
		return errors.ExitSyntaxErrors
	case r.Failure == nil:
		return errors.ExitOK
	case r.Failure.Code == errors.CodeResourceExceeded:
		return errors.ExitResourceExceeded
	default:
		return errors.ExitFailure
	}
}

// Succeeded reports whether the program ran and produced output
func (r RunResult) Succeeded() bool {
	return r.Output != nil && r.Failure == nil
}
