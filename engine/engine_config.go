package engine

import (
	"time"

	"abapsim/logging"
)

// Default guard limits
const (
	DefaultMaxSteps       int64 = 100000
	DefaultTimeout              = 5 * time.Second
	DefaultMaxOutputLines       = 10000
)

// ExecutionEngineConfig contains configuration for the execution engine
type ExecutionEngineConfig struct {
	// MaxSteps bounds the number of executed statements; 0 disables the bound
	MaxSteps int64
	// Timeout bounds wall-clock time of one run; 0 disables the bound
	Timeout time.Duration
	// MaxOutputLines bounds the number of output lines; 0 disables the bound
	MaxOutputLines int
	// ShallowBranchSkip restores the legacy rule that only the innermost
	// IF/CASE frame decides whether WRITE is suppressed
	ShallowBranchSkip bool
	// Logger receives statement traces and warnings; nil discards them
	Logger logging.Logger
}

// DefaultConfig returns the configuration used by the package-level Run
func DefaultConfig() ExecutionEngineConfig {
	return ExecutionEngineConfig{
		MaxSteps:       DefaultMaxSteps,
		Timeout:        DefaultTimeout,
		MaxOutputLines: DefaultMaxOutputLines,
	}
}

func (c ExecutionEngineConfig) logger() logging.Logger {
	if c.Logger == nil {
		return logging.NewNopLogger()
	}
	return c.Logger
}
