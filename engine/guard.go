package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"abapsim/errors"
)

// loopGuard aborts a run that exceeds its step, time or output budget.
type loopGuard struct {
	ctx            context.Context
	maxSteps       int64
	timeout        time.Duration
	maxOutputLines int
	started        time.Time
	steps          int64
}

func newLoopGuard(ctx context.Context, config ExecutionEngineConfig) *loopGuard {
	return &loopGuard{
		ctx:            ctx,
		maxSteps:       config.MaxSteps,
		timeout:        config.Timeout,
		maxOutputLines: config.MaxOutputLines,
		started:        time.Now(),
	}
}

// step accounts for one executed statement
func (g *loopGuard) step(line int) error {
	g.steps++
	if g.maxSteps > 0 && g.steps > g.maxSteps {
		return &errors.ResourceExceededError{
			Limit:   errors.LimitSteps,
			Max:     g.maxSteps,
			Steps:   g.steps - 1,
			Line:    line,
			Elapsed: time.Since(g.started),
		}
	}

	select {
	case <-g.ctx.Done():
		err := g.ctx.Err()
		if stderrors.Is(err, context.DeadlineExceeded) {
			return &errors.ResourceExceededError{
				Limit:   errors.LimitTimeout,
				Max:     int64(g.timeout),
				Steps:   g.steps - 1,
				Line:    line,
				Elapsed: time.Since(g.started),
			}
		}
		return fmt.Errorf("run cancelled at line %d: %w", line, err)
	default:
		return nil
	}
}

// output accounts for the output line count after an append
func (g *loopGuard) output(lines, line int) error {
	if g.maxOutputLines > 0 && lines > g.maxOutputLines {
		return &errors.ResourceExceededError{
			Limit:   errors.LimitOutput,
			Max:     int64(g.maxOutputLines),
			Steps:   g.steps,
			Line:    line,
			Elapsed: time.Since(g.started),
		}
	}
	return nil
}

func (g *loopGuard) elapsed() time.Duration {
	return time.Since(g.started)
}
