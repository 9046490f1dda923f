package jobmanager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"abapsim/shared"
)

// JobID is a job's 1-based position in submission order
type JobID int64

// JobStatus is the lifecycle stage of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Task produces the result for one source. An error means the task could
// not produce a result at all; syntax errors and guard failures belong in
// the result.
type Task func(ctx context.Context) (shared.RunResult, error)

// Job is one source file being interpreted. ID and Source never change;
// the rest is read through the accessors.
type Job struct {
	ID     JobID
	Source string

	mu       sync.RWMutex
	status   JobStatus
	result   shared.RunResult
	err      error
	started  time.Time
	finished time.Time
}

// NewJob creates a pending job for source
func NewJob(id JobID, source string) *Job {
	return &Job{ID: id, Source: source, status: StatusPending}
}

func (j *Job) start() {
	j.mu.Lock()
	j.status = StatusRunning
	j.started = time.Now()
	j.mu.Unlock()
}

// complete records the outcome. A task error or a non-zero exit code
// (syntax errors, guard failures, unreadable files) fails the job.
func (j *Job) complete(result shared.RunResult, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result, j.err = result, err
	j.finished = time.Now()
	j.status = StatusCompleted
	if err != nil || result.ExitCode() != 0 {
		j.status = StatusFailed
	}
}

func (j *Job) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

func (j *Job) GetResult() shared.RunResult {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.result
}

func (j *Job) GetError() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// GetDuration returns the run time so far, or the total once finished
func (j *Job) GetDuration() time.Duration {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.elapsed()
}

func (j *Job) elapsed() time.Duration {
	if j.started.IsZero() {
		return 0
	}
	if j.finished.IsZero() {
		return time.Since(j.started)
	}
	return j.finished.Sub(j.started)
}

func (j *Job) String() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return fmt.Sprintf("job %d %s: %s in %s", j.ID, j.Source, j.status, j.elapsed())
}
