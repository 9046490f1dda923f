// Package jobmanager runs batch interpretations with a bounded number of
// concurrent executions and hands results back in submission order.
package jobmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"abapsim/logging"
	"abapsim/shared"
)

// ErrShuttingDown is returned by Submit after Shutdown
var ErrShuttingDown = errors.New("job manager is shutting down")

const notifyBuffer = 100

// JobNotification reports a finished job
type JobNotification struct {
	JobID  JobID
	Status JobStatus
	Source string
}

// JobManager runs interpretation jobs with bounded concurrency. Job IDs are
// 1-based positions in the submission order.
type JobManager struct {
	mu     sync.RWMutex
	jobs   []*Job
	closed bool

	slots    chan struct{}
	done     chan struct{}
	notify   chan JobNotification
	wg       sync.WaitGroup
	shutdown sync.Once
	logger   logging.Logger
}

// NewJobManager creates a JobManager running at most concurrencyLimit jobs
// at once. A limit below 1 is treated as 1.
func NewJobManager(concurrencyLimit int, logger logging.Logger) *JobManager {
	if concurrencyLimit < 1 {
		concurrencyLimit = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobManager{
		slots:  make(chan struct{}, concurrencyLimit),
		done:   make(chan struct{}),
		notify: make(chan JobNotification, notifyBuffer),
		logger: logger.WithComponent("jobmanager"),
	}
}

// Submit registers a job and starts it once a slot is free. It blocks while
// every slot is busy, until ctx is done or the manager shuts down. The task
// receives ctx.
func (jm *JobManager) Submit(ctx context.Context, source string, task Task) (JobID, error) {
	select {
	case <-jm.done:
		return 0, ErrShuttingDown
	default:
	}

	select {
	case jm.slots <- struct{}{}:
	case <-ctx.Done():
		return 0, fmt.Errorf("submit %s: %w", source, ctx.Err())
	case <-jm.done:
		return 0, ErrShuttingDown
	}

	jm.mu.Lock()
	if jm.closed {
		jm.mu.Unlock()
		<-jm.slots
		return 0, ErrShuttingDown
	}
	job := NewJob(JobID(len(jm.jobs)+1), source)
	jm.jobs = append(jm.jobs, job)
	jm.wg.Add(1)
	jm.mu.Unlock()

	go jm.execute(ctx, job, task)
	return job.ID, nil
}

func (jm *JobManager) execute(ctx context.Context, job *Job, task Task) {
	defer jm.wg.Done()
	defer func() { <-jm.slots }()

	job.start()
	result, err := task(ctx)
	job.complete(result, err)

	status := job.GetStatus()
	jm.logger.Debug("job finished",
		logging.Int64Field("job", int64(job.ID)),
		logging.StringField("source", job.Source),
		logging.StringField("status", string(status)),
		logging.IntField("exit_code", result.ExitCode()),
		logging.DurationField("elapsed", job.GetDuration()))

	// best effort; nobody is required to drain notifications
	select {
	case jm.notify <- JobNotification{JobID: job.ID, Status: status, Source: job.Source}:
	default:
	}
}

// GetJob returns the job with id
func (jm *JobManager) GetJob(id JobID) (*Job, error) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	if id < 1 || int(id) > len(jm.jobs) {
		return nil, fmt.Errorf("job with ID %d not found", id)
	}
	return jm.jobs[id-1], nil
}

// ListJobs returns all jobs in submission order
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return append([]*Job(nil), jm.jobs...)
}

// Wait blocks until every submitted job has finished
func (jm *JobManager) Wait() {
	jm.wg.Wait()
}

// Results waits for all jobs and returns their results in submission order
func (jm *JobManager) Results() []shared.RunResult {
	jm.Wait()
	jobs := jm.ListJobs()
	results := make([]shared.RunResult, len(jobs))
	for i, job := range jobs {
		results[i] = job.GetResult()
	}
	return results
}

// GetNotificationChannel returns the channel of finished-job notifications.
// It is closed by Shutdown.
func (jm *JobManager) GetNotificationChannel() <-chan JobNotification {
	return jm.notify
}

// GetRunningJobsCount returns the number of jobs currently executing
func (jm *JobManager) GetRunningJobsCount() int {
	count := 0
	for _, job := range jm.ListJobs() {
		if job.GetStatus() == StatusRunning {
			count++
		}
	}
	return count
}

// GetConcurrencyLimit returns the number of slots
func (jm *JobManager) GetConcurrencyLimit() int {
	return cap(jm.slots)
}

// Shutdown rejects new jobs, waits for running ones and closes the
// notification channel. Calling it again is a no-op.
func (jm *JobManager) Shutdown() {
	jm.shutdown.Do(func() {
		jm.mu.Lock()
		jm.closed = true
		jm.mu.Unlock()
		close(jm.done)
		jm.wg.Wait()
		close(jm.notify)
	})
}
