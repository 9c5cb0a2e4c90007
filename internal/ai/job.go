package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// JobState is the state of an asynchronous generation job.
type JobState string

const (
	JobSubmitted JobState = "submitted"
	JobPolling   JobState = "polling"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobTimedOut  JobState = "timed_out"
)

// Terminal reports whether the job will not change state anymore.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobTimedOut
}

// JobError describes a job that did not complete.
type JobError struct {
	State    JobState
	Attempts int
	Reason   string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("generation job %s after %d polls: %s", e.State, e.Attempts, e.Reason)
}

// Job tracks one submitted run.
type Job struct {
	ThreadID string
	RunID    string
	State    JobState
	Polls    int
	Reason   string
}

// Status is what a single poll learned about the remote run.
type Status struct {
	Done   bool
	Failed bool
	Reason string
}

// Poller waits for a job with a fixed interval and a bounded number of polls.
// Once started it runs until a terminal state; cancellation is only checked between polls.
type Poller struct {
	Clock    clock.Clock
	Interval time.Duration
	MaxPolls int
}

// Wait moves the job from Submitted through Polling to a terminal state.
func (p Poller) Wait(ctx context.Context, job *Job, check func(ctx context.Context) (Status, error)) error {
	if job.State != JobSubmitted {
		return fmt.Errorf("job %s is %s, not submitted", job.RunID, job.State)
	}
	job.State = JobPolling

	for job.Polls < p.MaxPolls {
		p.Clock.Sleep(p.Interval)
		if err := ctx.Err(); err != nil {
			return p.finish(job, JobFailed, err.Error())
		}

		job.Polls++
		status, err := check(ctx)
		switch {
		case err != nil:
			return p.finish(job, JobFailed, err.Error())
		case status.Failed:
			return p.finish(job, JobFailed, status.Reason)
		case status.Done:
			job.State = JobCompleted
			return nil
		}
	}

	return p.finish(job, JobTimedOut, fmt.Sprintf("no result after %s", time.Duration(p.MaxPolls)*p.Interval))
}

func (p Poller) finish(job *Job, state JobState, reason string) error {
	job.State = state
	job.Reason = reason
	return &JobError{State: state, Attempts: job.Polls, Reason: reason}
}
