package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// stepClock advances the mock instead of blocking in Sleep.
type stepClock struct {
	*clock.Mock
}

func (c stepClock) Sleep(d time.Duration) {
	c.Mock.Add(d)
}

func TestPollerWait(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []Status
		checkErr  error
		wantState JobState
		wantPolls int
	}{
		{
			name:      "completes on third poll",
			statuses:  []Status{{}, {}, {Done: true}},
			wantState: JobCompleted,
			wantPolls: 3,
		},
		{
			name:      "remote failure",
			statuses:  []Status{{}, {Failed: true, Reason: "expired"}},
			wantState: JobFailed,
			wantPolls: 2,
		},
		{
			name:      "times out",
			statuses:  []Status{{}, {}, {}, {}, {}},
			wantState: JobTimedOut,
			wantPolls: 4,
		},
		{
			name:      "check error",
			checkErr:  errors.New("boom"),
			wantState: JobFailed,
			wantPolls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := stepClock{clock.NewMock()}
			start := clk.Now()
			poller := Poller{Clock: clk, Interval: 3 * time.Second, MaxPolls: 4}
			job := &Job{RunID: "run_1", State: JobSubmitted}

			calls := 0
			err := poller.Wait(context.Background(), job, func(context.Context) (Status, error) {
				calls++
				if tt.checkErr != nil {
					return Status{}, tt.checkErr
				}
				return tt.statuses[calls-1], nil
			})

			if job.State != tt.wantState {
				t.Errorf("state = %s, want %s", job.State, tt.wantState)
			}
			if job.Polls != tt.wantPolls {
				t.Errorf("polls = %d, want %d", job.Polls, tt.wantPolls)
			}
			if elapsed := clk.Now().Sub(start); elapsed != time.Duration(tt.wantPolls)*3*time.Second {
				t.Errorf("elapsed = %s", elapsed)
			}

			if tt.wantState == JobCompleted {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var jobErr *JobError
			if !errors.As(err, &jobErr) || jobErr.State != tt.wantState || jobErr.Attempts != tt.wantPolls {
				t.Errorf("error = %v, want JobError in state %s", err, tt.wantState)
			}
		})
	}
}

func TestPollerWait_RejectsStartedJob(t *testing.T) {
	poller := Poller{Clock: stepClock{clock.NewMock()}, Interval: time.Second, MaxPolls: 1}
	job := &Job{RunID: "run_1", State: JobCompleted}

	err := poller.Wait(context.Background(), job, func(context.Context) (Status, error) {
		t.Fatal("check must not be called")
		return Status{}, nil
	})
	if err == nil {
		t.Error("expected error for a job that is not submitted")
	}
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		status     string
		wantDone   bool
		wantFailed bool
	}{
		{"queued", false, false},
		{"in_progress", false, false},
		{"cancelling", false, false},
		{"completed", true, false},
		{"failed", false, true},
		{"cancelled", false, true},
		{"expired", false, true},
		{"incomplete", false, true},
		{"requires_action", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := runStatus(object{Status: tt.status})
			if got.Done != tt.wantDone || got.Failed != tt.wantFailed {
				t.Errorf("runStatus(%s) = %+v", tt.status, got)
			}
		})
	}
}
