package stats

import (
	"context"
	"fmt"
	"time"
)

// TaskType is the phase of a job a task belongs to.
type TaskType int

const (
	TaskSetup TaskType = iota
	TaskMapper
	TaskReducer
	TaskCleanup
)

func (t TaskType) String() string {
	switch t {
	case TaskSetup:
		return "setup"
	case TaskMapper:
		return "mapper"
	case TaskReducer:
		return "reducer"
	case TaskCleanup:
		return "cleanup"
	default:
		return fmt.Sprintf("task(%d)", int(t))
	}
}

// TaskStatus is the outcome of a task attempt.
type TaskStatus string

const (
	StatusSucceeded TaskStatus = "SUCCEEDED"
	StatusFailed    TaskStatus = "FAILED"
	StatusKilled    TaskStatus = "KILLED"
	StatusObsolete  TaskStatus = "OBSOLETE"
	StatusTipFailed TaskStatus = "TIPFAILED"
)

// TaskReport describes one task as listed by the backend.
type TaskReport struct {
	ID     string
	Start  time.Time
	Finish time.Time
	State  string
}

// CompletionEvent tells how a task attempt ended.
type CompletionEvent struct {
	TaskID string
	Map    bool
	Status TaskStatus
}

// JobConfig is the configuration a job ran with.
type JobConfig struct {
	NumMapTasks    int
	NumReduceTasks int
}

// JobClient is the execution backend as seen by the collector.
type JobClient interface {
	JobConfig(ctx context.Context, jobID string) (JobConfig, error)
	// TaskReports lists the tasks of one phase of the job.
	TaskReports(ctx context.Context, jobID string, taskType TaskType) ([]TaskReport, error)
	// CompletionEvents returns the completion events starting at index from. An empty page ends the listing.
	CompletionEvents(ctx context.Context, jobID string, from int) ([]CompletionEvent, error)
	Counter(ctx context.Context, jobID, group, name string) (int64, error)
}
