package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Step is the planned step the statistics are collected for.
type Step interface {
	ID() string
	Name() string
}

// TaskStats is the statistics of one task.
type TaskStats struct {
	Type   TaskType
	ID     string
	Start  time.Time
	Finish time.Time
	Status TaskStatus
	State  string
}

// Duration is the time the task ran, zero when the task has no timing.
func (t TaskStats) Duration() time.Duration {
	if t.Start.IsZero() || t.Finish.Before(t.Start) {
		return 0
	}

	return t.Finish.Sub(t.Start)
}

// TaskSummary aggregates the tasks of one type.
type TaskSummary struct {
	Count       int
	Failed      int
	AvgDuration time.Duration
}

// Option configures a StepStats.
type Option func(s *StepStats)

// WithLogger sets the logger reporting listing failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *StepStats) {
		s.log = log
	}
}

// WithEventPageSize sets how many completion events the backend returns per page.
func WithEventPageSize(size int) Option {
	return func(s *StepStats) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// StepStats collects the statistics of the job running one step.
type StepStats struct {
	step     Step
	jobID    string
	client   JobClient
	log      *slog.Logger
	pageSize int

	mu             sync.Mutex
	numMapTasks    int
	numReduceTasks int
	tasks          []TaskStats
}

func New(step Step, jobID string, client JobClient, opts ...Option) (*StepStats, error) {
	if step == nil {
		return nil, ErrStepMustBeSet
	}
	if client == nil {
		return nil, ErrClientMustBeSet
	}
	s := &StepStats{
		step:     step,
		jobID:    jobID,
		client:   client,
		log:      slog.New(slog.DiscardHandler),
		pageSize: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("step_id", step.ID(), "job_id", jobID)

	return s, nil
}

// StepID is the id of the planned step, the key correlating these statistics with the plan.
func (s *StepStats) StepID() string {
	return s.step.ID()
}

func (s *StepStats) StepName() string {
	return s.step.Name()
}

func (s *StepStats) NumMapTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.numMapTasks
}

func (s *StepStats) NumReduceTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.numReduceTasks
}

// Tasks returns the collected task statistics: the reports in phase order, then the failed attempts.
func (s *StepStats) Tasks() []TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]TaskStats(nil), s.tasks...)
}

// CaptureJobStats records the number of tasks the job was configured with.
func (s *StepStats) CaptureJobStats(ctx context.Context) error {
	conf, err := s.client.JobConfig(ctx, s.jobID)
	if err != nil {
		return errors.Wrapf(err, "unable to get configuration of job %s", s.jobID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.numMapTasks = conf.NumMapTasks
	s.numReduceTasks = conf.NumReduceTasks

	return nil
}

// CaptureDetail replaces the collected task statistics with a fresh listing. A phase that
// cannot be listed is logged and skipped, the other phases are still collected.
func (s *StepStats) CaptureDetail(ctx context.Context) {
	phases := []struct {
		taskType TaskType
		skipLast bool
	}{
		{TaskSetup, true},
		{TaskMapper, false},
		{TaskReducer, false},
		{TaskCleanup, true},
	}

	reports := make([][]TaskStats, len(phases))
	var g errgroup.Group
	for i, phase := range phases {
		g.Go(func() error {
			list, err := s.client.TaskReports(ctx, s.jobID, phase.taskType)
			if err != nil {
				s.log.WarnContext(ctx, "unable to get task reports", "type", phase.taskType, "error", err)

				return nil
			}
			// setup and cleanup list the attempt of the job itself last
			if phase.skipLast && len(list) > 0 {
				list = list[:len(list)-1]
			}
			for _, report := range list {
				reports[i] = append(reports[i], TaskStats{
					Type:   phase.taskType,
					ID:     report.ID,
					Start:  report.Start,
					Finish: report.Finish,
					Status: StatusSucceeded,
					State:  report.State,
				})
			}

			return nil
		})
	}
	_ = g.Wait()

	var tasks []TaskStats
	for _, list := range reports {
		tasks = append(tasks, list...)
	}
	tasks = append(tasks, s.failedAttempts(ctx)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
}

// failedAttempts pages through the completion events and keeps the attempts that did not succeed.
func (s *StepStats) failedAttempts(ctx context.Context) []TaskStats {
	var res []TaskStats
	for from := 0; ; from += s.pageSize {
		events, err := s.client.CompletionEvents(ctx, s.jobID, from)
		if err != nil {
			s.log.WarnContext(ctx, "unable to get task completion events", "from", from, "error", err)

			return res
		}
		if len(events) == 0 {
			return res
		}
		for _, event := range events {
			if event.Status == StatusSucceeded {
				continue
			}
			taskType := TaskReducer
			if event.Map {
				taskType = TaskMapper
			}
			res = append(res, TaskStats{Type: taskType, ID: event.TaskID, Status: event.Status})
		}
	}
}

// Elapsed is the wall time of the job, from the first task start to the last task finish.
func (s *StepStats) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first, last time.Time
	for _, task := range s.tasks {
		if task.Duration() == 0 {
			continue
		}
		if first.IsZero() || task.Start.Before(first) {
			first = task.Start
		}
		if task.Finish.After(last) {
			last = task.Finish
		}
	}

	return round(last.Sub(first))
}

// Counter returns the value of a job counter.
func (s *StepStats) Counter(ctx context.Context, group, name string) (int64, error) {
	v, err := s.client.Counter(ctx, s.jobID, group, name)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to get counter values of %s.%s", group, name)
	}

	return v, nil
}

// Summary aggregates the collected tasks per type. Durations are averaged over the timed tasks.
func (s *StepStats) Summary() map[TaskType]TaskSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make(map[TaskType]TaskSummary)
	elapsed := make(map[TaskType]time.Duration)
	timed := make(map[TaskType]int)
	for _, task := range s.tasks {
		sum := res[task.Type]
		sum.Count++
		if task.Status != StatusSucceeded {
			sum.Failed++
		}
		if d := task.Duration(); d > 0 {
			elapsed[task.Type] += d
			timed[task.Type]++
		}
		res[task.Type] = sum
	}
	for taskType, sum := range res {
		if timed[taskType] > 0 {
			sum.AvgDuration = round(time.Duration(float64(elapsed[taskType]) / float64(timed[taskType])))
		}
		res[taskType] = sum
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}
