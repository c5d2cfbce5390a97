package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/config"
	"golang.org/x/sync/errgroup"
)

// Default values for parallel executor
const (
	DefaultMaxConcurrency = config.DefaultMaxConcurrency
	DefaultTimeout        = config.DefaultTimeoutSeconds * time.Second
)

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d reports failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes every task error to errors.Is/As
func (e *AggregatedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))
	for _, te := range e.Errors {
		errs = append(errs, te.Err)
	}
	return errs
}

// ParallelExecutorImpl implements domain.ParallelExecutor
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
	logger         *slog.Logger
	mu             sync.RWMutex
}

// NewParallelExecutor creates a new parallel executor with one worker per CPU
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    "Exporting reports",
		logger:         slog.Default(),
	}
}

// NewParallelExecutorFromConfig creates a parallel executor from export settings
func NewParallelExecutorFromConfig(cfg *config.ExportConfig) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	executor.maxConcurrency = DefaultMaxConcurrency
	if cfg.MaxConcurrency > 0 {
		executor.maxConcurrency = cfg.MaxConcurrency
	}
	if cfg.TimeoutSeconds > 0 {
		executor.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return executor
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(cfg *config.ExportConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	return executor
}

// Execute converts every enabled task, at most maxConcurrency at a time,
// within the configured timeout. One failing report never cancels the
// rest: failures come back together as an *AggregatedError, ordered by
// task name.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabledTasks := e.filterEnabledTasks(tasks)
	if len(enabledTasks) == 0 {
		return nil
	}

	e.mu.RLock()
	limit, timeout := e.maxConcurrency, e.timeout
	e.mu.RUnlock()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bar domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		bar = e.progress.StartTask(e.description, len(enabledTasks))
	}
	defer bar.Complete()

	g, gCtx := errgroup.WithContext(runCtx)
	g.SetLimit(limit)

	var (
		failedMu sync.Mutex
		failed   []TaskError
	)
	record := func(name string, err error) {
		failedMu.Lock()
		defer failedMu.Unlock()
		failed = append(failed, TaskError{TaskName: name, Err: err})
	}

	for _, t := range enabledTasks {
		g.Go(func() error {
			defer bar.Increment(1)

			if err := gCtx.Err(); err != nil {
				record(t.Name(), err)
				return nil
			}

			bar.Describe(t.Name())
			start := time.Now()
			_, err := t.Execute(gCtx)
			e.logger.Debug("Task finished", "task", t.Name(), "elapsed", time.Since(start), "error", err)
			if err != nil {
				record(t.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == 0 {
		return nil
	}
	slices.SortFunc(failed, func(a, b TaskError) int {
		return strings.Compare(a.TaskName, b.TaskName)
	})
	return &AggregatedError{Errors: failed}
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for all tasks
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

// SetLogger replaces the logger used for task failures
func (e *ParallelExecutorImpl) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
