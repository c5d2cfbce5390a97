package service

import (
	"io"
	"os"
	"sync"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ciEnvVars mark environments where progress bars only clutter logs
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return false
		}
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// ProgressManagerImpl renders export progress as bars on a writer
type ProgressManagerImpl struct {
	writer io.Writer
	mu     sync.Mutex
	tasks  []*progressbar.ProgressBar
}

// NewProgressManager creates a progress manager on stderr when enabled and
// attached to a terminal, otherwise a no-op manager
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr)
	}
	return &NoOpProgressManager{}
}

// NewProgressManagerWithWriter creates a progress manager drawing on w
func NewProgressManagerWithWriter(w io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: w}
}

// StartTask creates a bar counting reports
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(24),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	pm.mu.Lock()
	pm.tasks = append(pm.tasks, bar)
	pm.mu.Unlock()
	return &TaskProgressImpl{bar: bar}
}

// IsInteractive returns true if progress bars are drawn
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes every bar still running
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, bar := range pm.tasks {
		_ = bar.Finish()
	}
	pm.tasks = nil
}

// TaskProgressImpl implements TaskProgress with a progressbar
type TaskProgressImpl struct {
	bar *progressbar.ProgressBar
}

// Increment adds n finished reports
func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe shows the report currently being exported
func (tp *TaskProgressImpl) Describe(description string) {
	tp.bar.Describe(description)
}

// Complete marks the task as finished
func (tp *TaskProgressImpl) Complete() {
	_ = tp.bar.Finish()
}

// NoOpProgressManager implements ProgressManager with no-op methods
type NoOpProgressManager struct{}

// StartTask returns a no-op task progress
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

// IsInteractive returns false for no-op manager
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close is a no-op
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress implements TaskProgress with no-op methods
type NoOpTaskProgress struct{}

func (tp *NoOpTaskProgress) Increment(_ int)    {}
func (tp *NoOpTaskProgress) Describe(_ string) {}
func (tp *NoOpTaskProgress) Complete()         {}
