package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/viewer"
)

// ExportUseCase converts many reports in parallel, one session per report
type ExportUseCase struct {
	loader     domain.ReportLoader
	formatter  domain.TableWriter
	executor   domain.ParallelExecutor
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewExportUseCase creates a new export use case
func NewExportUseCase(loader domain.ReportLoader, formatter domain.TableWriter, executor domain.ParallelExecutor) *ExportUseCase {
	return &ExportUseCase{
		loader:     loader,
		formatter:  formatter,
		executor:   executor,
		fileHelper: NewFileHelper(),
		logger:     slog.Default(),
	}
}

// Execute collects the reports named by req and writes each one converted
// to req.OutputFormat. A failing report does not stop the others; its
// error is recorded in its result.
func (uc *ExportUseCase) Execute(ctx context.Context, req domain.ExportRequest) (*domain.ExportResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	files, err := uc.fileHelper.CollectReportFiles(req.Paths, req.Recursive, req.ExcludePatterns, req.RespectGitignore)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to collect reports", err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no report files found in the specified paths", nil)
	}

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return nil, domain.NewOutputError("cannot create output directory "+req.OutputDir, err)
		}
	}

	outputs := uc.fileHelper.OutputPaths(files, req.OutputDir, req.OutputFormat.Extension())
	tasks := make([]domain.ExecutableTask, 0, len(files))
	exports := make([]*exportTask, 0, len(files))
	for i, file := range files {
		t := &exportTask{
			uc:     uc,
			req:    req,
			report: file,
			output: outputs[i],
		}
		tasks = append(tasks, t)
		exports = append(exports, t)
	}

	execErr := uc.executor.Execute(ctx, tasks)

	response := &domain.ExportResponse{Results: make([]domain.ExportResult, 0, len(exports))}
	for _, t := range exports {
		result := t.result()
		if result.Error != "" {
			response.Failed++
		} else {
			response.Succeeded++
		}
		response.Results = append(response.Results, result)
	}

	// failures that could not be attributed to a report
	if execErr != nil && response.Failed == 0 {
		return response, execErr
	}
	if errors.Is(execErr, context.Canceled) {
		return response, execErr
	}
	return response, nil
}

func (uc *ExportUseCase) validateRequest(req domain.ExportRequest) error {
	if len(req.Paths) == 0 {
		return domain.NewInvalidInputError("no input paths specified", nil)
	}
	if !req.OutputFormat.IsValid() {
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}
	for _, col := range req.SortClicks {
		if !col.IsValid() {
			return &domain.SortKeyError{Column: col, Direction: domain.Ascending}
		}
	}
	return nil
}

// convert renders one report into its own session and writes it to output
func (uc *ExportUseCase) convert(ctx context.Context, req domain.ExportRequest, report, output string) (int, error) {
	doc, err := uc.loader.Load(ctx, report)
	if err != nil {
		return 0, err
	}

	session, err := viewer.NewSession(viewer.WithLocale(req.Locale), viewer.WithLogger(uc.logger))
	if err != nil {
		return 0, err
	}
	table, err := session.Load(report, doc)
	if err != nil {
		return 0, err
	}
	for _, col := range req.SortClicks {
		if table, err = session.RequestSort(col); err != nil {
			return 0, err
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := writeTableFile(uc.formatter, output, table, session.Meta(), req.OutputFormat); err != nil {
		return 0, err
	}

	uc.logger.Debug("Exported report", "report", report, "output", output, "violations", len(table.Rows))
	return len(table.Rows), nil
}

// exportTask adapts one report conversion to domain.ExecutableTask
type exportTask struct {
	uc     *ExportUseCase
	req    domain.ExportRequest
	report string
	output string

	violations int
	err        error
	ran        bool
}

func (t *exportTask) Name() string    { return t.report }
func (t *exportTask) IsEnabled() bool { return true }

func (t *exportTask) Execute(ctx context.Context) (interface{}, error) {
	t.ran = true
	t.violations, t.err = t.uc.convert(ctx, t.req, t.report, t.output)
	return t.violations, t.err
}

func (t *exportTask) result() domain.ExportResult {
	result := domain.ExportResult{ReportPath: t.report}
	switch {
	case t.err != nil:
		result.Error = t.err.Error()
	case !t.ran:
		result.Error = "not exported"
	default:
		result.OutputPath = t.output
		result.Violations = t.violations
	}
	return result
}

// ExportUseCaseBuilder provides a builder pattern for creating ExportUseCase
type ExportUseCaseBuilder struct {
	loader     domain.ReportLoader
	formatter  domain.TableWriter
	executor   domain.ParallelExecutor
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewExportUseCaseBuilder creates a new builder
func NewExportUseCaseBuilder() *ExportUseCaseBuilder {
	return &ExportUseCaseBuilder{}
}

// WithLoader sets the report loader
func (b *ExportUseCaseBuilder) WithLoader(loader domain.ReportLoader) *ExportUseCaseBuilder {
	b.loader = loader
	return b
}

// WithFormatter sets the table writer
func (b *ExportUseCaseBuilder) WithFormatter(formatter domain.TableWriter) *ExportUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithExecutor sets the parallel executor
func (b *ExportUseCaseBuilder) WithExecutor(executor domain.ParallelExecutor) *ExportUseCaseBuilder {
	b.executor = executor
	return b
}

// WithFileHelper sets the file helper
func (b *ExportUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ExportUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithLogger sets the logger
func (b *ExportUseCaseBuilder) WithLogger(logger *slog.Logger) *ExportUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the ExportUseCase with the configured dependencies
func (b *ExportUseCaseBuilder) Build() (*ExportUseCase, error) {
	if b.loader == nil {
		return nil, fmt.Errorf("report loader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("table writer is required")
	}
	if b.executor == nil {
		return nil, fmt.Errorf("parallel executor is required")
	}

	uc := NewExportUseCase(b.loader, b.formatter, b.executor)
	if b.fileHelper != nil {
		uc.fileHelper = b.fileHelper
	}
	if b.logger != nil {
		uc.logger = b.logger
	}
	return uc, nil
}
