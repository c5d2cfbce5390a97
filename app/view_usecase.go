package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/viewer"
)

// ViewUseCase loads one report, replays sort clicks and writes the table
type ViewUseCase struct {
	loader    domain.ReportLoader
	formatter domain.TableWriter
	store     domain.LastFileStore
	logger    *slog.Logger
}

// NewViewUseCase creates a new view use case
func NewViewUseCase(loader domain.ReportLoader, formatter domain.TableWriter, store domain.LastFileStore) *ViewUseCase {
	if store == nil {
		store = noLastFile{}
	}
	return &ViewUseCase{
		loader:    loader,
		formatter: formatter,
		store:     store,
		logger:    slog.Default(),
	}
}

// Execute opens the requested report (or the last opened one), applies
// the sort clicks in order and writes the resulting table.
// When there is nothing to open the response has Loaded=false.
func (uc *ViewUseCase) Execute(ctx context.Context, req domain.ViewRequest) (*domain.ViewResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	path, err := uc.resolveReportPath(req)
	if err != nil {
		return nil, err
	}
	if path == "" {
		uc.logger.Info("No report selected")
		return &domain.ViewResponse{Loaded: false}, nil
	}

	doc, err := uc.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	session, err := viewer.NewSession(viewer.WithLocale(req.Locale), viewer.WithLogger(uc.logger))
	if err != nil {
		return nil, err
	}
	table, err := session.Load(path, doc)
	if err != nil {
		return nil, err
	}

	for _, col := range req.SortClicks {
		if table, err = session.RequestSort(col); err != nil {
			return nil, err
		}
	}

	if err := uc.writeOutput(req, table, session.Meta()); err != nil {
		return nil, err
	}

	if err := uc.store.Save(path); err != nil {
		uc.logger.Warn("Failed to remember last report", "path", path, "error", err)
	}

	return &domain.ViewResponse{
		Loaded:     true,
		SessionID:  session.ID(),
		ReportPath: path,
		OutputPath: req.OutputPath,
		Table:      table,
	}, nil
}

func (uc *ViewUseCase) validateRequest(req domain.ViewRequest) error {
	if !req.OutputFormat.IsValid() {
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}
	for _, col := range req.SortClicks {
		if !col.IsValid() {
			return &domain.SortKeyError{Column: col, Direction: domain.Ascending}
		}
	}
	if req.OutputPath == "" && req.OutputWriter == nil {
		return domain.NewInvalidInputError("no output destination", nil)
	}
	return nil
}

func (uc *ViewUseCase) resolveReportPath(req domain.ViewRequest) (string, error) {
	if req.ReportPath != "" {
		return req.ReportPath, nil
	}
	if !req.UseLastFile {
		return "", nil
	}

	path, err := uc.store.Load()
	if err != nil {
		return "", domain.NewInvalidInputError("cannot read last opened report", err)
	}
	return path, nil
}

func (uc *ViewUseCase) writeOutput(req domain.ViewRequest, table domain.Table, meta domain.TableMeta) error {
	if req.OutputPath == "" {
		return uc.formatter.Write(table, meta, req.OutputFormat, req.OutputWriter)
	}
	return writeTableFile(uc.formatter, req.OutputPath, table, meta, req.OutputFormat)
}

// writeTableFile writes a table to path, creating or truncating it
func writeTableFile(formatter domain.TableWriter, path string, table domain.Table, meta domain.TableMeta, format domain.OutputFormat) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("cannot create %s", path), err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = domain.NewOutputError(fmt.Sprintf("cannot close %s", path), cerr)
		}
	}()

	return formatter.Write(table, meta, format, file)
}

// ViewUseCaseBuilder provides a builder pattern for creating ViewUseCase
type ViewUseCaseBuilder struct {
	loader    domain.ReportLoader
	formatter domain.TableWriter
	store     domain.LastFileStore
	logger    *slog.Logger
}

// NewViewUseCaseBuilder creates a new builder
func NewViewUseCaseBuilder() *ViewUseCaseBuilder {
	return &ViewUseCaseBuilder{}
}

// WithLoader sets the report loader
func (b *ViewUseCaseBuilder) WithLoader(loader domain.ReportLoader) *ViewUseCaseBuilder {
	b.loader = loader
	return b
}

// WithFormatter sets the table writer
func (b *ViewUseCaseBuilder) WithFormatter(formatter domain.TableWriter) *ViewUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithLastFileStore sets where the last opened report is remembered
func (b *ViewUseCaseBuilder) WithLastFileStore(store domain.LastFileStore) *ViewUseCaseBuilder {
	b.store = store
	return b
}

// WithLogger sets the logger
func (b *ViewUseCaseBuilder) WithLogger(logger *slog.Logger) *ViewUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the ViewUseCase with the configured dependencies
func (b *ViewUseCaseBuilder) Build() (*ViewUseCase, error) {
	if b.loader == nil {
		return nil, fmt.Errorf("report loader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("table writer is required")
	}

	uc := NewViewUseCase(b.loader, b.formatter, b.store)
	if b.logger != nil {
		uc.logger = b.logger
	}
	return uc, nil
}

// noLastFile is used when no store was configured
type noLastFile struct{}

func (noLastFile) Load() (string, error) { return "", nil }
func (noLastFile) Save(string) error     { return nil }
