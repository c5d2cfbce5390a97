package app

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/viewer"
)

// BrowseUseCase keeps one viewer session alive across user actions:
// opening reports and clicking column headers
type BrowseUseCase struct {
	loader    domain.ReportLoader
	formatter domain.TableWriter
	store     domain.LastFileStore
	session   *viewer.Session
	logger    *slog.Logger
}

// NewBrowseUseCase creates a browse use case with an empty session
func NewBrowseUseCase(loader domain.ReportLoader, formatter domain.TableWriter, store domain.LastFileStore, locale string) (*BrowseUseCase, error) {
	logger := slog.Default()
	session, err := viewer.NewSession(viewer.WithLocale(locale), viewer.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = noLastFile{}
	}
	return &BrowseUseCase{
		loader:    loader,
		formatter: formatter,
		store:     store,
		session:   session,
		logger:    logger,
	}, nil
}

// Session exposes the underlying viewer session
func (uc *BrowseUseCase) Session() *viewer.Session {
	return uc.session
}

// Open replaces the current report with the one at path. An empty path
// returns domain.ErrEmptySelection. On any failure the previous table stays.
func (uc *BrowseUseCase) Open(ctx context.Context, path string) (domain.Table, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return uc.session.Table(), domain.ErrEmptySelection
	}

	doc, err := uc.loader.Load(ctx, path)
	if err != nil {
		uc.logger.Warn("Report not opened", "path", path, "error", err)
		return uc.session.Table(), err
	}

	table, err := uc.session.Load(path, doc)
	if err != nil {
		return uc.session.Table(), err
	}

	if err := uc.store.Save(path); err != nil {
		uc.logger.Warn("Failed to remember last report", "path", path, "error", err)
	}
	return table, nil
}

// OpenLast opens the last remembered report. It reports false when there is
// nothing to reopen.
func (uc *BrowseUseCase) OpenLast(ctx context.Context) (bool, error) {
	path, err := uc.store.Load()
	if err != nil {
		return false, err
	}
	if path == "" {
		return false, nil
	}
	if _, err := uc.Open(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}

// Sort handles a click on a column header
func (uc *BrowseUseCase) Sort(col domain.Column) (domain.Table, error) {
	return uc.session.RequestSort(col)
}

// Render writes the current table
func (uc *BrowseUseCase) Render(format domain.OutputFormat, w io.Writer) error {
	return uc.formatter.Write(uc.session.Table(), uc.session.Meta(), format, w)
}
