package viewer

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/ludo-technologies/pmdview/domain"
)

// Session is the state behind one violations view: the flattened report,
// its current ordering and the per-column sort memory. A host owns one
// Session per window; sessions share nothing.
type Session struct {
	id       string
	source   string
	files    int
	records  []domain.Violation
	current  []domain.Violation
	order    []int
	state    *SortState
	sorter   *Sorter
	lastSort *domain.SortApplied
	loaded   bool
	logger   *slog.Logger
}

// SessionOption configures a Session
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	locale string
	logger *slog.Logger
}

// WithLocale sets the locale used for class name and description ordering
func WithLocale(locale string) SessionOption {
	return func(o *sessionOptions) {
		o.locale = locale
	}
}

// WithLogger sets the logger used for session events
func WithLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// NewSession creates an empty session with no report loaded
func NewSession(opts ...SessionOption) (*Session, error) {
	o := sessionOptions{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	sorter, err := NewSorter(o.locale)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:     uuid.NewString(),
		state:  NewSortState(),
		sorter: sorter,
		logger: o.logger,
	}, nil
}

// ID returns the identifier of the current report session
func (s *Session) ID() string {
	return s.id
}

// Source returns the path of the loaded report
func (s *Session) Source() string {
	return s.source
}

// Loaded reports whether a report has been loaded
func (s *Session) Loaded() bool {
	return s.loaded
}

// FileCount returns the number of file entries in the loaded report
func (s *Session) FileCount() int {
	return s.files
}

// Records returns a copy of the records in their current order
func (s *Session) Records() []domain.Violation {
	return slices.Clone(s.current)
}

// LastSort returns the most recent successful sort request, if any
func (s *Session) LastSort() *domain.SortApplied {
	if s.lastSort == nil {
		return nil
	}
	applied := *s.lastSort
	return &applied
}

// SortState exposes the per-column sort memory of the session
func (s *Session) SortState() *SortState {
	return s.state
}

// Table renders the current ordering
func (s *Session) Table() domain.Table {
	return buildTable(s.current, s.order)
}

// Load flattens doc and makes it the session's report, replacing any
// previous one entirely and starting fresh sort state. If doc is
// malformed the session is left exactly as it was.
func (s *Session) Load(source string, doc *domain.ReportDocument) (domain.Table, error) {
	records, err := Flatten(doc)
	if err != nil {
		s.logger.Warn("Report rejected", "source", source, "error", err)
		return domain.Table{}, err
	}

	s.id = uuid.NewString()
	s.source = source
	s.files = len(doc.Files)
	s.records = records
	s.current = records
	s.order = nil
	s.state = NewSortState()
	s.lastSort = nil
	s.loaded = true

	s.logger.Debug("Report loaded",
		"session", s.id,
		"source", source,
		"files", s.files,
		"violations", len(records))

	return s.Table(), nil
}

// RequestSort handles a click on a column header: it sorts the flattened
// report in the column's next direction, flips that column's memory and
// renders the result. The memory only changes when the sort succeeds.
func (s *Session) RequestSort(col domain.Column) (domain.Table, error) {
	dir, err := s.state.NextDirection(col)
	if err != nil {
		return domain.Table{}, err
	}

	order, err := s.sorter.Order(s.records, col, dir)
	if err != nil {
		return domain.Table{}, err
	}

	if err := s.state.Toggle(col); err != nil {
		return domain.Table{}, err
	}
	sorted := make([]domain.Violation, len(order))
	for i, idx := range order {
		sorted[i] = s.records[idx]
	}
	s.current = sorted
	s.order = order
	s.lastSort = &domain.SortApplied{Column: col, Direction: dir}

	attrs := []any{"session", s.id, "column", col, "direction", dir}
	if len(sorted) > 0 {
		attrs = append(attrs, "first", sorted[0].Location())
	}
	s.logger.Debug("Sorted violations", attrs...)

	return s.Table(), nil
}

// Meta returns the descriptive data formatters print next to the table
func (s *Session) Meta() domain.TableMeta {
	return domain.TableMeta{
		SessionID:  s.id,
		Source:     s.source,
		TotalFiles: s.files,
		LastSort:   s.LastSort(),
		NextSort:   s.state.Snapshot(),
	}
}
