package domain

// ColumnHeader is one addressable header cell of a violations table.
// ID is what a host attaches its sort trigger to.
type ColumnHeader struct {
	ID    Column `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Cell holds the text shown for one column of one row
type Cell struct {
	Column Column `json:"column" yaml:"column"`
	Text   string `json:"text" yaml:"text"`
}

// Row is one violation rendered as table cells. Index is the violation's
// position in the flattened report, whatever the current ordering.
type Row struct {
	Index    int    `json:"index" yaml:"index"`
	FileName string `json:"file_name" yaml:"file_name"`
	Cells    []Cell `json:"cells" yaml:"cells"`
}

// Table is a renderer-agnostic violations table
type Table struct {
	Title   string         `json:"title" yaml:"title"`
	Columns []ColumnHeader `json:"columns" yaml:"columns"`
	Rows    []Row          `json:"rows" yaml:"rows"`
}

// Cell returns the text of the given column in the row
func (r Row) Cell(col Column) string {
	for _, c := range r.Cells {
		if c.Column == col {
			return c.Text
		}
	}
	return ""
}

// Header returns the header for a column and whether the table has it
func (t Table) Header(col Column) (ColumnHeader, bool) {
	for _, h := range t.Columns {
		if h.ID == col {
			return h, true
		}
	}
	return ColumnHeader{}, false
}

// IsEmpty reports whether the table has no data rows
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// SortApplied records one sort request that produced the current ordering
type SortApplied struct {
	Column    Column    `json:"column" yaml:"column"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// TableMeta carries the context written next to a table by formatters
type TableMeta struct {
	SessionID   string       `json:"session_id" yaml:"session_id"`
	Source      string       `json:"source" yaml:"source"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`
	TotalFiles  int          `json:"total_files" yaml:"total_files"`
	LastSort    *SortApplied `json:"last_sort,omitempty" yaml:"last_sort,omitempty"`

	// NextSort is the direction the next sort of each column will apply
	NextSort map[Column]Direction `json:"next_sort,omitempty" yaml:"next_sort,omitempty"`
}

// NextDirection returns the direction the next sort of col applies,
// ascending when it is not recorded
func (m TableMeta) NextDirection(col Column) Direction {
	if dir, ok := m.NextSort[col]; ok {
		return dir
	}
	return Ascending
}
