package viewer

import (
	"github.com/ludo-technologies/pmdview/domain"
)

// SortState remembers, per column, whether the next sort on that column
// is descending. Columns never share state and sorting one column leaves
// the others untouched.
type SortState struct {
	nextDescending map[domain.Column]bool
}

// NewSortState returns a state where every column sorts ascending next
func NewSortState() *SortState {
	s := &SortState{nextDescending: make(map[domain.Column]bool, len(domain.Columns()))}
	for _, col := range domain.Columns() {
		s.nextDescending[col] = false
	}
	return s
}

// NextDirection returns the direction the next sort on col should use
func (s *SortState) NextDirection(col domain.Column) (domain.Direction, error) {
	desc, ok := s.nextDescending[col]
	if !ok {
		return "", &domain.SortKeyError{Column: col}
	}
	if desc {
		return domain.Descending, nil
	}
	return domain.Ascending, nil
}

// Toggle flips the remembered direction of col only
func (s *SortState) Toggle(col domain.Column) error {
	desc, ok := s.nextDescending[col]
	if !ok {
		return &domain.SortKeyError{Column: col}
	}
	s.nextDescending[col] = !desc
	return nil
}

// Snapshot returns a copy of the per-column next directions
func (s *SortState) Snapshot() map[domain.Column]domain.Direction {
	out := make(map[domain.Column]domain.Direction, len(s.nextDescending))
	for col, desc := range s.nextDescending {
		if desc {
			out[col] = domain.Descending
		} else {
			out[col] = domain.Ascending
		}
	}
	return out
}
