package viewer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ludo-technologies/pmdview/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en"

// Sorter orders violation records by a single column.
// It owns a collator and is not safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter creates a sorter comparing strings with the rules of locale
func NewSorter(locale string) (*Sorter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid locale %q", locale), err)
	}
	return &Sorter{collator: collate.New(tag)}, nil
}

// Sort returns a new slice with records ordered by col in direction dir.
// The input is left untouched. Records with equal keys keep their input
// order in both directions.
func (s *Sorter) Sort(records []domain.Violation, col domain.Column, dir domain.Direction) ([]domain.Violation, error) {
	order, err := s.Order(records, col, dir)
	if err != nil {
		return nil, err
	}
	sorted := make([]domain.Violation, len(order))
	for i, idx := range order {
		sorted[i] = records[idx]
	}
	return sorted, nil
}

// Order returns the positions of records in the order Sort would put them
func (s *Sorter) Order(records []domain.Violation, col domain.Column, dir domain.Direction) ([]int, error) {
	compare, err := s.comparator(col)
	if err != nil {
		return nil, err
	}

	switch dir {
	case domain.Ascending:
	case domain.Descending:
		asc := compare
		compare = func(a, b domain.Violation) int { return asc(b, a) }
	default:
		return nil, &domain.SortKeyError{Column: col, Direction: dir}
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compare(records[a], records[b])
	})
	return order, nil
}

func (s *Sorter) comparator(col domain.Column) (func(a, b domain.Violation) int, error) {
	switch col {
	case domain.ColumnClassName:
		return func(a, b domain.Violation) int {
			return s.collator.CompareString(a.ClassName, b.ClassName)
		}, nil
	case domain.ColumnLineNumber:
		return func(a, b domain.Violation) int {
			return cmp.Compare(a.BeginningLine, b.BeginningLine)
		}, nil
	case domain.ColumnDescription:
		return func(a, b domain.Violation) int {
			return s.collator.CompareString(a.Description, b.Description)
		}, nil
	}
	return nil, &domain.SortKeyError{Column: col}
}
