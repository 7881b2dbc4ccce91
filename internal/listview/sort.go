package listview

// Sort is a field plus direction. The zero value means server-default order.
type Sort struct {
	Field     string
	Direction SortDirection
}

// IsZero reports whether no sort is applied.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// NextSort advances the per-field cycle unsorted -> asc -> desc -> unsorted.
// Clicking a different field always starts that field at asc.
func NextSort(current Sort, clicked string) Sort {
	if clicked == "" {
		return current
	}
	if clicked != current.Field {
		return Sort{Field: clicked, Direction: SortAsc}
	}
	switch current.Direction {
	case SortAsc:
		return Sort{Field: clicked, Direction: SortDesc}
	case SortDesc:
		return Sort{}
	default:
		return Sort{Field: clicked, Direction: SortAsc}
	}
}

// Column describes one table column of a list screen.
type Column[T any] struct {
	Field    string
	Label    string
	Sortable bool
	Render   func(T) string
}

// Columns is the ordered column set of a screen.
type Columns[T any] []Column[T]

// Lookup finds the column for field.
func (cs Columns[T]) Lookup(field string) (Column[T], bool) {
	for _, c := range cs {
		if c.Field == field {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Sortable reports whether field names a sortable column.
func (cs Columns[T]) Sortable(field string) bool {
	c, ok := cs.Lookup(field)
	return ok && c.Sortable
}

// Headers returns the column labels in order.
func (cs Columns[T]) Headers() []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Label)
	}
	return out
}

// Row renders item into one cell per column. Columns without a renderer
// produce an empty cell.
func (cs Columns[T]) Row(item T) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Render == nil {
			out = append(out, "")
			continue
		}
		out = append(out, c.Render(item))
	}
	return out
}
