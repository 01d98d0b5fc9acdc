// Package domain holds types shared by the domain packages.
package domain

// Page size bounds for list endpoints.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListFilter selects one page of a list. Search is matched case-insensitively
// against each list's searchable columns; OrderBy is a column name with an
// optional "-" prefix for descending order.
type ListFilter struct {
	Search  string
	OrderBy string
	Limit   int
	Offset  int
}

// Normalize clamps Limit into [1, MaxListLimit] and Offset to >= 0.
func (f ListFilter) Normalize() ListFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	f.Offset = max(f.Offset, 0)
	return f
}

// ListResult is one page plus the total number of matching rows.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
