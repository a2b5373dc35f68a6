package listing

import "math"

// Order is a normalized sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// SQL returns the direction keyword for an ORDER BY clause.
func (o Order) SQL() string {
	if o == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// Pagination bounds. Limits above MaxLimit are rejected, never clamped.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filter is one bound equality condition resolved from an id query parameter.
type Filter struct {
	Column string
	Value  int64
}

// Query is a validated, normalized list request. It carries only values that
// passed the schema's validation; raw client input never travels past Parse.
type Query struct {
	Page   int
	Limit  int
	Search string

	// Type is the resource type literal ("all" means no constraint).
	// Empty when the resource has no type option.
	Type string

	// Filters are id equality conditions in schema-declared order.
	Filters []Filter

	// SortKey is the validated logical sort key; Resolve maps it to SQL.
	SortKey string
	Order   Order
}

// Offset returns the row offset of the requested page window. The product
// saturates instead of overflowing, so an astronomically large page reads
// as an empty page rather than wrapping around to the first one.
func (q Query) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Result is one fetched page plus the total count computed from the same
// predicate. Rows and Total may disagree slightly under concurrent writes;
// that staleness is accepted for read-only list views.
type Result[T any] struct {
	Rows  []T
	Total int64
}
