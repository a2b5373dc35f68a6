// Package listing implements the shared list query pipeline: parameter
// validation against a per-resource schema, sort resolution with a
// primary-key tie-break, and pagination metadata. Resources describe
// themselves with a static Schema value; the pipeline shape is common.
package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tillbox/internal/core/apperror"
)

// SortKey maps a logical sort key to its SQL expression.
type SortKey struct {
	Key  string
	Expr string
}

// FilterParam maps an id query parameter to the column it constrains.
type FilterParam struct {
	Param  string
	Column string
}

// Schema is the static field map of one listable resource: which query
// parameters it recognizes, which columns they touch, and its defaults.
// A new resource is onboarded by declaring a Schema, not by subclassing.
type Schema struct {
	// Resource names the entity in error messages ("transaction").
	Resource string

	// Parameter names. Page, limit and search default to "page", "limit"
	// and "search"; sort parameter names are resource convention
	// ("sortBy"/"sortOrder" or "sort_by"/"sort_order").
	PageParam      string
	LimitParam     string
	SearchParam    string
	SortByParam    string
	SortOrderParam string

	// TypeParam is the name of the type/status option, empty when the
	// resource has none. Types enumerates the accepted literals including
	// "all"; TypeColumn is the constrained column.
	TypeParam   string
	Types       []string
	DefaultType string
	TypeColumn  string

	// Filters are the recognized id filters in the order their conditions
	// are applied.
	Filters []FilterParam

	// Search lists the columns (base and joined) matched by the search
	// term as a case-insensitive substring.
	Search []string

	// Sorts is the whitelist of logical sort keys in declaration order.
	Sorts        []SortKey
	DefaultSort  string
	DefaultOrder Order

	// TieBreak is the primary key column appended ascending to every
	// order so pagination stays stable when sort values tie.
	TieBreak string

	// ScopeColumn is the soft-delete flag always constrained to false.
	// Not overridable by the client. Empty when the resource has none.
	ScopeColumn string
}

func (s *Schema) pageParam() string {
	if s.PageParam != "" {
		return s.PageParam
	}
	return "page"
}

func (s *Schema) limitParam() string {
	if s.LimitParam != "" {
		return s.LimitParam
	}
	return "limit"
}

func (s *Schema) searchParam() string {
	if s.SearchParam != "" {
		return s.SearchParam
	}
	return "search"
}

// SortExpr returns the SQL expression for a logical sort key.
func (s *Schema) SortExpr(key string) (string, bool) {
	for _, sk := range s.Sorts {
		if sk.Key == key {
			return sk.Expr, true
		}
	}
	return "", false
}

func (s *Schema) sortKeys() []string {
	keys := make([]string, len(s.Sorts))
	for i, sk := range s.Sorts {
		keys[i] = sk.Key
	}
	return keys
}

// Parse validates raw query values against the schema and returns a
// normalized Query. Every violated field is reported, not just the first.
// Absent optional fields mean "no constraint"; out-of-range or unrecognized
// values fail, they are never clamped or silently defaulted.
func (s *Schema) Parse(values url.Values) (Query, error) {
	var fields []apperror.FieldError
	fail := func(param, message string) {
		fields = append(fields, apperror.FieldError{Field: param, Message: message})
	}

	q := Query{
		Page:    DefaultPage,
		Limit:   DefaultLimit,
		SortKey: s.DefaultSort,
		Order:   s.DefaultOrder,
		Type:    s.DefaultType,
	}

	if raw := strings.TrimSpace(values.Get(s.pageParam())); raw != "" {
		page, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fail(s.pageParam(), "invalid integer")
		case page < 1:
			fail(s.pageParam(), "must be at least 1")
		default:
			q.Page = page
		}
	}

	if raw := strings.TrimSpace(values.Get(s.limitParam())); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fail(s.limitParam(), "invalid integer")
		case limit < 1:
			fail(s.limitParam(), "must be at least 1")
		case limit > MaxLimit:
			fail(s.limitParam(), fmt.Sprintf("must be at most %d", MaxLimit))
		default:
			q.Limit = limit
		}
	}

	if search := strings.TrimSpace(values.Get(s.searchParam())); search != "" {
		q.Search = search
	}

	for _, f := range s.Filters {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fail(f.Param, "invalid integer")
			continue
		}
		q.Filters = append(q.Filters, Filter{Column: f.Column, Value: id})
	}

	if s.TypeParam != "" {
		if raw := strings.TrimSpace(values.Get(s.TypeParam)); raw != "" {
			typ := strings.ToLower(raw)
			if contains(s.Types, typ) {
				q.Type = typ
			} else {
				fail(s.TypeParam, "must be one of: "+strings.Join(s.Types, ", "))
			}
		}
	}

	if s.SortByParam != "" {
		if raw := strings.TrimSpace(values.Get(s.SortByParam)); raw != "" {
			if _, ok := s.SortExpr(raw); ok {
				q.SortKey = raw
			} else {
				fail(s.SortByParam, "must be one of: "+strings.Join(s.sortKeys(), ", "))
			}
		}
	}

	if s.SortOrderParam != "" {
		if raw := strings.TrimSpace(values.Get(s.SortOrderParam)); raw != "" {
			switch strings.ToLower(raw) {
			case string(OrderAsc):
				q.Order = OrderAsc
			case string(OrderDesc):
				q.Order = OrderDesc
			default:
				fail(s.SortOrderParam, "must be one of: asc, desc")
			}
		}
	}

	if len(fields) > 0 {
		return Query{}, apperror.NewValidationFields(fields...)
	}
	return q, nil
}

// SortSpec is a resolved ordering: the requested expression with direction
// followed by the primary-key tie-break.
type SortSpec struct {
	Clauses []string
}

// Resolve maps the query's logical sort key to concrete ORDER BY clauses.
// An unmapped key here means validation was bypassed; that is a defect and
// fails loudly rather than falling back to an arbitrary sort.
func (s *Schema) Resolve(q Query) (SortSpec, error) {
	expr, ok := s.SortExpr(q.SortKey)
	if !ok {
		return SortSpec{}, apperror.NewInvariant(
			fmt.Sprintf("unmapped sort key %q for resource %s", q.SortKey, s.Resource))
	}

	clauses := []string{expr + " " + q.Order.SQL()}
	if s.TieBreak != "" {
		clauses = append(clauses, s.TieBreak+" ASC")
	}
	return SortSpec{Clauses: clauses}, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
