package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tillbox/internal/domain/listing"
)

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Conditions translates a validated query into the single ordered conjunction
// shared by the count and the page fetch. Every value is a bound parameter;
// the soft-delete scope is appended first and cannot be switched off by the
// client.
func Conditions(s *listing.Schema, q listing.Query) squirrel.And {
	conj := squirrel.And{}

	if s.ScopeColumn != "" {
		conj = append(conj, squirrel.Eq{s.ScopeColumn: false})
	}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		or := make(squirrel.Or, 0, len(s.Search))
		for _, col := range s.Search {
			or = append(or, squirrel.ILike{col: pattern})
		}
		conj = append(conj, or)
	}

	if s.TypeColumn != "" && q.Type != "" && q.Type != "all" {
		conj = append(conj, squirrel.Eq{s.TypeColumn: q.Type})
	}

	for _, f := range q.Filters {
		conj = append(conj, squirrel.Eq{f.Column: f.Value})
	}

	return conj
}

// PageQueries derives the count and the page builders for one request. Both
// come from a single application of the query's conditions, so the total can
// never be computed from a different predicate than the rows.
func PageQueries(base squirrel.SelectBuilder, s *listing.Schema, q listing.Query) (countQ, pageQ squirrel.SelectBuilder, err error) {
	if conds := Conditions(s, q); len(conds) > 0 {
		base = base.Where(conds)
	}

	countQ = Builder().
		Select("COUNT(*)").
		FromSelect(base, "sub")

	sort, err := s.Resolve(q)
	if err != nil {
		return countQ, pageQ, err
	}

	pageQ = base.
		OrderBy(sort.Clauses...).
		Limit(uint64(q.Limit))
	if off := q.Offset(); off > 0 {
		pageQ = pageQ.Offset(uint64(off))
	}

	return countQ, pageQ, nil
}

// ListPage runs one page of a list query: a count and a windowed fetch over
// the same predicate. base must already carry the resource's joins and
// projected columns. A page beyond the last one comes back with empty rows
// and the true total.
func ListPage[T any](ctx context.Context, querier Querier, base squirrel.SelectBuilder, s *listing.Schema, q listing.Query) (listing.Result[T], error) {
	var result listing.Result[T]

	countQ, pageQ, err := PageQueries(base, s, q)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("count %s: %w", s.Resource, err)
	}

	sql, args, err := pageQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build page query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Rows, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", s.Resource, err)
	}

	return result, nil
}
