package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillbox/internal/core/apperror"
)

func testSchema() *Schema {
	return &Schema{
		Resource:       "transaction",
		SortByParam:    "sortBy",
		SortOrderParam: "sortOrder",
		TypeParam:      "type",
		Types:          []string{"all", "sale", "purchase", "adjustment"},
		DefaultType:    "all",
		TypeColumn:     "t.type",
		Filters: []FilterParam{
			{Param: "category_id", Column: "p.category_id"},
			{Param: "manufacturer_id", Column: "p.manufacturer_id"},
		},
		Search: []string{"t.number", "u.name"},
		Sorts: []SortKey{
			{Key: "time", Expr: "t.created_at"},
			{Key: "transactionNo", Expr: "t.number"},
			{Key: "type", Expr: "t.type"},
			{Key: "user", Expr: "u.name"},
		},
		DefaultSort:  "time",
		DefaultOrder: OrderDesc,
		TieBreak:     "t.id",
		ScopeColumn:  "t.deletion_mark",
	}
}

func TestParse_Defaults(t *testing.T) {
	q, err := testSchema().Parse(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "", q.Search)
	assert.Equal(t, "all", q.Type)
	assert.Empty(t, q.Filters)
	assert.Equal(t, "time", q.SortKey)
	assert.Equal(t, OrderDesc, q.Order)
}

func TestParse_ValidInput(t *testing.T) {
	values := url.Values{
		"page":            {"3"},
		"limit":           {"100"},
		"search":          {"  widget  "},
		"type":            {"Sale"},
		"category_id":     {"7"},
		"manufacturer_id": {"12"},
		"sortBy":          {"user"},
		"sortOrder":       {"ASC"},
	}

	q, err := testSchema().Parse(values)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, "widget", q.Search)
	assert.Equal(t, "sale", q.Type)
	assert.Equal(t, []Filter{
		{Column: "p.category_id", Value: 7},
		{Column: "p.manufacturer_id", Value: 12},
	}, q.Filters)
	assert.Equal(t, "user", q.SortKey)
	assert.Equal(t, OrderAsc, q.Order)
	assert.Equal(t, 200, q.Offset())
}

func TestParse_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantField string
	}{
		{"page zero", url.Values{"page": {"0"}}, "page"},
		{"page negative", url.Values{"page": {"-2"}}, "page"},
		{"page junk", url.Values{"page": {"abc"}}, "page"},
		{"limit zero", url.Values{"limit": {"0"}}, "limit"},
		{"limit over max", url.Values{"limit": {"101"}}, "limit"},
		{"limit junk", url.Values{"limit": {"ten"}}, "limit"},
		{"filter junk", url.Values{"category_id": {"x"}}, "category_id"},
		{"unknown type", url.Values{"type": {"refund"}}, "type"},
		{"unknown sort key", url.Values{"sortBy": {"bogus"}}, "sortBy"},
		{"bad sort order", url.Values{"sortOrder": {"sideways"}}, "sortOrder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSchema().Parse(tt.values)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)

			fields := appErr.Fields()
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
		})
	}
}

func TestParse_CollectsEveryViolation(t *testing.T) {
	values := url.Values{
		"page":      {"0"},
		"limit":     {"9000"},
		"type":      {"refund"},
		"sortBy":    {"bogus"},
		"sortOrder": {"diagonal"},
	}

	_, err := testSchema().Parse(values)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)

	got := make(map[string]string)
	for _, f := range appErr.Fields() {
		got[f.Field] = f.Message
	}

	assert.Len(t, got, 5)
	assert.Equal(t, "must be at least 1", got["page"])
	assert.Equal(t, "must be at most 100", got["limit"])
	assert.Equal(t, "must be one of: all, sale, purchase, adjustment", got["type"])
	assert.Equal(t, "must be one of: time, transactionNo, type, user", got["sortBy"])
	assert.Equal(t, "must be one of: asc, desc", got["sortOrder"])
}

func TestParse_MaxLimitAccepted(t *testing.T) {
	q, err := testSchema().Parse(url.Values{"limit": {"100"}})
	require.NoError(t, err)
	assert.Equal(t, 100, q.Limit)
}

func TestParse_SortOrderCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"desc", "DESC", "Desc"} {
		q, err := testSchema().Parse(url.Values{"sortOrder": {raw}})
		require.NoError(t, err, raw)
		assert.Equal(t, OrderDesc, q.Order, raw)
	}
}

func TestParse_EmptyOptionalMeansNoConstraint(t *testing.T) {
	values := url.Values{
		"search":      {"   "},
		"category_id": {""},
	}

	q, err := testSchema().Parse(values)
	require.NoError(t, err)
	assert.Equal(t, "", q.Search)
	assert.Empty(t, q.Filters)
}

func TestResolve_AppendsTieBreak(t *testing.T) {
	s := testSchema()
	q, err := s.Parse(url.Values{"sortBy": {"user"}, "sortOrder": {"desc"}})
	require.NoError(t, err)

	spec, err := s.Resolve(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"u.name DESC", "t.id ASC"}, spec.Clauses)
}

func TestResolve_UnmappedKeyFailsLoudly(t *testing.T) {
	s := testSchema()

	// A key that bypassed validation must surface as an internal defect,
	// never as a silent fallback sort.
	_, err := s.Resolve(Query{SortKey: "smuggled", Order: OrderAsc})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvariant, appErr.Code)
}
