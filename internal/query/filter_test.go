package query

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

func activitySchema() Schema {
	return Schema{
		Base:  "SELECT activity_date, activity_type, duration_minutes FROM activity_logs",
		Scope: "user_id",
		Filters: []Filter{
			{Param: "keyword", Column: "activity_type", Op: Contains},
			{Param: "from_date", Column: "activity_date", Op: Gte, Coerce: Date, Label: "From date"},
			{Param: "to_date", Column: "activity_date", Op: Lte, Coerce: Date, Label: "To date"},
			{Param: "min_duration", Column: "duration_minutes", Op: Gte, Coerce: Int, Label: "Minimum duration"},
		},
		Sorts: map[string]string{
			"duration": "duration_minutes DESC",
		},
		DefaultSort: "activity_date DESC",
	}
}

func TestBuildBaseOnlyKeepsScope(t *testing.T) {
	q, err := activitySchema().Build(url.Values{}, int64(42))
	require.NoError(t, err)
	assert.Equal(t, "SELECT activity_date, activity_type, duration_minutes FROM activity_logs WHERE user_id = ? ORDER BY activity_date DESC", q.SQL)
	assert.Equal(t, []any{int64(42)}, q.Args)
}

func TestBuildScopeIsMandatory(t *testing.T) {
	_, err := activitySchema().Build(url.Values{})
	assert.ErrorIs(t, err, ErrScopeRequired)
}

func TestBuildAllFiltersInSchemaOrder(t *testing.T) {
	params := url.Values{
		"min_duration": {"20"},
		"keyword":      {" run "},
		"to_date":      {"2024-03-31"},
		"from_date":    {"2024-03-01"},
	}
	q, err := activitySchema().Build(params, int64(1))
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT activity_date, activity_type, duration_minutes FROM activity_logs WHERE user_id = ? AND activity_type LIKE ? AND activity_date >= ? AND activity_date <= ? AND duration_minutes >= ? ORDER BY activity_date DESC",
		q.SQL)
	require.Len(t, q.Args, 5)
	assert.Equal(t, "%run%", q.Args[1])
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), q.Args[2])
	assert.Equal(t, 20, q.Args[4])
	assert.Equal(t, "run", q.Conditions[1].Value)
}

func TestBuildPlaceholderCountMatchesArgsForEverySubset(t *testing.T) {
	all := map[string]string{
		"keyword":      "zqxjk",
		"from_date":    "2023-01-02",
		"to_date":      "2023-11-30",
		"min_duration": "917",
	}
	keys := []string{"keyword", "from_date", "to_date", "min_duration"}
	for mask := 0; mask < 1<<len(keys); mask++ {
		params := url.Values{}
		supplied := 0
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				params.Set(k, all[k])
				supplied++
			}
		}
		params.Set("unknown", "zzz")
		q, err := activitySchema().Build(params, 5)
		require.NoError(t, err)
		assert.Equal(t, supplied+1, len(q.Args), "mask %b", mask)
		assert.Equal(t, len(q.Args), strings.Count(q.SQL, "?"), "mask %b", mask)
		for _, v := range all {
			assert.NotContains(t, q.SQL, v)
		}
	}
}

func TestBuildEmptyValuesAreOmitted(t *testing.T) {
	q, err := activitySchema().Build(url.Values{"keyword": {"   "}, "min_duration": {""}}, 1)
	require.NoError(t, err)
	assert.Len(t, q.Args, 1)
}

func TestBuildBadNumericIsValidationError(t *testing.T) {
	_, err := activitySchema().Build(url.Values{"min_duration": {"abc"}, "from_date": {"yesterday"}}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	fields := errs.Fields()
	assert.Equal(t, "Minimum duration must be a whole number.", fields["min_duration"])
	assert.Contains(t, fields, "from_date")
}

func TestBuildIntegerBeyondColumnRangeIsValidationError(t *testing.T) {
	for _, raw := range []string{"99999999999", "-2147483649"} {
		_, err := activitySchema().Build(url.Values{"min_duration": {raw}}, 1)
		require.Error(t, err, raw)
		errs, ok := validate.AsErrors(err)
		require.True(t, ok, raw)
		assert.Equal(t, "Minimum duration is out of range.", errs.Fields()["min_duration"], raw)
	}

	q, err := activitySchema().Build(url.Values{"min_duration": {"2147483647"}}, 1)
	require.NoError(t, err)
	assert.Contains(t, q.Args, 2147483647)
}

func TestBuildSortWhitelist(t *testing.T) {
	s := activitySchema()
	q, err := s.Build(url.Values{"sort": {"duration"}}, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY duration_minutes DESC"))

	for _, hostile := range []string{"activity_type", "1; DROP TABLE users", "duration_minutes DESC"} {
		q, err := s.Build(url.Values{"sort": {hostile}}, 1)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY activity_date DESC"), hostile)
		assert.NotContains(t, q.SQL, "DROP")
	}
}

func TestBuildWithoutScopeOrFilters(t *testing.T) {
	s := Schema{
		Base: "SELECT * FROM books",
		Filters: []Filter{
			{Param: "search", Column: "name", Op: Contains},
			{Param: "minprice", Column: "price", Op: Gte, Coerce: Decimal},
		},
		Sorts: map[string]string{"name": "name", "price": "price"},
	}
	q, err := s.Build(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM books", q.SQL)
	assert.Empty(t, q.Args)

	q, err = s.Build(url.Values{"minprice": {"5.5"}, "sort": {"price"}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM books WHERE price >= ? ORDER BY price", q.SQL)
	assert.Equal(t, []any{5.5}, q.Args)
}

func TestBuildPostgresDialect(t *testing.T) {
	s := activitySchema()
	s.Dialect = Postgres
	q, err := s.Build(url.Values{"keyword": {"walk"}, "min_duration": {"10"}}, 3)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "WHERE user_id = $1 AND activity_type ILIKE $2 AND duration_minutes >= $3")
	assert.Len(t, q.Args, 3)
}

func TestBuildEscapesLikeWildcards(t *testing.T) {
	s := Schema{Base: "SELECT name FROM books", Filters: []Filter{{Param: "keyword", Column: "name", Op: Contains}, {Param: "starts", Column: "name", Op: Prefix}}}
	q, err := s.Build(url.Values{"keyword": {"50%_off"}, "starts": {"A"}})
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off%`, q.Args[0])
	assert.Equal(t, "A%", q.Args[1])
}

func TestBuildFixedPredicates(t *testing.T) {
	s := Schema{Base: "SELECT name, price FROM books", Fixed: []string{"price < 20"}, DefaultSort: "price"}
	q, err := s.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT name, price FROM books WHERE price < 20 ORDER BY price", q.SQL)
}

func TestFlagCoercion(t *testing.T) {
	v, err := Flag("1")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	_, err = Flag("true")
	assert.Error(t, err)
}
