package postservice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearch(t *testing.T) {
	assert.Equal(t, "100 ", normalizeSearch("100%"))
	assert.Equal(t, " off", normalizeSearch("%off"))
	assert.Equal(t, "plain", normalizeSearch("plain"))
}

func TestDateRange(t *testing.T) {
	lower, upper, ok := dateRange("2024-01-10", "2024-01-10")
	assert.True(t, ok)

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), lower)
	assert.Equal(t, time.Date(2024, 1, 10, 23, 59, 59, 999000000, time.UTC), upper)

	// Both edges of the day are inside the range, the next midnight is not.
	first := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 10, 23, 59, 59, 999000000, time.UTC)
	next := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	assert.False(t, first.Before(lower) || first.After(upper))
	assert.False(t, last.Before(lower) || last.After(upper))
	assert.True(t, next.After(upper))
}

func TestDateRange_Partial(t *testing.T) {
	_, _, ok := dateRange("2024-01-10", "")
	assert.False(t, ok)

	_, _, ok = dateRange("", "2024-01-10")
	assert.False(t, ok)
}

func TestTotalPages(t *testing.T) {
	testCases := []struct {
		total    int
		pageSize int
		want     int
	}{
		{total: 0, pageSize: 10, want: 0},
		{total: 1, pageSize: 10, want: 1},
		{total: 10, pageSize: 10, want: 1},
		{total: 11, pageSize: 10, want: 2},
		{total: 25, pageSize: 10, want: 3},
	}

	for _, tc := range testCases {
		if got := totalPages(tc.total, tc.pageSize); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}

func TestListFiltersDefaults(t *testing.T) {
	var f ListFilters
	f.fillDefaults()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, defaultPageSize, f.PageSize)
	assert.Equal(t, SortByCreatedAt, f.SortField)
	assert.Equal(t, OrderDesc, f.SortDirection)
}

func TestBuildListWhere(t *testing.T) {
	f := ListFilters{
		Search:    "go%routines",
		Category:  "tech",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}

	b := buildListWhere(f, "alice")
	clause := b.clause()

	assert.Contains(t, clause, "p.deleted_at IS NULL")
	assert.Contains(t, clause, "(p.title ILIKE $1 OR p.content ILIKE $2)")
	assert.Contains(t, clause, "c.name = $3")
	assert.Contains(t, clause, "p.created_at >= $4")
	assert.Contains(t, clause, "p.created_at <= $5")
	assert.Contains(t, clause, "u.username = $6")
	assert.Len(t, b.args, 6)

	// wildcard defanged, term wrapped for a contains match
	assert.Equal(t, "%go routines%", b.args[0])
	assert.Equal(t, b.args[0], b.args[1])
}

func TestBuildListWhere_Minimal(t *testing.T) {
	b := buildListWhere(ListFilters{}, "")

	assert.Equal(t, " WHERE p.deleted_at IS NULL", b.clause())
	assert.Empty(t, b.args)
}

func TestListOrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY p.created_at DESC", listOrderClause(SortByCreatedAt, OrderDesc))
	assert.Equal(t, " ORDER BY p.title ASC", listOrderClause(SortByTitle, OrderAsc))

	// cursor mode anchors title sorting to the slug
	assert.True(t, strings.Contains(cursorOrderClause(SortByTitle, OrderDesc), "p.slug"))
}
