package postservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCursorWindow_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)

	w := CursorFilters{}.window(now)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), w.lower)
	assert.Equal(t, time.Date(2024, 5, 17, 23, 59, 59, 999000000, time.UTC), w.upper)
}

func TestCursorWindow_ExplicitRange(t *testing.T) {
	now := time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)

	w := CursorFilters{StartDate: "2024-01-10", EndDate: "2024-01-12"}.window(now)

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), w.lower)
	assert.Equal(t, time.Date(2024, 1, 12, 23, 59, 59, 999000000, time.UTC), w.upper)
}

func TestParseCreatedCursor(t *testing.T) {
	testCases := []struct {
		name    string
		cursor  string
		wantErr bool
	}{
		{name: "valid", cursor: "1715954645000", wantErr: false},
		{name: "zero", cursor: "0", wantErr: true},
		{name: "negative", cursor: "-1715954645000", wantErr: true},
		{name: "not a number", cursor: "yesterday", wantErr: true},
		{name: "empty", cursor: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseCreatedCursor(tc.cursor)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreatedCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 17, 12, 30, 45, 123000000, time.UTC)

	parsed, err := parseCreatedCursor(formatCreatedCursor(at))
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestNextCursor(t *testing.T) {
	assert.Nil(t, nextCursor(nil, SortByCreatedAt))

	posts := []Post{
		{ID: 1, Slug: "beta", CreatedAt: time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Slug: "alpha", CreatedAt: time.Date(2024, 5, 16, 10, 0, 0, 0, time.UTC)},
	}

	created := nextCursor(posts, SortByCreatedAt)
	if assert.NotNil(t, created) {
		assert.Equal(t, formatCreatedCursor(posts[1].CreatedAt), *created)
	}

	slug := nextCursor(posts, SortByTitle)
	if assert.NotNil(t, slug) {
		assert.Equal(t, "alpha", *slug)
	}
}

func TestBuildCursorWhere(t *testing.T) {
	w := cursorWindow{
		lower: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		upper: time.Date(2024, 5, 17, 23, 59, 59, 999000000, time.UTC),
	}

	t.Run("first page has only the window bounds", func(t *testing.T) {
		b, err := buildCursorWhere(CursorFilters{SortField: SortByCreatedAt, SortDirection: OrderDesc}, w, true)
		assert.NoError(t, err)
		assert.Contains(t, b.clause(), "p.created_at >= $1")
		assert.Contains(t, b.clause(), "p.created_at <= $2")
		assert.NotContains(t, b.clause(), "< $")
	})

	t.Run("desc created_at cursor bounds the page from above", func(t *testing.T) {
		f := CursorFilters{SortField: SortByCreatedAt, SortDirection: OrderDesc, LastData: "1715954645000"}
		b, err := buildCursorWhere(f, w, true)
		assert.NoError(t, err)
		assert.Contains(t, b.clause(), "p.created_at < $3")
	})

	t.Run("asc created_at cursor bounds the page from below", func(t *testing.T) {
		f := CursorFilters{SortField: SortByCreatedAt, SortDirection: OrderAsc, LastData: "1715954645000"}
		b, err := buildCursorWhere(f, w, true)
		assert.NoError(t, err)
		assert.Contains(t, b.clause(), "p.created_at > $3")
	})

	t.Run("title sorting anchors to the slug", func(t *testing.T) {
		f := CursorFilters{SortField: SortByTitle, SortDirection: OrderAsc, LastData: "hello-world"}
		b, err := buildCursorWhere(f, w, true)
		assert.NoError(t, err)
		assert.Contains(t, b.clause(), "p.slug > $3")
		assert.Equal(t, "hello-world", b.args[2])
	})

	t.Run("count query drops the cursor predicate", func(t *testing.T) {
		f := CursorFilters{SortField: SortByCreatedAt, SortDirection: OrderDesc, LastData: "1715954645000"}
		b, err := buildCursorWhere(f, w, false)
		assert.NoError(t, err)
		assert.Len(t, b.args, 2)
	})

	t.Run("malformed cursor is rejected", func(t *testing.T) {
		f := CursorFilters{SortField: SortByCreatedAt, SortDirection: OrderDesc, LastData: "not-a-timestamp"}
		_, err := buildCursorWhere(f, w, true)
		assert.Error(t, err)
	})
}
