package postservice

import (
	"strconv"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

// CursorFilters carries the parameters for the keyset ("infinite scroll")
// pagination mode. LastData echoes the last_cursor value of the previous
// page: a unix-millisecond timestamp when sorting by created_at, a slug when
// sorting by title. It is empty on the first call.
type CursorFilters struct {
	Search        string
	Category      string
	StartDate     string
	EndDate       string
	SortField     SortField
	SortDirection SortDirection
	PageSize      int
	LastData      string
}

func (f *CursorFilters) fillDefaults() {
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.SortField == "" {
		f.SortField = SortByCreatedAt
	}
	if f.SortDirection == "" {
		f.SortDirection = OrderDesc
	}
}

func validateCursorFilters(v *common.Validator, f CursorFilters) {
	v.Check(f.PageSize >= 1, "page_size", "must be integer larger than 0")
	v.Check(f.PageSize <= maxPageSize, "page_size", "must be at most 100")
	v.Check(common.PermittedValue(f.SortField, SortByCreatedAt, SortByTitle), "order_by", "can only be title or created_at")
	v.Check(common.PermittedValue(f.SortDirection, OrderAsc, OrderDesc), "order", "can only be asc or desc")
	if f.StartDate != "" {
		v.Check(v.CheckDate(f.StartDate), "start_date", "must be type date in yyyy-mm-dd format")
	}
	if f.EndDate != "" {
		v.Check(v.CheckDate(f.EndDate), "end_date", "must be type date in yyyy-mm-dd format")
	}
	if f.LastData != "" && f.SortField == SortByCreatedAt {
		if _, err := parseCreatedCursor(f.LastData); err != nil {
			v.AddError("last_data", "must be a positive unix millisecond timestamp")
		}
	}
}

// cursorWindow is the creation-date window every keyset page is bounded by.
type cursorWindow struct {
	lower time.Time
	upper time.Time
}

// window computes the date window for a keyset page. An explicit range takes
// [startOfDay(start), endOfDay(end)]; otherwise the window defaults to the
// start of the current month through the end of today.
func (f CursorFilters) window(now time.Time) cursorWindow {
	if lower, upper, ok := dateRange(f.StartDate, f.EndDate); ok {
		return cursorWindow{lower: lower, upper: upper}
	}

	return cursorWindow{
		lower: startOfMonth(now),
		upper: endOfDay(now),
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func parseCreatedCursor(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if ms <= 0 {
		return time.Time{}, strconv.ErrRange
	}
	return time.UnixMilli(ms).UTC(), nil
}

func formatCreatedCursor(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// nextCursor derives the cursor for the following page from the last row of
// the current one. A nil result means the page was empty and the scroll has
// reached its end.
func nextCursor(posts []Post, field SortField) *string {
	if len(posts) == 0 {
		return nil
	}

	last := posts[len(posts)-1]

	var cursor string
	switch field {
	case SortByTitle:
		cursor = last.Slug
	default:
		cursor = formatCreatedCursor(last.CreatedAt)
	}

	return &cursor
}

// CursorMetadata is the pagination block returned with keyset-mode listings.
type CursorMetadata struct {
	PageSize   int     `json:"page_size"`
	TotalData  int     `json:"total_data"`
	LastCursor *string `json:"last_cursor"`
	EndOfPage  bool    `json:"end_of_page"`
}
