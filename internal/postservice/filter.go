package postservice

import (
	"strings"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

type SortField string

type SortDirection string

const (
	SortByCreatedAt SortField = "created_at"
	SortByTitle     SortField = "title"

	OrderAsc  SortDirection = "asc"
	OrderDesc SortDirection = "desc"

	defaultPageSize = 10
	maxPageSize     = 100
)

// ListFilters carries the user-supplied listing parameters for the offset
// pagination mode. StartDate and EndDate are yyyy-mm-dd strings; the range is
// applied only when both bounds are present.
type ListFilters struct {
	Search        string
	Category      string
	StartDate     string
	EndDate       string
	SortField     SortField
	SortDirection SortDirection
	Page          int
	PageSize      int
}

func (f *ListFilters) fillDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
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

func (f ListFilters) offset() int {
	return (f.Page - 1) * f.PageSize
}

func validateListFilters(v *common.Validator, f ListFilters) {
	v.Check(f.Page >= 1, "page", "must be integer larger than 0")
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
}

// normalizeSearch defangs wildcard metacharacters before the term is wrapped
// for an ILIKE match. A literal % in user input becomes a space.
func normalizeSearch(search string) string {
	return strings.ReplaceAll(search, "%", " ")
}

// dateRange widens the yyyy-mm-dd bounds to [startOfDay(start), endOfDay(end)]
// so that both edge days are fully included.
func dateRange(startDate, endDate string) (time.Time, time.Time, bool) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(common.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse(common.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	return startOfDay(start), endOfDay(end), true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// Metadata is the pagination block returned with offset-mode listings.
type Metadata struct {
	PageSize  int `json:"page_size"`
	Page      int `json:"page"`
	TotalData int `json:"total_data"`
	TotalPage int `json:"total_page"`
}

func newMetadata(f ListFilters, total int) Metadata {
	return Metadata{
		PageSize:  f.PageSize,
		Page:      f.Page,
		TotalData: total,
		TotalPage: totalPages(total, f.PageSize),
	}
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
