package categoryservice

import (
	"context"
	"database/sql"

	"github.com/adiwicaksono/warta/internal/common"
)

func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{m: newCategoryModel(db)}
}

// ListFilters carries the pagination parameters for category listings.
// Categories sort by name or id; name ascending is the default.
type ListFilters struct {
	SortField     string
	SortDirection string
	Page          int
	PageSize      int
}

type Metadata struct {
	PageSize  int `json:"page_size"`
	Page      int `json:"page"`
	TotalData int `json:"total_data"`
	TotalPage int `json:"total_page"`
}

func (f *ListFilters) fillDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	if f.SortField == "" {
		f.SortField = "name"
	}
	if f.SortDirection == "" {
		f.SortDirection = "asc"
	}
}

func (s *CategoryService) ListCategories(ctx context.Context, f ListFilters) ([]Category, Metadata, error) {
	f.fillDefaults()

	v := common.NewValidator()
	v.Check(common.PermittedValue(f.SortField, "name", "id"), "order_by", "can only be category or id")
	v.Check(common.PermittedValue(f.SortDirection, "asc", "desc"), "order", "can only be asc or desc")
	v.Check(f.PageSize <= 100, "page_size", "must be at most 100")
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	offset := (f.Page - 1) * f.PageSize

	categories, err := s.m.list(ctx, f.SortField, f.SortDirection, f.PageSize, offset)
	if err != nil {
		return nil, Metadata{}, err
	}

	total, err := s.m.count(ctx)
	if err != nil {
		return nil, Metadata{}, err
	}

	totalPage := 0
	if total > 0 {
		totalPage = (total + f.PageSize - 1) / f.PageSize
	}

	meta := Metadata{
		PageSize:  f.PageSize,
		Page:      f.Page,
		TotalData: total,
		TotalPage: totalPage,
	}

	return categories, meta, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*Category, error) {
	v := common.NewValidator()
	v.Check(name != "", "category", "cannot be empty")
	v.Check(v.CheckStringLength(name, 1, 50), "category", "must be at most 50 characters long")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.insert(ctx, name)
}

func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	v := common.NewValidator()
	v.Check(name != "", "category", "cannot be empty")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByName(ctx, name)
}
