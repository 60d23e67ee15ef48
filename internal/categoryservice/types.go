package categoryservice

import (
	"database/sql"
	"errors"
	"time"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
)

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryModel struct {
	db *sql.DB
}

type CategoryService struct {
	m *CategoryModel
}
