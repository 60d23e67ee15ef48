package categoryservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

func newCategoryModel(db *sql.DB) *CategoryModel {
	return &CategoryModel{db: db}
}

func duplicateKeyError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func (m *CategoryModel) insert(ctx context.Context, name string) (*Category, error) {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, name, created_at`

	var c Category
	err := m.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		switch {
		case duplicateKeyError(err):
			return nil, ErrDuplicateCategory
		default:
			return nil, err
		}
	}

	return &c, nil
}

func (m *CategoryModel) getByName(ctx context.Context, name string) (*Category, error) {
	query := `
		SELECT id, name, created_at
		FROM categories
		WHERE name = $1`

	var c Category
	err := m.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrCategoryNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

func (m *CategoryModel) list(ctx context.Context, orderBy, order string, limit, offset int) ([]Category, error) {
	// orderBy and order come from a validated whitelist, never raw input
	query := fmt.Sprintf(`
		SELECT id, name, created_at
		FROM categories
		ORDER BY %s %s
		LIMIT $1 OFFSET $2`, orderBy, order)

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (m *CategoryModel) count(ctx context.Context) (int, error) {
	var total int
	err := m.db.QueryRowContext(ctx, "SELECT count(*) FROM categories").Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
