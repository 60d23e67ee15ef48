package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

const selectPostColumns = `
	SELECT p.id, p.title, p.slug, p.content, p.image, p.created_at, p.updated_at,
	       c.id, c.name, u.id, u.name, u.username
	FROM posts p
	JOIN categories c ON p.category_id = c.id
	JOIN users u ON p.user_id = u.id`

const countPostColumns = `
	SELECT count(*)
	FROM posts p
	JOIN categories c ON p.category_id = c.id
	JOIN users u ON p.user_id = u.id`

// whereBuilder accumulates AND-ed predicates with positional placeholders.
// Each condition names its placeholders as $%d verbs, numbered as arguments
// are appended.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, args ...any) {
	if len(args) == 0 {
		b.conds = append(b.conds, cond)
		return
	}

	positions := make([]any, len(args))
	for i := range args {
		b.args = append(b.args, args[i])
		positions[i] = len(b.args)
	}

	b.conds = append(b.conds, fmt.Sprintf(cond, positions...))
}

// next returns the placeholder number for one more appended argument.
func (b *whereBuilder) next(arg any) int {
	b.args = append(b.args, arg)
	return len(b.args)
}

func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// buildListWhere compiles the offset-mode filter set into SQL predicates.
// The same builder feeds both the page query and the count query so the two
// always agree on the filtered set. Soft-deleted rows never match.
func buildListWhere(f ListFilters, username string) *whereBuilder {
	b := &whereBuilder{}

	b.add("p.deleted_at IS NULL")

	if f.Search != "" {
		term := "%" + normalizeSearch(f.Search) + "%"
		b.add("(p.title ILIKE $%d OR p.content ILIKE $%d)", term, term)
	}

	if f.Category != "" {
		b.add("c.name = $%d", f.Category)
	}

	if lower, upper, ok := dateRange(f.StartDate, f.EndDate); ok {
		b.add("p.created_at >= $%d", lower)
		b.add("p.created_at <= $%d", upper)
	}

	if username != "" {
		b.add("u.username = $%d", username)
	}

	return b
}

// buildCursorWhere compiles the keyset-mode predicates. The date window
// always applies; the cursor bound is added only when the client echoed one,
// since an absent cursor is equivalent to the window edge (created_at) or the
// dataset extreme (slug). withCursor=false yields the predicate set for the
// total-count query.
func buildCursorWhere(f CursorFilters, w cursorWindow, withCursor bool) (*whereBuilder, error) {
	b := &whereBuilder{}

	b.add("p.deleted_at IS NULL")

	if f.Search != "" {
		term := "%" + normalizeSearch(f.Search) + "%"
		b.add("(p.title ILIKE $%d OR p.content ILIKE $%d)", term, term)
	}

	if f.Category != "" {
		b.add("c.name = $%d", f.Category)
	}

	b.add("p.created_at >= $%d", w.lower)
	b.add("p.created_at <= $%d", w.upper)

	if !withCursor || f.LastData == "" {
		return b, nil
	}

	switch f.SortField {
	case SortByTitle:
		if f.SortDirection == OrderAsc {
			b.add("p.slug > $%d", f.LastData)
		} else {
			b.add("p.slug < $%d", f.LastData)
		}
	default:
		cursor, err := parseCreatedCursor(f.LastData)
		if err != nil {
			return nil, err
		}
		if f.SortDirection == OrderAsc {
			b.add("p.created_at > $%d", cursor)
		} else {
			b.add("p.created_at < $%d", cursor)
		}
	}

	return b, nil
}

func listOrderClause(field SortField, dir SortDirection) string {
	col := "p.created_at"
	if field == SortByTitle {
		col = "p.title"
	}

	direction := "DESC"
	if dir == OrderAsc {
		direction = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", col, direction)
}

// cursorOrderClause orders by the same key the cursor is anchored to, which
// for title sorting is the slug rather than the raw title.
func cursorOrderClause(field SortField, dir SortDirection) string {
	col := "p.created_at"
	if field == SortByTitle {
		col = "p.slug"
	}

	direction := "DESC"
	if dir == OrderAsc {
		direction = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", col, direction)
}

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	var post Post
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.Image,
		&post.CreatedAt, &post.UpdatedAt,
		&post.Category.ID, &post.Category.Name,
		&post.Author.ID, &post.Author.Name, &post.Author.Username,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (m *PostModel) queryPosts(ctx context.Context, query string, args []any) ([]Post, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) listPosts(ctx context.Context, f ListFilters, username string) ([]Post, error) {
	b := buildListWhere(f, username)

	query := selectPostColumns + b.clause() + listOrderClause(f.SortField, f.SortDirection)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", b.next(f.PageSize), b.next(f.offset()))

	return m.queryPosts(ctx, query, b.args)
}

func (m *PostModel) countPosts(ctx context.Context, f ListFilters, username string) (int, error) {
	b := buildListWhere(f, username)

	var total int
	err := m.db.QueryRowContext(ctx, countPostColumns+b.clause(), b.args...).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (m *PostModel) listPostsCursor(ctx context.Context, f CursorFilters, w cursorWindow) ([]Post, error) {
	b, err := buildCursorWhere(f, w, true)
	if err != nil {
		return nil, err
	}

	query := selectPostColumns + b.clause() + cursorOrderClause(f.SortField, f.SortDirection)
	query += fmt.Sprintf(" LIMIT $%d", b.next(f.PageSize))

	return m.queryPosts(ctx, query, b.args)
}

func (m *PostModel) countPostsCursor(ctx context.Context, f CursorFilters, w cursorWindow) (int, error) {
	b, err := buildCursorWhere(f, w, false)
	if err != nil {
		return 0, err
	}

	var total int
	err = m.db.QueryRowContext(ctx, countPostColumns+b.clause(), b.args...).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (m *PostModel) getPostByID(ctx context.Context, id int) (*Post, error) {
	query := selectPostColumns + " WHERE p.id = $1 AND p.deleted_at IS NULL"

	post, err := scanPost(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}

	return post, nil
}

func (m *PostModel) getPostBySlug(ctx context.Context, slug string) (*Post, error) {
	query := selectPostColumns + " WHERE p.slug = $1 AND p.deleted_at IS NULL"

	post, err := scanPost(m.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}

	return post, nil
}

func (m *PostModel) insertPost(ctx context.Context, userID, categoryID int, title, slug, content string, image *string) (int, error) {
	query := `
		INSERT INTO posts (user_id, category_id, title, slug, content, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int
	err := m.db.QueryRowContext(ctx, query, userID, categoryID, title, slug, content, image).Scan(&id)
	if err != nil {
		switch {
		case ForeignKeyError(err, "posts_category_id_fkey"):
			return 0, ErrCategoryNotFound
		default:
			return 0, err
		}
	}

	return id, nil
}

func (m *PostModel) updatePost(ctx context.Context, id, categoryID int, title, slug, content string, image *string) error {
	query := `
		UPDATE posts
		SET category_id = $1, title = $2, slug = $3, content = $4, image = COALESCE($5, image), updated_at = now()
		WHERE id = $6 AND deleted_at IS NULL`

	res, err := m.db.ExecContext(ctx, query, categoryID, title, slug, content, image, id)
	if err != nil {
		switch {
		case ForeignKeyError(err, "posts_category_id_fkey"):
			return ErrCategoryNotFound
		default:
			return err
		}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (m *PostModel) softDeletePost(ctx context.Context, id int) error {
	query := `
		UPDATE posts
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (m *PostModel) categoryExistsByName(ctx context.Context, name string) error {
	var id int
	err := m.db.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = $1", name).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrCategoryNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *PostModel) categoryExistsByID(ctx context.Context, id int) error {
	var got int
	err := m.db.QueryRowContext(ctx, "SELECT id FROM categories WHERE id = $1", id).Scan(&got)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrCategoryNotFound
		default:
			return err
		}
	}

	return nil
}

// activeUserExists reports whether username belongs to a user that has not
// been soft-deleted.
func (m *PostModel) activeUserExists(ctx context.Context, username string) error {
	var id int
	err := m.db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = $1 AND deleted_at IS NULL", username).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrUserNotFound
		default:
			return err
		}
	}

	return nil
}
