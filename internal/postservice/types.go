package postservice

import (
	"database/sql"
	"errors"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("username not found")
	ErrNotOwner         = errors.New("post not owned by this user")
)

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"category"`
}

type Author struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	// Content is stored in Markdown format.
	Content string `json:"contents"`
	// Image holds the stored file name only; the public URL is derived at
	// render time.
	Image     *string    `json:"images"`
	Category  Category   `json:"category"`
	Author    Author     `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type PostModel struct {
	db *sql.DB
}

// ActivityRecorder is the fire-and-forget activity sink. Implementations must
// never propagate failures into the calling operation.
type ActivityRecorder interface {
	Record(userID int, activity string)
}

type PostService struct {
	m        *PostModel
	c        common.Cache
	activity ActivityRecorder
	loc      *time.Location
}
