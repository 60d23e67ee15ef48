package postservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

func NewPostService(db *sql.DB, c common.Cache, activity ActivityRecorder, loc *time.Location) *PostService {
	if loc == nil {
		loc = time.UTC
	}

	return &PostService{
		m:        newPostModel(db),
		c:        c,
		activity: activity,
		loc:      loc,
	}
}

// ListPosts answers an offset-mode listing: filter, sort, page/page_size.
// A category filter naming an unknown category is a NotFound error, not an
// empty page. The count query reuses the page query's predicate set.
func (s *PostService) ListPosts(ctx context.Context, f ListFilters) ([]Post, Metadata, error) {
	f.fillDefaults()

	v := common.NewValidator()
	validateListFilters(v, f)
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	if f.Category != "" {
		if err := s.m.categoryExistsByName(ctx, f.Category); err != nil {
			return nil, Metadata{}, err
		}
	}

	posts, err := s.m.listPosts(ctx, f, "")
	if err != nil {
		return nil, Metadata{}, err
	}

	total, err := s.m.countPosts(ctx, f, "")
	if err != nil {
		return nil, Metadata{}, err
	}

	return posts, newMetadata(f, total), nil
}

// ListPostsByUser is the offset-mode listing scoped to one author. The target
// user must exist and not be soft-deleted.
func (s *PostService) ListPostsByUser(ctx context.Context, username string, f ListFilters) ([]Post, Metadata, error) {
	f.fillDefaults()

	v := common.NewValidator()
	v.Check(username != "", "username", "must be provided")
	validateListFilters(v, f)
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	if err := s.m.activeUserExists(ctx, username); err != nil {
		return nil, Metadata{}, err
	}

	if f.Category != "" {
		if err := s.m.categoryExistsByName(ctx, f.Category); err != nil {
			return nil, Metadata{}, err
		}
	}

	posts, err := s.m.listPosts(ctx, f, username)
	if err != nil {
		return nil, Metadata{}, err
	}

	total, err := s.m.countPosts(ctx, f, username)
	if err != nil {
		return nil, Metadata{}, err
	}

	return posts, newMetadata(f, total), nil
}

// ListPostsCursor answers a keyset-mode listing. Each page is anchored to the
// sort key of the last row of the previous page, so concurrent inserts and
// deletes elsewhere in the window cannot skip or repeat rows. The total count
// keeps the window and filter predicates but drops the cursor bound.
func (s *PostService) ListPostsCursor(ctx context.Context, f CursorFilters) ([]Post, CursorMetadata, error) {
	f.fillDefaults()

	v := common.NewValidator()
	validateCursorFilters(v, f)
	if !v.Valid() {
		return nil, CursorMetadata{}, v.ValidationError()
	}

	if f.Category != "" {
		if err := s.m.categoryExistsByName(ctx, f.Category); err != nil {
			return nil, CursorMetadata{}, err
		}
	}

	w := f.window(time.Now().In(s.loc))

	posts, err := s.m.listPostsCursor(ctx, f, w)
	if err != nil {
		return nil, CursorMetadata{}, err
	}

	total, err := s.m.countPostsCursor(ctx, f, w)
	if err != nil {
		return nil, CursorMetadata{}, err
	}

	meta := CursorMetadata{
		PageSize:   f.PageSize,
		TotalData:  total,
		LastCursor: nextCursor(posts, f.SortField),
		EndOfPage:  len(posts) == 0,
	}

	return posts, meta, nil
}

// GetPostByID is a read-through point lookup. The boolean reports whether the
// record came from the cache.
func (s *PostService) GetPostByID(ctx context.Context, id int) (*Post, bool, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, false, v.ValidationError()
	}

	payload, fromCache, err := common.GetOrLoad(s.c, common.CacheKeyPostID(id), func() ([]byte, error) {
		post, err := s.m.getPostByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(post)
	})
	if err != nil {
		return nil, false, err
	}

	var post Post
	if err := json.Unmarshal(payload, &post); err != nil {
		return nil, false, err
	}

	return &post, fromCache, nil
}

// GetPostBySlug is the slug-keyed variant of GetPostByID. The same record may
// therefore occupy two cache slots, one per key; both are evicted on writes.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*Post, bool, error) {
	v := common.NewValidator()
	v.Check(slug != "", "slug", "must be provided")
	if !v.Valid() {
		return nil, false, v.ValidationError()
	}

	payload, fromCache, err := common.GetOrLoad(s.c, common.CacheKeyPostSlug(slug), func() ([]byte, error) {
		post, err := s.m.getPostBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return json.Marshal(post)
	})
	if err != nil {
		return nil, false, err
	}

	var post Post
	if err := json.Unmarshal(payload, &post); err != nil {
		return nil, false, err
	}

	return &post, fromCache, nil
}

type CreatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int    `json:"category_id"`
	Image      *string
	UserID     int
}

// CreatePost validates the request, assigns a collision-safe slug, and writes
// the record. The activity entry is fire-and-forget.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateID(v, req.CategoryID, "category_id")
	validateID(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.categoryExistsByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.m.assignSlug(ctx, req.Title, "", "")
	if err != nil {
		return nil, err
	}

	id, err := s.m.insertPost(ctx, req.UserID, req.CategoryID, req.Title, slug, sanitizeContent(req.Content), req.Image)
	if err != nil {
		return nil, err
	}

	post, err := s.m.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.record(req.UserID, fmt.Sprintf("create post %d", id))

	return post, nil
}

type UpdatePostRequest struct {
	ID         int
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int    `json:"category_id"`
	Image      *string
	UserID     int
}

// UpdatePost rewrites a post the caller owns. A changed title earns a fresh
// slug from the counter; an unchanged title keeps the stored slug untouched.
// Both cache keys for the record are evicted so the next read repopulates.
func (s *PostService) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateID(v, req.ID, "id")
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateID(v, req.CategoryID, "category_id")
	validateID(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getPostByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if current.Author.ID != req.UserID {
		return nil, ErrNotOwner
	}

	if err := s.m.categoryExistsByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.m.assignSlug(ctx, req.Title, current.Title, current.Slug)
	if err != nil {
		return nil, err
	}

	if err := s.m.updatePost(ctx, req.ID, req.CategoryID, req.Title, slug, sanitizeContent(req.Content), req.Image); err != nil {
		return nil, err
	}

	s.invalidate(req.ID, current.Slug, slug)

	post, err := s.m.getPostByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	s.record(req.UserID, fmt.Sprintf("edit post %d", req.ID))

	return post, nil
}

// DeletePost soft-deletes a post the caller owns and evicts its cache keys.
func (s *PostService) DeletePost(ctx context.Context, id, userID int) error {
	v := common.NewValidator()
	validateID(v, id, "id")
	validateID(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	current, err := s.m.getPostByID(ctx, id)
	if err != nil {
		return err
	}

	if current.Author.ID != userID {
		return ErrNotOwner
	}

	if err := s.m.softDeletePost(ctx, id); err != nil {
		return err
	}

	s.invalidate(id, current.Slug)

	s.record(userID, fmt.Sprintf("delete post %d", id))

	return nil
}

func (s *PostService) record(userID int, activity string) {
	if s.activity != nil {
		s.activity.Record(userID, activity)
	}
}

func (s *PostService) invalidate(id int, slugs ...string) {
	if s.c == nil {
		return
	}

	_ = s.c.Delete(common.CacheKeyPostID(id))
	for _, slug := range slugs {
		_ = s.c.Delete(common.CacheKeyPostSlug(slug))
	}
}
