package postservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderPost(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	s := &PostService{loc: wib}

	image := "1715954645.jpeg"
	updated := time.Date(2024, 5, 17, 13, 0, 0, 0, time.UTC)
	post := &Post{
		ID:        1,
		Title:     "Hello World",
		Slug:      "hello-world",
		Content:   "body",
		Image:     &image,
		CreatedAt: time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC),
		UpdatedAt: &updated,
	}

	view := s.RenderPost(post, "http://localhost:4000")

	assert.Equal(t, "http://localhost:4000/images/1715954645.jpeg", view.Image)
	assert.Equal(t, "2024-05-17T19:00:00+07:00", view.CreatedAt)
	if assert.NotNil(t, view.UpdatedAt) {
		assert.Equal(t, "2024-05-17T20:00:00+07:00", *view.UpdatedAt)
	}
}

func TestRenderPost_Fallbacks(t *testing.T) {
	s := &PostService{loc: time.UTC}

	post := &Post{
		ID:        2,
		Title:     "No Media",
		Slug:      "no-media",
		CreatedAt: time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC),
	}

	view := s.RenderPost(post, "http://localhost:4000")

	assert.Equal(t, "http://localhost:4000/images/no-image.jpeg", view.Image)
	assert.Nil(t, view.UpdatedAt)
}

func TestRenderPosts_Empty(t *testing.T) {
	s := &PostService{loc: time.UTC}

	views := s.RenderPosts(nil, "http://localhost:4000")

	// an empty listing must serialize as [] rather than null
	assert.NotNil(t, views)
	assert.Len(t, views, 0)
}
