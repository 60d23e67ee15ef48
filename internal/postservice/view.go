package postservice

import "time"

const fallbackImage = "/images/no-image.jpeg"

// PostView is the response shape of a post: timestamps rendered in the
// configured display timezone and the image reference expanded to a fully
// qualified URL, with a placeholder when the post has no media.
type PostView struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Content   string   `json:"contents"`
	Image     string   `json:"images"`
	Category  Category `json:"category"`
	Author    Author   `json:"user"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt *string  `json:"updated_at"`
}

func (s *PostService) RenderPost(p *Post, baseURL string) PostView {
	view := PostView{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Category:  p.Category,
		Author:    p.Author,
		CreatedAt: p.CreatedAt.In(s.loc).Format(time.RFC3339),
	}

	if p.UpdatedAt != nil {
		updated := p.UpdatedAt.In(s.loc).Format(time.RFC3339)
		view.UpdatedAt = &updated
	}

	if p.Image == nil {
		view.Image = baseURL + fallbackImage
	} else {
		view.Image = baseURL + "/images/" + *p.Image
	}

	return view
}

func (s *PostService) RenderPosts(posts []Post, baseURL string) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, s.RenderPost(&posts[i], baseURL))
	}
	return views
}
