package userservice

import (
	"strconv"
	"time"
)

const fallbackAvatar = "/images/avatar/no-avatar.jpeg"

// UserView is the response shape of a user: avatar expanded to a fully
// qualified URL and timestamps rendered in the display timezone.
type UserView struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	Avatar    string  `json:"avatar"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

func RenderUser(u *User, baseURL string, loc *time.Location) UserView {
	if loc == nil {
		loc = time.UTC
	}

	view := UserView{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.In(loc).Format(time.RFC3339),
	}

	if u.UpdatedAt != nil {
		updated := u.UpdatedAt.In(loc).Format(time.RFC3339)
		view.UpdatedAt = &updated
	}

	if u.Avatar == nil {
		view.Avatar = baseURL + fallbackAvatar
	} else {
		view.Avatar = baseURL + "/images/avatar/" + strconv.Itoa(u.ID) + "/" + *u.Avatar
	}

	return view
}

func RenderUsers(users []User, baseURL string, loc *time.Location) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, RenderUser(&users[i], baseURL, loc))
	}
	return views
}
