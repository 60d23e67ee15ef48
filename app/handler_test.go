package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func registerAndLogin(t *testing.T, ts *testServer, name, username, email string) string {
	status, _, env := ts.post(t, "/v1/users/register", map[string]string{
		"name":     name,
		"username": username,
		"email":    email,
		"password": "Str0ng!Password",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	data, ok := env["data"].(map[string]any)
	assert.True(t, ok)
	activationToken, ok := data["activation_token"].(string)
	assert.True(t, ok)

	status, _, _ = ts.put(t, "/v1/users/activate/"+activationToken, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, env = ts.post(t, "/v1/users/login", map[string]string{
		"username": username,
		"password": "Str0ng!Password",
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	data, ok = env["data"].(map[string]any)
	assert.True(t, ok)
	accessToken, ok := data["access_token"].(string)
	assert.True(t, ok)

	return accessToken
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, env := ts.get(t, "/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", env["status"])
}

func TestPostLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := registerAndLogin(t, ts, "Test User", "testuser", "test@example.com")

	status, _, env := ts.post(t, "/v1/categories", map[string]string{"category": "technology"}, &token)
	assert.Equal(t, http.StatusCreated, status)
	categoryID := int(env["data"].(map[string]any)["id"].(float64))

	status, _, env = ts.post(t, "/v1/posts", map[string]any{
		"title":       "Hello World!",
		"content":     "first post",
		"category_id": categoryID,
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	post := env["data"].(map[string]any)
	assert.Equal(t, "hello-world", post["slug"])
	assert.Equal(t, "technology", post["category"].(map[string]any)["category"])
	postID := int(post["id"].(float64))

	// a second post with the same title gets a suffixed slug
	status, _, env = ts.post(t, "/v1/posts", map[string]any{
		"title":       "Hello World!",
		"content":     "second post",
		"category_id": categoryID,
	}, &token)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "hello-world-2", env["data"].(map[string]any)["slug"])

	status, _, env = ts.get(t, "/v1/posts", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, env["data"].([]any), 2)
	meta := env["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total_data"])
	assert.Equal(t, float64(1), meta["total_page"])

	// point lookup populates the cache on the first read
	status, _, env = ts.get(t, fmt.Sprintf("/v1/posts/id/%d", postID), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, env["fromCache"])

	status, _, env = ts.get(t, fmt.Sprintf("/v1/posts/id/%d", postID), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, env["fromCache"])

	status, _, env = ts.get(t, "/v1/posts/slug/hello-world", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello World!", env["data"].(map[string]any)["title"])

	// keyset listing hands back a cursor for the next page
	status, _, env = ts.get(t, "/v1/posts/scroll?page_size=1", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, env["data"].([]any), 1)
	cursorMeta := env["meta"].(map[string]any)
	assert.NotNil(t, cursorMeta["last_cursor"])
	assert.Equal(t, false, cursorMeta["end_of_page"])

	status, _, env = ts.patch(t, fmt.Sprintf("/v1/posts/%d", postID), map[string]any{
		"title":       "Updated Title",
		"content":     "updated content",
		"category_id": categoryID,
	}, &token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "updated-title", env["data"].(map[string]any)["slug"])

	// the old slug no longer resolves after the rename
	status, _, _ = ts.get(t, "/v1/posts/slug/hello-world", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = ts.delete(t, fmt.Sprintf("/v1/posts/%d", postID), &token)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.get(t, fmt.Sprintf("/v1/posts/id/%d", postID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPostOwnership(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	owner := registerAndLogin(t, ts, "Owner", "owneruser", "owner@example.com")
	other := registerAndLogin(t, ts, "Other", "otheruser", "other@example.com")

	status, _, env := ts.post(t, "/v1/categories", map[string]string{"category": "news"}, &owner)
	assert.Equal(t, http.StatusCreated, status)
	categoryID := int(env["data"].(map[string]any)["id"].(float64))

	status, _, env = ts.post(t, "/v1/posts", map[string]any{
		"title":       "Owned Post",
		"content":     "content",
		"category_id": categoryID,
	}, &owner)
	assert.Equal(t, http.StatusCreated, status)
	postID := int(env["data"].(map[string]any)["id"].(float64))

	status, _, _ = ts.delete(t, fmt.Sprintf("/v1/posts/%d", postID), &other)
	assert.Equal(t, http.StatusForbidden, status)

	// anonymous writes are rejected outright
	status, _, _ = ts.post(t, "/v1/posts", map[string]any{
		"title":       "Anonymous Post",
		"content":     "content",
		"category_id": categoryID,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListPostsUnknownCategoryKeepsEnvelope(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_ = registerAndLogin(t, ts, "Writer", "writeruser", "writer@example.com")

	paths := []string{
		"/v1/posts?category=missing",
		"/v1/posts/scroll?category=missing",
		"/v1/posts/user/writeruser?category=missing",
	}

	for _, path := range paths {
		status, _, env := ts.get(t, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, "category not found", env["message"], path)
		assert.Equal(t, float64(http.StatusNotFound), env["statusCode"], path)

		data, ok := env["data"].([]any)
		assert.True(t, ok, path)
		assert.Empty(t, data, path)
	}
}

func TestCategoryNotFoundKeepsEnvelope(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, env := ts.get(t, "/v1/categories/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "category not found", env["message"])

	data, ok := env["data"].([]any)
	assert.True(t, ok)
	assert.Empty(t, data)
}

func TestListUsers(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_ = registerAndLogin(t, ts, "Bob", "bobuser", "bob@example.com")
	_ = registerAndLogin(t, ts, "Alice", "aliceuser", "alice@example.com")

	status, _, env := ts.get(t, "/v1/users", nil)
	assert.Equal(t, http.StatusOK, status)

	users := env["data"].([]any)
	assert.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].(map[string]any)["name"])

	first := users[0].(map[string]any)
	assert.Equal(t, "http://localhost:8080/images/avatar/no-avatar.jpeg", first["avatar"])
}

func TestUserProfileEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := registerAndLogin(t, ts, "Test User", "testuser", "test@example.com")

	status, _, env := ts.get(t, "/v1/users/username/testuser", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Test User", env["data"].(map[string]any)["name"])

	status, _, _ = ts.get(t, "/v1/users/username/ghostuser", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, env = ts.patch(t, "/v1/users", map[string]string{
		"name":  "Renamed User",
		"email": "renamed@example.com",
	}, &token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Renamed User", env["data"].(map[string]any)["name"])

	// profile edits require an authenticated user
	status, _, _ = ts.patch(t, "/v1/users", map[string]string{
		"name":  "Ghost",
		"email": "ghost@example.com",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, _ = ts.put(t, "/v1/users/password", map[string]string{
		"current_password": "Wr0ng!Password",
		"new_password":     "N3w!Password",
	}, &token)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, _ = ts.put(t, "/v1/users/password", map[string]string{
		"current_password": "Str0ng!Password",
		"new_password":     "N3w!Password",
	}, &token)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.post(t, "/v1/users/login", map[string]string{
		"username": "testuser",
		"password": "N3w!Password",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
}
