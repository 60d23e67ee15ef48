package main

import (
	"errors"
	"net/http"

	"github.com/adiwicaksono/warta/internal/activityservice"
	"github.com/adiwicaksono/warta/internal/categoryservice"
	"github.com/adiwicaksono/warta/internal/common"
	"github.com/adiwicaksono/warta/internal/postservice"
	"github.com/adiwicaksono/warta/internal/userservice"
)

type registerUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input registerUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, err := app.userService.CreateUser(r.Context(), input.Name, input.Username, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		case errors.Is(err, userservice.ErrDuplicateUsername):
			app.failedValidationErrorResponse(w, r, map[string]string{"username": "this username is already taken"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusCreated, "user registered", envelope{"activation_token": token}, nil, nil)
}

func (app *application) activateUserHandler(w http.ResponseWriter, r *http.Request) {
	token := app.readPathParam(r, "token")

	err := app.userService.ActivateUser(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user account activated", nil, nil, nil)
}

type loginUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, err := app.userService.LoginUser(r.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user logged in", token, nil, nil)
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.userService.LogoutUser(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user logged out", nil, nil, nil)
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.GetUserByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user retrieved", userservice.RenderUser(user, app.config.BaseURL, app.loc), nil, nil)
}

func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	// the authenticated context user carries only the token-lookup columns
	full, err := app.userService.GetUserByID(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user retrieved", userservice.RenderUser(full, app.config.BaseURL, app.loc), nil, nil)
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var input updateUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	updated, err := app.userService.UpdateUser(r.Context(), user.ID, input.Name, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user updated", userservice.RenderUser(updated, app.config.BaseURL, app.loc), nil, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (app *application) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var input changePasswordRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.userService.ChangePassword(r.Context(), user.ID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "password updated", nil, nil, nil)
}

func (app *application) getUserByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readPathParam(r, "username")

	user, err := app.userService.GetUserByUsername(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user retrieved", userservice.RenderUser(user, app.config.BaseURL, app.loc), nil, nil)
}

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := app.readQueryInt(r, "page")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	pageSize, err := app.readQueryInt(r, "page_size")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	users, meta, err := app.userService.ListUsers(r.Context(), page, pageSize)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "users retrieved", userservice.RenderUsers(users, app.config.BaseURL, app.loc), meta, nil)
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.userService.DeleteUser(r.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "user deleted", nil, nil, nil)
}

func (app *application) getUserLogsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)
	qs := r.URL.Query()

	page, err := app.readQueryInt(r, "page")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	pageSize, err := app.readQueryInt(r, "page_size")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filters := activityservice.LogFilters{
		StartDate: qs.Get("start_date"),
		EndDate:   qs.Get("end_date"),
		Page:      page,
		PageSize:  pageSize,
	}

	logs, meta, err := app.activityService.GetLogs(r.Context(), user.ID, filters)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "activity logs retrieved", logs, meta, nil)
}

// postErrorResponse translates the post service sentinels into HTTP statuses.
func (app *application) postErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, postservice.ErrPostNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, postservice.ErrCategoryNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, postservice.ErrUserNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, postservice.ErrNotOwner):
		app.notPermittedErrorResponse(w, r)
	case errors.As(err, &common.ValidationError{}):
		validationErr := err.(common.ValidationError)
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// listingErrorResponse translates listing failures. A filter naming an unknown
// category keeps the success envelope with an empty data array, matching
// getCategoryByNameHandler, so clients can always read data off a listing
// response.
func (app *application) listingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, postservice.ErrCategoryNotFound) {
		app.writeResponse(w, r, http.StatusNotFound, "category not found", []any{}, nil, nil)
		return
	}

	app.postErrorResponse(w, r, err)
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := app.readListingParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	posts, meta, err := app.postService.ListPosts(r.Context(), filters)
	if err != nil {
		app.listingErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "posts retrieved", app.postService.RenderPosts(posts, app.config.BaseURL), meta, nil)
}

func (app *application) scrollPostsHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := app.readCursorParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	posts, meta, err := app.postService.ListPostsCursor(r.Context(), filters)
	if err != nil {
		app.listingErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "posts retrieved", app.postService.RenderPosts(posts, app.config.BaseURL), meta, nil)
}

func (app *application) listPostsByUserHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readPathParam(r, "username")

	filters, err := app.readListingParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	posts, meta, err := app.postService.ListPostsByUser(r.Context(), username, filters)
	if err != nil {
		app.listingErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "posts retrieved", app.postService.RenderPosts(posts, app.config.BaseURL), meta, nil)
}

func (app *application) getPostByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, fromCache, err := app.postService.GetPostByID(r.Context(), id)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "post retrieved", app.postService.RenderPost(post, app.config.BaseURL), nil, &fromCache)
}

func (app *application) getPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readPathParam(r, "slug")

	post, fromCache, err := app.postService.GetPostBySlug(r.Context(), slug)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "post retrieved", app.postService.RenderPost(post, app.config.BaseURL), nil, &fromCache)
}

type createPostRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	CategoryID int     `json:"category_id"`
	Image      *string `json:"image"`
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input createPostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	post, err := app.postService.CreatePost(r.Context(), &postservice.CreatePostRequest{
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		Image:      input.Image,
		UserID:     user.ID,
	})
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusCreated, "post created", app.postService.RenderPost(post, app.config.BaseURL), nil, nil)
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input createPostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	post, err := app.postService.UpdatePost(r.Context(), &postservice.UpdatePostRequest{
		ID:         id,
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		Image:      input.Image,
		UserID:     user.ID,
	})
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "post updated", app.postService.RenderPost(post, app.config.BaseURL), nil, nil)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.postService.DeletePost(r.Context(), id, user.ID)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, "post deleted", nil, nil, nil)
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	page, err := app.readQueryInt(r, "page")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	pageSize, err := app.readQueryInt(r, "page_size")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filters := categoryservice.ListFilters{
		SortField:     qs.Get("order_by"),
		SortDirection: qs.Get("order"),
		Page:          page,
		PageSize:      pageSize,
	}

	categories, meta, err := app.categoryService.ListCategories(r.Context(), filters)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "categories retrieved", categories, meta, nil)
}

type createCategoryRequest struct {
	Name string `json:"category"`
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var input createCategoryRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	category, err := app.categoryService.CreateCategory(r.Context(), input.Name)
	if err != nil {
		switch {
		case errors.Is(err, categoryservice.ErrDuplicateCategory):
			app.failedValidationErrorResponse(w, r, map[string]string{"category": "this category already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusCreated, "category created", category, nil, nil)
}

// getCategoryByNameHandler answers a miss with 404 and an empty data array
// rather than the generic not-found error shape.
func (app *application) getCategoryByNameHandler(w http.ResponseWriter, r *http.Request) {
	name := app.readPathParam(r, "name")

	category, err := app.categoryService.GetCategoryByName(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, categoryservice.ErrCategoryNotFound):
			app.writeResponse(w, r, http.StatusNotFound, "category not found", []any{}, nil, nil)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.writeResponse(w, r, http.StatusOK, "category retrieved", category, nil, nil)
}
