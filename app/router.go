package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/adiwicaksono/warta/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activate/:token", app.activateUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/users", app.requireAuthUser(app.updateUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/users/password", app.requireAuthUser(app.changePasswordHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/id/:id", app.getUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/username/:username", app.getUserByUsernameHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/me", app.requireAuthUser(app.getCurrentUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/logs", app.requireAuthUser(app.getUserLogsHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/users", app.requireAuthUser(app.deleteUserHandler))

	// post service
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/scroll", app.scrollPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/id/:id", app.getPostByIDHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/slug/:slug", app.getPostBySlugHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/user/:username", app.listPostsByUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requirePermission(app.createPostHandler, userservice.PermissionWritePost))
	router.HandlerFunc(http.MethodPatch, "/v1/posts/:id", app.requirePermission(app.updatePostHandler, userservice.PermissionWritePost))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:id", app.requirePermission(app.deletePostHandler, userservice.PermissionWritePost))

	// category service
	router.HandlerFunc(http.MethodGet, "/v1/categories", app.listCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/categories/:name", app.getCategoryByNameHandler)
	router.HandlerFunc(http.MethodPost, "/v1/categories", app.requirePermission(app.createCategoryHandler, userservice.PermissionWritePost))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
