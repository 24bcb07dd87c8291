package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthCheckHandler)

	router.HandlerFunc(http.MethodGet, "/api/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireAuth(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id", app.showBlogHandler)
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.requireAuth(app.updateBlogHandler))
	router.HandlerFunc(http.MethodPost, "/api/blogs/:id/like", app.requireAuth(app.likeBlogHandler))
	router.HandlerFunc(http.MethodPost, "/api/blogs/:id/comment", app.requireAuth(app.commentBlogHandler))

	router.HandlerFunc(http.MethodGet, "/api/users/profile", app.requireAuth(app.getProfileHandler))
	router.HandlerFunc(http.MethodPost, "/api/users/profile", app.requireAuth(app.updateProfileHandler))
	router.HandlerFunc(http.MethodGet, "/api/users/profile/:clerkId", app.publicProfileHandler)
	router.HandlerFunc(http.MethodPost, "/api/users/follow/:clerkId", app.requireAuth(app.followUserHandler))
	router.HandlerFunc(http.MethodPost, "/api/users/unfollow/:clerkId", app.requireAuth(app.unfollowUserHandler))

	router.HandlerFunc(http.MethodGet, "/api/users", app.requireAdmin(app.listUsersHandler))
	router.HandlerFunc(http.MethodPut, "/api/users/:userId/role", app.requireAdmin(app.setUserRoleHandler))

	router.HandlerFunc(http.MethodGet, "/api/admin/dashboard", app.requireAdmin(app.dashboardHandler))
	router.HandlerFunc(http.MethodDelete, "/api/admin/blogs/:blogId", app.requireAdmin(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPut, "/api/admin/blogs/:blogId/feature", app.requireAdmin(app.featureBlogHandler))

	return app.recoverPanic(app.enableCORS(app.rateLimit(app.logRequest(app.authenticate(router)))))
}
