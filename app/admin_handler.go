package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/samyati/internal/blogservice"
	"github.com/sushihentaime/samyati/internal/common"
	"github.com/sushihentaime/samyati/internal/userservice"
)

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.userService.ListUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if users == nil {
		users = []userservice.User{}
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"users": users}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) setUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "userId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Role string `json:"role"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.userService.SetRole(r.Context(), id, userservice.Role(input.Role))
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// dashboardHandler aggregates the counts and lists shown on the admin landing
// page in a single response.
func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	totalUsers, err := app.userService.CountUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	totalAuthors, err := app.userService.CountAuthors(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	totalBlogs, err := app.blogService.CountBlogs(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	recentUsers, err := app.userService.RecentUsers(r.Context(), 5)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	recentBlogs, err := app.blogService.RecentBlogs(r.Context(), 5)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	popularBlogs, err := app.blogService.PopularBlogs(r.Context(), 5)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	dashboard := envelope{
		"totalUsers":   totalUsers,
		"totalAuthors": totalAuthors,
		"totalBlogs":   totalBlogs,
		"recentUsers":  recentUsers,
		"recentBlogs":  recentBlogs,
		"popularBlogs": popularBlogs,
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"dashboard": dashboard}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "blogId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.blogService.DeleteBlog(r.Context(), id)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) featureBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "blogId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	featured, err := app.blogService.FeatureBlog(r.Context(), id)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"featured": featured}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
