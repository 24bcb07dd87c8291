package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/samyati/internal/blogservice"
	"github.com/sushihentaime/samyati/internal/common"
	"github.com/sushihentaime/samyati/internal/userservice"
)

func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)

	user, err := app.userService.GetOrCreateProfile(r.Context(), identity.Subject, identity.Email, identity.Username)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)

	var update userservice.ProfileUpdate

	err := app.readJSON(w, r, &update)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.userService.UpdateProfile(r.Context(), identity.Subject, identity.Email, identity.Username, &update)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
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

// publicProfileHandler serves the anonymous view of a profile together with
// the author's recent blogs.
func (app *application) publicProfileHandler(w http.ResponseWriter, r *http.Request) {
	subject := app.readStringParam(r, "clerkId")

	profile, err := app.userService.GetPublicProfile(r.Context(), subject)
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

	blogs, err := app.blogService.GetBlogsByAuthor(r.Context(), subject, 10)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if blogs == nil {
		blogs = []blogservice.BlogSummary{}
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"profile": profile, "blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) followUserHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)
	target := app.readStringParam(r, "clerkId")

	err := app.userService.Follow(r.Context(), identity.Subject, identity.Email, identity.Username, target)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, userservice.ErrSelfFollow), errors.Is(err, userservice.ErrAlreadyFollowing):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "successfully followed user"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) unfollowUserHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)
	target := app.readStringParam(r, "clerkId")

	err := app.userService.Unfollow(r.Context(), identity.Subject, target)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, userservice.ErrNotFollowing):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "successfully unfollowed user"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
