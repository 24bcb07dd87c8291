package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/samyati/internal/blogservice"
	"github.com/sushihentaime/samyati/internal/common"
)

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	limit := app.readInt(qs, "limit", 10)
	offset := app.readInt(qs, "offset", 0)

	blogs, err := app.blogService.GetBlogs(r.Context(), limit, offset)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if blogs == nil {
		blogs = []blogservice.BlogSummary{}
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	blog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)

	err := r.ParseMultipartForm(maxImageBytes)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	image, err := app.readImageFile(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// The blogs table references the user directory, so make sure the
	// author's entry exists before inserting.
	_, err = app.userService.GetOrCreateProfile(r.Context(), identity.Subject, identity.Email, identity.Username)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.CreateBlog(r.Context(), &blogservice.CreateBlogRequest{
		Title:      r.FormValue("title"),
		Content:    r.FormValue("content"),
		Author:     identity.Subject,
		Image:      image,
		Categories: r.Form["categories"],
		Tags:       r.Form["tags"],
	})
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, blogservice.ErrAuthorForeignKey):
			app.invalidAuthenticationTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseMultipartForm(maxImageBytes)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req blogservice.UpdateBlogRequest

	if vals, ok := r.MultipartForm.Value["title"]; ok && len(vals) > 0 {
		req.Title = &vals[0]
	}
	if vals, ok := r.MultipartForm.Value["content"]; ok && len(vals) > 0 {
		req.Content = &vals[0]
	}

	image, err := app.readImageFile(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	req.Image = image

	blog, err := app.blogService.UpdateBlog(r.Context(), identity.Subject, id, &req)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.notPermittedResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) likeBlogHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	count, err := app.blogService.LikeBlog(r.Context(), identity.Subject, id)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr.Errors)
		case errors.Is(err, blogservice.ErrAlreadyLiked):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"likes": count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) commentBlogHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.contextGetIdentity(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Text string `json:"text"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	comment, err := app.blogService.CommentBlog(r.Context(), identity.Subject, id, input.Text)
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

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
