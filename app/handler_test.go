package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/api/healthcheck", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])
}

func TestListBlogsAnonymous(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/api/blogs", nil)

	assert.Equal(t, http.StatusOK, status)

	blogs, ok := body["blogs"].([]any)
	assert.True(t, ok, "expected blogs to be an array")
	assert.Empty(t, blogs)
}

func TestCreateBlogRequiresAuth(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.postForm(t, http.MethodPost, "/api/blogs", map[string]string{
		"title":   "Trip to Kyoto",
		"content": "Autumn leaves everywhere.",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid or missing authentication token", body["error"])
}

func TestBlogLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	author := mintToken(t, app, "user_author", "author@example.com", "author")
	reader := mintToken(t, app, "user_reader", "reader@example.com", "reader")

	// create
	status, _, body := ts.postForm(t, http.MethodPost, "/api/blogs", map[string]string{
		"title":   "Trip to Kyoto",
		"content": "Autumn leaves everywhere.",
	}, author)
	assert.Equal(t, http.StatusCreated, status)

	blog, ok := body["blog"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Trip to Kyoto", blog["title"])
	assert.Equal(t, "author", blog["authorUsername"])

	blogID := int(blog["id"].(float64))
	path := "/api/blogs/" + itoa(blogID)

	// fetch
	status, _, body = ts.get(t, path, nil)
	assert.Equal(t, http.StatusOK, status)
	fetched := body["blog"].(map[string]any)
	assert.Equal(t, "Autumn leaves everywhere.", fetched["content"])

	// missing fields rejected
	status, _, _ = ts.postForm(t, http.MethodPost, "/api/blogs", map[string]string{"title": ""}, author)
	assert.Equal(t, http.StatusBadRequest, status)

	// like once
	status, _, body = ts.post(t, path+"/like", nil, reader)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["likes"])

	// like twice
	status, _, body = ts.post(t, path+"/like", nil, reader)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "already liked this blog", body["error"])

	// comment
	status, _, body = ts.post(t, path+"/comment", map[string]string{"text": "Lovely photos!"}, reader)
	assert.Equal(t, http.StatusCreated, status)
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "Lovely photos!", comment["text"])
	assert.Equal(t, "reader", comment["authorUsername"])

	// edit by someone who is not the author
	status, _, _ = ts.postForm(t, http.MethodPut, path, map[string]string{"title": "Hijacked"}, reader)
	assert.Equal(t, http.StatusForbidden, status)

	// partial edit by the author keeps untouched fields
	status, _, body = ts.postForm(t, http.MethodPut, path, map[string]string{"title": "Kyoto Revisited"}, author)
	assert.Equal(t, http.StatusOK, status)
	updated := body["blog"].(map[string]any)
	assert.Equal(t, "Kyoto Revisited", updated["title"])
	assert.Equal(t, "Autumn leaves everywhere.", updated["content"])

	// unknown blog
	status, _, _ = ts.get(t, "/api/blogs/999999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProfileAndFollow(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	alice := mintToken(t, app, "user_alice", "alice@example.com", "alice")
	bob := mintToken(t, app, "user_bob", "bob@example.com", "bob")

	// first contact creates the profile from claims
	status, _, body := ts.get(t, "/api/users/profile", alice)
	assert.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "user", user["role"])

	// and is idempotent
	status, _, _ = ts.get(t, "/api/users/profile", alice)
	assert.Equal(t, http.StatusOK, status)

	// profile update merges fields
	status, _, body = ts.post(t, "/api/users/profile", map[string]any{
		"bio":     "Travel addict",
		"country": "Japan",
	}, alice)
	assert.Equal(t, http.StatusOK, status)
	user = body["user"].(map[string]any)
	assert.Equal(t, "Travel addict", user["bio"])
	assert.Equal(t, "Japan", user["country"])
	assert.Equal(t, "alice", user["username"])

	// bob needs a directory entry before anyone can follow him
	status, _, _ = ts.get(t, "/api/users/profile", bob)
	assert.Equal(t, http.StatusOK, status)

	// follow
	status, _, _ = ts.post(t, "/api/users/follow/user_bob", nil, alice)
	assert.Equal(t, http.StatusOK, status)

	// both sides observe the relation
	status, _, body = ts.get(t, "/api/users/profile/user_bob", nil)
	assert.Equal(t, http.StatusOK, status)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, float64(1), profile["followersCount"])

	status, _, body = ts.get(t, "/api/users/profile/user_alice", nil)
	assert.Equal(t, http.StatusOK, status)
	profile = body["profile"].(map[string]any)
	assert.Equal(t, float64(1), profile["followingCount"])

	// duplicate follow
	status, _, _ = ts.post(t, "/api/users/follow/user_bob", nil, alice)
	assert.Equal(t, http.StatusBadRequest, status)

	// self follow
	status, _, _ = ts.post(t, "/api/users/follow/user_alice", nil, alice)
	assert.Equal(t, http.StatusBadRequest, status)

	// follow a ghost
	status, _, _ = ts.post(t, "/api/users/follow/user_ghost", nil, alice)
	assert.Equal(t, http.StatusNotFound, status)

	// unfollow undoes the relation
	status, _, _ = ts.post(t, "/api/users/unfollow/user_bob", nil, alice)
	assert.Equal(t, http.StatusOK, status)

	status, _, body = ts.get(t, "/api/users/profile/user_bob", nil)
	assert.Equal(t, http.StatusOK, status)
	profile = body["profile"].(map[string]any)
	assert.Equal(t, float64(0), profile["followersCount"])

	// unfollow without a relation
	status, _, _ = ts.post(t, "/api/users/unfollow/user_bob", nil, alice)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminEndpoints(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	admin := mintToken(t, app, "user_admin", "admin@example.com", "admin")
	member := mintToken(t, app, "user_member", "member@example.com", "member")

	// create both directory entries
	status, _, _ := ts.get(t, "/api/users/profile", admin)
	assert.Equal(t, http.StatusOK, status)
	status, _, body := ts.get(t, "/api/users/profile", member)
	assert.Equal(t, http.StatusOK, status)
	memberID := int(body["user"].(map[string]any)["id"].(float64))

	// admin routes are closed to plain users
	status, _, _ = ts.get(t, "/api/admin/dashboard", member)
	assert.Equal(t, http.StatusForbidden, status)
	status, _, _ = ts.get(t, "/api/users", member)
	assert.Equal(t, http.StatusForbidden, status)

	// and to anonymous visitors
	status, _, _ = ts.get(t, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// promote through the backing store; role checks are per request
	_, err := db.Exec("UPDATE users SET role = 'admin' WHERE clerk_id = $1", "user_admin")
	assert.NoError(t, err)

	// seed a blog to manage
	status, _, body = ts.postForm(t, http.MethodPost, "/api/blogs", map[string]string{
		"title":   "Hidden Beaches",
		"content": "Five beaches you have never heard of.",
	}, member)
	assert.Equal(t, http.StatusCreated, status)
	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	// dashboard aggregates
	status, _, body = ts.get(t, "/api/admin/dashboard", admin)
	assert.Equal(t, http.StatusOK, status)
	dashboard := body["dashboard"].(map[string]any)
	assert.Equal(t, float64(2), dashboard["totalUsers"])
	assert.Equal(t, float64(1), dashboard["totalBlogs"])

	// user listing
	status, _, body = ts.get(t, "/api/users", admin)
	assert.Equal(t, http.StatusOK, status)
	users := body["users"].([]any)
	assert.Len(t, users, 2)

	// role change
	status, _, body = ts.put(t, "/api/users/"+itoa(memberID)+"/role", map[string]string{"role": "author"}, admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "author", body["user"].(map[string]any)["role"])

	// invalid role rejected
	status, _, _ = ts.put(t, "/api/users/"+itoa(memberID)+"/role", map[string]string{"role": "emperor"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	// feature toggle flips back and forth
	featurePath := "/api/admin/blogs/" + itoa(blogID) + "/feature"
	status, _, body = ts.put(t, featurePath, nil, admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["featured"])

	status, _, body = ts.put(t, featurePath, nil, admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["featured"])

	// delete removes the blog and everything hanging off it
	status, _, _ = ts.delete(t, "/api/admin/blogs/"+itoa(blogID), admin)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.delete(t, "/api/admin/blogs/"+itoa(blogID), admin)
	assert.Equal(t, http.StatusNotFound, status)
}
