package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/samyati/internal/common"
)

// ErrNotOwner is returned when a mutation is attempted by someone other than
// the blog's author.
var ErrNotOwner = errors.New("not the author of this blog")

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{
		m: newBlogModel(db),
		c: c,
	}
}

type CreateBlogRequest struct {
	Title      string
	Content    string
	Author     string
	Image      *Image
	Categories []string
	Tags       []string
}

// UpdateBlogRequest is a partial edit; nil fields keep their stored value.
type UpdateBlogRequest struct {
	Title   *string
	Content *string
	Image   *Image
}

// invalidate drops the cached view of a single blog and every cached list
// page; list pages embed like and comment counts, so any mutation stales them.
func (s *BlogService) invalidate(id int) {
	s.c.Delete(common.CacheKeyBlog(id))
	s.c.Flush()
}

// CreateBlog stores a new blog post. The author's display name is snapshotted
// at creation time and does not track later renames.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateSubject(v, req.Author)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b := Blog{
		Title:      req.Title,
		Content:    sanitizeMarkdown(req.Content),
		Author:     req.Author,
		Image:      req.Image,
		Categories: req.Categories,
		Tags:       req.Tags,
	}

	err := s.m.insert(ctx, &b)
	if err != nil {
		return nil, err
	}

	s.invalidate(b.ID)

	return &b, nil
}

// GetBlogByID returns the full blog with likes and comments.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
		return cached.(*Blog), nil
	}

	blog, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(id), blog)

	return blog, nil
}

// GetBlogs returns blog summaries, newest first. Default limit is 10 and
// default offset is 0.
func (s *BlogService) GetBlogs(ctx context.Context, limit, offset int) ([]BlogSummary, error) {
	if limit < 1 {
		limit = 10
	}

	if offset < 0 {
		offset = 0
	}

	if cached, ok := s.c.Get(common.CacheKeyBlogs(limit, offset)); ok {
		return cached.([]BlogSummary), nil
	}

	blogs, err := s.m.list(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogs(limit, offset), blogs)

	return blogs, nil
}

// GetBlogsByAuthor returns the author's most recent blog summaries.
func (s *BlogService) GetBlogsByAuthor(ctx context.Context, subject string, limit int) ([]BlogSummary, error) {
	v := common.NewValidator()
	validateSubject(v, subject)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if limit < 1 {
		limit = 10
	}

	if cached, ok := s.c.Get(common.CacheKeyBlogsByAuthor(subject)); ok {
		return cached.([]BlogSummary), nil
	}

	blogs, err := s.m.listByAuthor(ctx, subject, limit)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogsByAuthor(subject), blogs)

	return blogs, nil
}

// UpdateBlog applies a partial edit. Only the author may edit; anyone else
// gets ErrNotOwner.
func (s *BlogService) UpdateBlog(ctx context.Context, requester string, id int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateSubject(v, requester)
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if req.Content != nil {
		validateContent(v, *req.Content)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.Author != requester {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = sanitizeMarkdown(*req.Content)
	}
	if req.Image != nil {
		blog.Image = req.Image
	}

	err = s.m.update(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.invalidate(id)

	return blog, nil
}

// LikeBlog appends the user to the blog's like set and returns the new count.
// A user can like a blog at most once; there is no unlike operation.
func (s *BlogService) LikeBlog(ctx context.Context, subject string, id int) (int, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateSubject(v, subject)
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	count, err := s.m.like(ctx, id, subject)
	if err != nil {
		return 0, err
	}

	s.invalidate(id)

	return count, nil
}

// CommentBlog appends a comment with a denormalized author display name.
// Comments are append-only; there is no edit or delete.
func (s *BlogService) CommentBlog(ctx context.Context, subject string, id int, text string) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateSubject(v, subject)
	validateCommentText(v, text)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment, err := s.m.comment(ctx, id, subject, text)
	if err != nil {
		return nil, err
	}

	s.invalidate(id)

	return comment, nil
}

// DeleteBlog removes the blog and its embedded likes and comments in one
// statement. Admin-only; the gate is enforced by the caller.
func (s *BlogService) DeleteBlog(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.delete(ctx, id)
	if err != nil {
		return err
	}

	s.invalidate(id)

	return nil
}

// FeatureBlog toggles the curation flag and returns the new state.
func (s *BlogService) FeatureBlog(ctx context.Context, id int) (bool, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return false, v.ValidationError()
	}

	featured, err := s.m.toggleFeatured(ctx, id)
	if err != nil {
		return false, err
	}

	s.invalidate(id)

	return featured, nil
}

func (s *BlogService) CountBlogs(ctx context.Context) (int, error) {
	return s.m.count(ctx)
}

func (s *BlogService) RecentBlogs(ctx context.Context, limit int) ([]BlogSummary, error) {
	if limit < 1 {
		limit = 5
	}

	return s.m.recent(ctx, limit)
}

func (s *BlogService) PopularBlogs(ctx context.Context, limit int) ([]BlogSummary, error) {
	if limit < 1 {
		limit = 5
	}

	return s.m.popular(ctx, limit)
}
