package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrAuthorForeignKey = errors.New("author does not exist")
	ErrAlreadyLiked     = errors.New("already liked this blog")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

// insert stores a new blog, taking the author's current username as a
// denormalized snapshot in the same statement.
func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (title, content, author_id, author_username, image, image_content_type, categories, tags)
		VALUES ($1, $2, $3, coalesce((SELECT username FROM users WHERE clerk_id = $3), 'Unknown Author'), $4, $5, $6, $7)
		RETURNING id, author_username, featured, created_at, updated_at, version`

	var imageData []byte
	var imageContentType string
	if b.Image != nil {
		imageData = b.Image.Data
		imageContentType = b.Image.ContentType
	}

	args := []any{
		b.Title,
		b.Content,
		b.Author,
		imageData,
		imageContentType,
		pq.Array(b.Categories),
		pq.Array(b.Tags),
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.AuthorUsername, &b.Featured, &b.CreatedAt, &b.UpdatedAt, &b.Version)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.content, b.author_id, b.author_username, b.image, b.image_content_type,
			b.featured, b.categories, b.tags, b.created_at, b.updated_at, b.version,
			ARRAY(SELECT user_id FROM blog_likes l WHERE l.blog_id = b.id ORDER BY l.created_at)
		FROM blogs b
		WHERE b.id = $1`

	var b Blog
	var imageData []byte
	var imageContentType string

	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.Content,
		&b.Author,
		&b.AuthorUsername,
		&imageData,
		&imageContentType,
		&b.Featured,
		pq.Array(&b.Categories),
		pq.Array(&b.Tags),
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Version,
		pq.Array(&b.Likes),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if len(imageData) > 0 {
		b.Image = &Image{Data: imageData, ContentType: imageContentType}
	}

	comments, err := m.getComments(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Comments = comments

	return &b, nil
}

// getComments returns the comments of a blog in insertion order.
func (m *BlogModel) getComments(ctx context.Context, blogID int) ([]Comment, error) {
	query := `
		SELECT id, content, author_id, author_username, created_at
		FROM blog_comments
		WHERE blog_id = $1
		ORDER BY created_at, id`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.Text, &c.Author, &c.AuthorUsername, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

const summaryColumns = `
	b.id, b.title, b.author_id, b.author_username, b.image, b.image_content_type,
	b.featured, b.categories, b.tags, b.created_at,
	(SELECT count(*) FROM blog_likes l WHERE l.blog_id = b.id),
	(SELECT count(*) FROM blog_comments c WHERE c.blog_id = b.id)`

func scanSummaries(rows *sql.Rows) ([]BlogSummary, error) {
	defer rows.Close()

	var blogs []BlogSummary
	for rows.Next() {
		var b BlogSummary
		var imageData []byte
		var imageContentType string

		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Author,
			&b.AuthorUsername,
			&imageData,
			&imageContentType,
			&b.Featured,
			pq.Array(&b.Categories),
			pq.Array(&b.Tags),
			&b.CreatedAt,
			&b.LikesCount,
			&b.CommentsCount,
		)
		if err != nil {
			return nil, err
		}

		if len(imageData) > 0 {
			b.Image = &Image{Data: imageData, ContentType: imageContentType}
		}

		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// list returns blog summaries, newest first.
func (m *BlogModel) list(ctx context.Context, limit, offset int) ([]BlogSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2`, summaryColumns)

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return scanSummaries(rows)
}

func (m *BlogModel) listByAuthor(ctx context.Context, subject string, limit int) ([]BlogSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		WHERE b.author_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2`, summaryColumns)

	rows, err := m.db.QueryContext(ctx, query, subject, limit)
	if err != nil {
		return nil, err
	}

	return scanSummaries(rows)
}

func (m *BlogModel) update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, image = $3, image_content_type = $4, updated_at = now(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at`

	var imageData []byte
	var imageContentType string
	if b.Image != nil {
		imageData = b.Image.Data
		imageContentType = b.Image.ContentType
	}

	err := m.db.QueryRowContext(ctx, query, b.Title, b.Content, imageData, imageContentType, b.ID, b.Version).Scan(&b.Version, &b.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// like appends the user to the like set atomically; the primary key keeps the
// set free of duplicates without a read-modify-write cycle.
func (m *BlogModel) like(ctx context.Context, blogID int, subject string) (int, error) {
	query := `
		INSERT INTO blog_likes (blog_id, user_id)
		VALUES ($1, $2)`

	_, err := m.db.ExecContext(ctx, query, blogID, subject)
	if err != nil {
		switch {
		case uniqueViolation(err, "blog_likes_pkey"):
			return 0, ErrAlreadyLiked
		case ForeignKeyError(err, "blog_likes_blog_id_fkey"):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}

	var count int
	err = m.db.QueryRowContext(ctx, `SELECT count(*) FROM blog_likes WHERE blog_id = $1`, blogID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// comment appends a comment, snapshotting the author's current username.
func (m *BlogModel) comment(ctx context.Context, blogID int, subject, text string) (*Comment, error) {
	query := `
		INSERT INTO blog_comments (blog_id, author_id, author_username, content)
		VALUES ($1, $2, coalesce((SELECT username FROM users WHERE clerk_id = $2), 'Anonymous'), $3)
		RETURNING id, author_username, created_at`

	c := Comment{
		Text:   text,
		Author: subject,
	}

	err := m.db.QueryRowContext(ctx, query, blogID, subject, text).Scan(&c.ID, &c.AuthorUsername, &c.CreatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blog_comments_blog_id_fkey"):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

// delete removes the blog; likes and comments go with it through the cascade.
func (m *BlogModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// toggleFeatured flips the curation flag and returns the new state.
func (m *BlogModel) toggleFeatured(ctx context.Context, id int) (bool, error) {
	query := `
		UPDATE blogs
		SET featured = NOT featured, updated_at = now()
		WHERE id = $1
		RETURNING featured`

	var featured bool
	err := m.db.QueryRowContext(ctx, query, id).Scan(&featured)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return false, ErrRecordNotFound
		default:
			return false, err
		}
	}

	return featured, nil
}

func (m *BlogModel) count(ctx context.Context) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT count(*) FROM blogs`).Scan(&n)
	return n, err
}

func (m *BlogModel) recent(ctx context.Context, limit int) ([]BlogSummary, error) {
	return m.list(ctx, limit, 0)
}

func (m *BlogModel) popular(ctx context.Context, limit int) ([]BlogSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		ORDER BY (SELECT count(*) FROM blog_likes l WHERE l.blog_id = b.id) DESC, b.created_at DESC
		LIMIT $1`, summaryColumns)

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return scanSummaries(rows)
}
