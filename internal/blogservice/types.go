package blogservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/samyati/internal/common"
)

// Image is an inline image blob. Data marshals to a base64 string in JSON, so
// responses are text safe without an extra encoding step.
type Image struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
}

type Comment struct {
	ID             int       `json:"id"`
	Text           string    `json:"text"`
	Author         string    `json:"author"`
	AuthorUsername string    `json:"authorUsername"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Blog struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content string `json:"content"`
	// Author is the subject id of the creator; AuthorUsername is a snapshot
	// taken at creation time and is not kept in sync with later renames.
	Author         string    `json:"author"`
	AuthorUsername string    `json:"authorUsername"`
	Image          *Image    `json:"image,omitempty"`
	Likes          []string  `json:"likes"`
	Comments       []Comment `json:"comments"`
	Featured       bool      `json:"featured"`
	Categories     []string  `json:"categories"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Version        int       `json:"version"`
}

// BlogSummary is the listing view: no content or comment bodies, counts
// instead.
type BlogSummary struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	AuthorUsername string    `json:"authorUsername"`
	Image          *Image    `json:"image,omitempty"`
	Featured       bool      `json:"featured"`
	Categories     []string  `json:"categories"`
	Tags           []string  `json:"tags"`
	LikesCount     int       `json:"likesCount"`
	CommentsCount  int       `json:"commentsCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
