package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/samyati/internal/common"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

type User struct {
	ID           int         `json:"id"`
	Subject      string      `json:"clerkId"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	Role         Role        `json:"role"`
	Bio          string      `json:"bio"`
	ProfileImage string      `json:"profileImage"`
	Country      string      `json:"country"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	Following    []string    `json:"following"`
	Followers    []string    `json:"followers"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PublicProfile is the reduced view served to anonymous visitors.
type PublicProfile struct {
	Username       string      `json:"username"`
	Bio            string      `json:"bio"`
	ProfileImage   string      `json:"profileImage"`
	Country        string      `json:"country"`
	SocialLinks    SocialLinks `json:"socialLinks"`
	FollowersCount int         `json:"followersCount"`
	FollowingCount int         `json:"followingCount"`
}

// ProfileUpdate carries a partial profile change. Nil fields keep their
// previous value.
type ProfileUpdate struct {
	Email        *string      `json:"email"`
	Username     *string      `json:"username"`
	Bio          *string      `json:"bio"`
	ProfileImage *string      `json:"profileImage"`
	Country      *string      `json:"country"`
	SocialLinks  *SocialLinks `json:"socialLinks"`
}

type UserService struct {
	m  *DBModel
	mb common.MessageProducer
	c  *common.Cache
}

type DBModel struct {
	db *sql.DB
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
