package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// uniqueViolation reports whether the error is a unique constraint violation
// on the named constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

// insertIfAbsent inserts a profile seeded from token claims unless one already
// exists for the subject. Safe to call concurrently for the same subject.
func (m *DBModel) insertIfAbsent(ctx context.Context, subject, email, username string) error {
	query := `
		INSERT INTO users (clerk_id, email, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (clerk_id) DO NOTHING`

	_, err := m.db.ExecContext(ctx, query, subject, email, username)
	return err
}

func (m *DBModel) getBySubject(ctx context.Context, subject string) (*User, error) {
	query := `
		SELECT u.id, u.clerk_id, u.email, u.username, u.role, u.bio, u.profile_image, u.country,
			u.social_twitter, u.social_instagram, u.social_facebook, u.created_at, u.updated_at,
			ARRAY(SELECT followed_id FROM user_follows WHERE follower_id = u.clerk_id ORDER BY created_at),
			ARRAY(SELECT follower_id FROM user_follows WHERE followed_id = u.clerk_id ORDER BY created_at)
		FROM users u
		WHERE u.clerk_id = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, subject).Scan(
		&u.ID,
		&u.Subject,
		&u.Email,
		&u.Username,
		&u.Role,
		&u.Bio,
		&u.ProfileImage,
		&u.Country,
		&u.SocialLinks.Twitter,
		&u.SocialLinks.Instagram,
		&u.SocialLinks.Facebook,
		&u.CreatedAt,
		&u.UpdatedAt,
		pq.Array(&u.Following),
		pq.Array(&u.Followers),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, clerk_id, email, username, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Subject, &u.Email, &u.Username, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) updateProfile(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET email = $1, username = $2, bio = $3, profile_image = $4, country = $5,
			social_twitter = $6, social_instagram = $7, social_facebook = $8, updated_at = now()
		WHERE clerk_id = $9
		RETURNING updated_at`

	args := []any{
		u.Email,
		u.Username,
		u.Bio,
		u.ProfileImage,
		u.Country,
		u.SocialLinks.Twitter,
		u.SocialLinks.Instagram,
		u.SocialLinks.Facebook,
		u.Subject,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		default:
			return err
		}
	}

	return nil
}

// follow records the relation as a single row, so both directions of the graph
// are always consistent. A duplicate insert means the relation already exists.
func (m *DBModel) follow(ctx context.Context, followerSubject, followedSubject string) error {
	query := `
		INSERT INTO user_follows (follower_id, followed_id)
		VALUES ($1, $2)`

	_, err := m.db.ExecContext(ctx, query, followerSubject, followedSubject)
	if err != nil {
		switch {
		case uniqueViolation(err, "user_follows_pkey"):
			return ErrAlreadyFollowing
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) unfollow(ctx context.Context, followerSubject, followedSubject string) error {
	query := `
		DELETE FROM user_follows
		WHERE follower_id = $1 AND followed_id = $2`

	res, err := m.db.ExecContext(ctx, query, followerSubject, followedSubject)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFollowing
	}

	return nil
}

func (m *DBModel) followCounts(ctx context.Context, subject string) (followers int, following int, err error) {
	query := `
		SELECT
			(SELECT count(*) FROM user_follows WHERE followed_id = $1),
			(SELECT count(*) FROM user_follows WHERE follower_id = $1)`

	err = m.db.QueryRowContext(ctx, query, subject).Scan(&followers, &following)
	if err != nil {
		return 0, 0, err
	}

	return followers, following, nil
}

func (m *DBModel) setRole(ctx context.Context, id int, role Role) error {
	query := `
		UPDATE users
		SET role = $1, updated_at = now()
		WHERE id = $2`

	res, err := m.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *DBModel) list(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, clerk_id, email, username, role, created_at
		FROM users
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Subject, &u.Email, &u.Username, &u.Role, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (m *DBModel) count(ctx context.Context) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func (m *DBModel) countByRole(ctx context.Context, role Role) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, err
}

func (m *DBModel) recent(ctx context.Context, limit int) ([]User, error) {
	query := `
		SELECT id, clerk_id, email, username, role, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Subject, &u.Email, &u.Username, &u.Role, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
