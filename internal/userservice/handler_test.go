package userservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/samyati/internal/common"
)

// recordingProducer captures published events instead of touching a broker.
type recordingProducer struct {
	messages [][]byte
}

func (p *recordingProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.messages = append(p.messages, msg)
	return nil
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *recordingProducer) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	producer := &recordingProducer{}

	return NewUserService(db, producer, cache), db, producer
}

func TestGetOrCreateProfile(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	user, err := s.GetOrCreateProfile(ctx, "user_alice", "alice@example.com", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "user_alice", user.Subject)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleUser, user.Role)

	// a second call returns the same row rather than inserting
	again, err := s.GetOrCreateProfile(ctx, "user_alice", "other@example.com", "other")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "alice", again.Username)

	// tokens without profile claims still get a directory entry
	ghost, err := s.GetOrCreateProfile(ctx, "user_noclaims", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "unknown", ghost.Email)
	assert.Equal(t, "user", ghost.Username)

	_, err = s.GetOrCreateProfile(ctx, "", "x@example.com", "x")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.GetOrCreateProfile(ctx, "user_alice", "alice@example.com", "alice")
	assert.NoError(t, err)

	bio := "Travel addict"
	country := "Japan"
	user, err := s.UpdateProfile(ctx, "user_alice", "alice@example.com", "alice", &ProfileUpdate{
		Bio:     &bio,
		Country: &country,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Travel addict", user.Bio)
	assert.Equal(t, "Japan", user.Country)

	// untouched fields keep their value across updates
	links := SocialLinks{Twitter: "https://twitter.com/alice"}
	user, err = s.UpdateProfile(ctx, "user_alice", "alice@example.com", "alice", &ProfileUpdate{
		SocialLinks: &links,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Travel addict", user.Bio)
	assert.Equal(t, "Japan", user.Country)
	assert.Equal(t, "https://twitter.com/alice", user.SocialLinks.Twitter)

	badEmail := "not-an-email"
	_, err = s.UpdateProfile(ctx, "user_alice", "alice@example.com", "alice", &ProfileUpdate{
		Email: &badEmail,
	})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"email": "must be a valid email address"}}, err)
}

func TestFollow(t *testing.T) {
	s, _, producer := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.GetOrCreateProfile(ctx, "user_bob", "bob@example.com", "bob")
	assert.NoError(t, err)

	// the follower's profile is created lazily from claims
	err = s.Follow(ctx, "user_alice", "alice@example.com", "alice", "user_bob")
	assert.NoError(t, err)

	// the relation is visible from both sides
	alice, err := s.GetProfile(ctx, "user_alice")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_bob"}, alice.Following)
	assert.Empty(t, alice.Followers)

	bob, err := s.GetProfile(ctx, "user_bob")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_alice"}, bob.Followers)
	assert.Empty(t, bob.Following)

	// the notification pipeline saw exactly one event
	assert.Len(t, producer.messages, 1)
	assert.Contains(t, string(producer.messages[0]), "bob@example.com")
	assert.Contains(t, string(producer.messages[0]), "alice")

	// duplicate follow leaves the graph unchanged
	err = s.Follow(ctx, "user_alice", "alice@example.com", "alice", "user_bob")
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	bob, err = s.GetProfile(ctx, "user_bob")
	assert.NoError(t, err)
	assert.Len(t, bob.Followers, 1)
	assert.Len(t, producer.messages, 1)

	err = s.Follow(ctx, "user_alice", "alice@example.com", "alice", "user_alice")
	assert.ErrorIs(t, err, ErrSelfFollow)

	err = s.Follow(ctx, "user_alice", "alice@example.com", "alice", "user_ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.GetOrCreateProfile(ctx, "user_bob", "bob@example.com", "bob")
	assert.NoError(t, err)

	err = s.Follow(ctx, "user_alice", "alice@example.com", "alice", "user_bob")
	assert.NoError(t, err)

	err = s.Unfollow(ctx, "user_alice", "user_bob")
	assert.NoError(t, err)

	// unfollow is the exact inverse of follow
	alice, err := s.GetProfile(ctx, "user_alice")
	assert.NoError(t, err)
	assert.Empty(t, alice.Following)

	bob, err := s.GetProfile(ctx, "user_bob")
	assert.NoError(t, err)
	assert.Empty(t, bob.Followers)

	err = s.Unfollow(ctx, "user_alice", "user_bob")
	assert.ErrorIs(t, err, ErrNotFollowing)

	err = s.Unfollow(ctx, "user_alice", "user_ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublicProfile(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.GetOrCreateProfile(ctx, "user_bob", "bob@example.com", "bob")
	assert.NoError(t, err)

	err = s.Follow(ctx, "user_alice", "alice@example.com", "alice", "user_bob")
	assert.NoError(t, err)

	profile, err := s.GetPublicProfile(ctx, "user_bob")
	assert.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, 1, profile.FollowersCount)
	assert.Equal(t, 0, profile.FollowingCount)

	// counts stay fresh after an unfollow despite the cache
	err = s.Unfollow(ctx, "user_alice", "user_bob")
	assert.NoError(t, err)

	profile, err = s.GetPublicProfile(ctx, "user_bob")
	assert.NoError(t, err)
	assert.Equal(t, 0, profile.FollowersCount)

	_, err = s.GetPublicProfile(ctx, "user_ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRole(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	user, err := s.GetOrCreateProfile(ctx, "user_alice", "alice@example.com", "alice")
	assert.NoError(t, err)

	updated, err := s.SetRole(ctx, user.ID, RoleAuthor)
	assert.NoError(t, err)
	assert.Equal(t, RoleAuthor, updated.Role)

	_, err = s.SetRole(ctx, user.ID, Role("emperor"))
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"role": "must be one of user, author, or admin"}}, err)

	_, err = s.SetRole(ctx, 999999, RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardCounts(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	alice, err := s.GetOrCreateProfile(ctx, "user_alice", "alice@example.com", "alice")
	assert.NoError(t, err)
	_, err = s.GetOrCreateProfile(ctx, "user_bob", "bob@example.com", "bob")
	assert.NoError(t, err)

	_, err = s.SetRole(ctx, alice.ID, RoleAuthor)
	assert.NoError(t, err)

	total, err := s.CountUsers(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)

	authors, err := s.CountAuthors(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, authors)

	recent, err := s.RecentUsers(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, recent, 1)
}
