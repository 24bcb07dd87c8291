package userservice

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sushihentaime/samyati/internal/common"
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
		c:  c,
	}
}

// GetOrCreateProfile returns the profile for the verified subject, creating it
// from the token claim defaults on first contact. Idempotent for a given
// subject.
func (s *UserService) GetOrCreateProfile(ctx context.Context, subject, email, username string) (*User, error) {
	v := common.NewValidator()
	validateSubject(v, subject)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getBySubject(ctx, subject)
	if err == nil {
		return user, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	// Claims may not carry profile fields; fall back to placeholders so the
	// directory entry still exists.
	if email == "" {
		email = "unknown"
	}
	if username == "" {
		username = "user"
	}

	err = s.m.insertIfAbsent(ctx, subject, email, username)
	if err != nil {
		return nil, err
	}

	return s.m.getBySubject(ctx, subject)
}

// UpdateProfile applies a partial update with merge semantics: fields left nil
// keep their stored value. The profile is created first if absent.
func (s *UserService) UpdateProfile(ctx context.Context, subject, email, username string, update *ProfileUpdate) (*User, error) {
	v := common.NewValidator()
	validateSubject(v, subject)
	if update.Email != nil {
		validateEmail(v, *update.Email)
	}
	if update.Username != nil {
		validateUsername(v, *update.Username)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.GetOrCreateProfile(ctx, subject, email, username)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.ProfileImage != nil {
		user.ProfileImage = *update.ProfileImage
	}
	if update.Country != nil {
		user.Country = *update.Country
	}
	if update.SocialLinks != nil {
		user.SocialLinks = *update.SocialLinks
	}

	err = s.m.updateProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPublicProfile(subject))

	return user, nil
}

// GetProfile returns the profile for the subject without creating one.
func (s *UserService) GetProfile(ctx context.Context, subject string) (*User, error) {
	v := common.NewValidator()
	validateSubject(v, subject)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBySubject(ctx, subject)
}

// GetPublicProfile returns the anonymous view of a profile together with its
// follow counts.
func (s *UserService) GetPublicProfile(ctx context.Context, subject string) (*PublicProfile, error) {
	v := common.NewValidator()
	validateSubject(v, subject)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPublicProfile(subject)); ok {
		return cached.(*PublicProfile), nil
	}

	user, err := s.m.getBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	followers, following, err := s.m.followCounts(ctx, subject)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{
		Username:       user.Username,
		Bio:            user.Bio,
		ProfileImage:   user.ProfileImage,
		Country:        user.Country,
		SocialLinks:    user.SocialLinks,
		FollowersCount: followers,
		FollowingCount: following,
	}

	s.c.Set(common.CacheKeyPublicProfile(subject), profile)

	return profile, nil
}

// Follow records the requester following the target as one logical operation
// and publishes a user.followed event for the notification pipeline. The
// requester's profile is created lazily from claims if absent.
func (s *UserService) Follow(ctx context.Context, requesterSubject, requesterEmail, requesterUsername, targetSubject string) error {
	v := common.NewValidator()
	validateSubject(v, requesterSubject)
	validateSubject(v, targetSubject)
	if !v.Valid() {
		return v.ValidationError()
	}

	if requesterSubject == targetSubject {
		return ErrSelfFollow
	}

	target, err := s.m.getBySubject(ctx, targetSubject)
	if err != nil {
		return err
	}

	requester, err := s.GetOrCreateProfile(ctx, requesterSubject, requesterEmail, requesterUsername)
	if err != nil {
		return err
	}

	err = s.m.follow(ctx, requesterSubject, targetSubject)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPublicProfile(requesterSubject))
	s.c.Delete(common.CacheKeyPublicProfile(targetSubject))

	data := struct {
		Email    string
		Follower string
	}{
		Email:    target.Email,
		Follower: requester.Username,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.mb.Publish(ctx, eventData, common.UserFollowedKey, common.UserExchange)
}

// Unfollow removes the relation. Fails with ErrNotFollowing when the relation
// does not currently exist.
func (s *UserService) Unfollow(ctx context.Context, requesterSubject, targetSubject string) error {
	v := common.NewValidator()
	validateSubject(v, requesterSubject)
	validateSubject(v, targetSubject)
	if !v.Valid() {
		return v.ValidationError()
	}

	_, err := s.m.getBySubject(ctx, targetSubject)
	if err != nil {
		return err
	}

	err = s.m.unfollow(ctx, requesterSubject, targetSubject)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPublicProfile(requesterSubject))
	s.c.Delete(common.CacheKeyPublicProfile(targetSubject))

	return nil
}

// SetRole changes a user's privilege level. The admin gate is enforced by the
// caller per request.
func (s *UserService) SetRole(ctx context.Context, id int, role Role) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "userId")
	validateRole(v, role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err := s.m.setRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	return s.m.list(ctx)
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.m.count(ctx)
}

func (s *UserService) CountAuthors(ctx context.Context) (int, error) {
	return s.m.countByRole(ctx, RoleAuthor)
}

func (s *UserService) RecentUsers(ctx context.Context, limit int) ([]User, error) {
	if limit < 1 {
		limit = 5
	}

	return s.m.recent(ctx, limit)
}
