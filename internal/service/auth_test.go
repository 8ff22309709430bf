package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/showcase-gallery/internal/config"
	"github.com/iliyamo/showcase-gallery/internal/model"
	"github.com/iliyamo/showcase-gallery/internal/repository"
	"github.com/iliyamo/showcase-gallery/internal/service"
)

// fakeUserStore is an in-memory UserStore enforcing the same uniqueness
// rules as the users table.
type fakeUserStore struct {
	byID    map[string]model.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return repository.ErrUsernameExists
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) deactivate(id string) {
	u := f.byID[id]
	u.IsActive = false
	f.byID[id] = u
}

type tokenRecord struct {
	userID  string
	exp     time.Time
	revoked bool
}

// fakeTokenStore mirrors the refresh_tokens table keyed by token hash.
type fakeTokenStore struct {
	byHash map[string]*tokenRecord
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byHash: map[string]*tokenRecord{}}
}

func (f *fakeTokenStore) Store(_ context.Context, userID, tokenHash string, exp time.Time) error {
	f.byHash[tokenHash] = &tokenRecord{userID: userID, exp: exp}
	return nil
}

func (f *fakeTokenStore) Validate(_ context.Context, tokenHash string) (string, error) {
	rec, ok := f.byHash[tokenHash]
	if !ok || rec.revoked || time.Now().UTC().After(rec.exp) {
		return "", repository.ErrNotFound
	}
	return rec.userID, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, tokenHash string) error {
	if rec, ok := f.byHash[tokenHash]; ok {
		rec.revoked = true
	}
	return nil
}

func (f *fakeTokenStore) Rotate(_ context.Context, oldHash, userID, newHash string, exp time.Time) error {
	rec, ok := f.byHash[oldHash]
	if !ok || rec.revoked {
		return repository.ErrNotFound
	}
	rec.revoked = true
	f.byHash[newHash] = &tokenRecord{userID: userID, exp: exp}
	return nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "showcase-gallery",
		JWTAudience:    "showcase-gallery-api",
		AccessTTLMin:   60,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
}

func newTestService() (*service.AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	return service.NewAuthService(users, tokens, testConfig()), users, tokens
}

func TestRegisterIssuesSession(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.AccessExpiresAt.After(time.Now()))
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	// Same email, different username.
	_, err = svc.Register(context.Background(), "alice@example.com", "alice2", "password123")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	// Same username, different email.
	_, err = svc.Register(context.Background(), "alice2@example.com", "alice", "password123")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestLoginReturnsFreshTokensEachCall(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, second.AccessToken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, users, _ := newTestService()

	resp, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	// Wrong password.
	_, wrongPass := svc.Login(context.Background(), "alice@example.com", "password124")
	assert.ErrorIs(t, wrongPass, service.ErrInvalidCredentials)

	// Unknown email.
	_, unknown := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, unknown, service.ErrInvalidCredentials)

	// Deactivated account, right password.
	users.deactivate(resp.UserID)
	_, inactive := svc.Login(context.Background(), "alice@example.com", "password123")
	assert.ErrorIs(t, inactive, service.ErrInvalidCredentials)

	assert.Equal(t, wrongPass, unknown)
	assert.Equal(t, wrongPass, inactive)
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	svc, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, refreshed.UserID)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// The consumed token is single-use.
	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidOrExpiredToken)

	// The replacement still works.
	_, err = svc.Refresh(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, _, tokens := newTestService()

	reg, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	// Age every stored token past its expiry.
	for _, rec := range tokens.byHash {
		rec.exp = time.Now().UTC().Add(-time.Minute)
	}

	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidOrExpiredToken)
}

func TestRefreshInactiveAccount(t *testing.T) {
	svc, users, _ := newTestService()

	reg, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	users.deactivate(reg.UserID)

	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, service.ErrAccountInactive)
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), reg.RefreshToken))
	// Already revoked: still fine.
	require.NoError(t, svc.Revoke(context.Background(), reg.RefreshToken))
	// Never existed: still fine.
	require.NoError(t, svc.Revoke(context.Background(), "no-such-token"))

	// A revoked token cannot refresh.
	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidOrExpiredToken)
}

func TestGetProfile(t *testing.T) {
	svc, users, _ := newTestService()

	reg, err := svc.Register(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), reg.UserID)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)

	_, err = svc.GetProfile(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, service.ErrNotFound)

	users.deactivate(reg.UserID)
	_, err = svc.GetProfile(context.Background(), reg.UserID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
