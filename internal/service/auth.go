// Package service holds the business logic sitting between the echo
// handlers and the repositories.  AuthService is the only component with
// real sequencing logic: registration, login, refresh rotation, revocation
// and profile lookup.  Each call is a short-lived unit of work against the
// database; there is no in-process session state.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/showcase-gallery/internal/config"
	"github.com/iliyamo/showcase-gallery/internal/logger"
	"github.com/iliyamo/showcase-gallery/internal/model"
	"github.com/iliyamo/showcase-gallery/internal/repository"
	"github.com/iliyamo/showcase-gallery/internal/utils"
)

// Business-rule outcomes surfaced to the HTTP boundary.  Anything else a
// method returns (store unavailable, signing failure) is an internal error.
var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrAccountInactive       = errors.New("account is not active")
	ErrNotFound              = errors.New("not found")
)

// UserStore is the slice of the user repository AuthService depends on.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// TokenStore is the slice of the refresh-token repository AuthService
// depends on.  Rotate must revoke the old token and store the new one
// atomically.
type TokenStore interface {
	Store(ctx context.Context, userID, tokenHash string, exp time.Time) error
	Validate(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, tokenHash string) error
	Rotate(ctx context.Context, oldHash, userID, newHash string, exp time.Time) error
}

// AuthResponse is returned by every session-issuing operation.
type AuthResponse struct {
	UserID          string    `json:"userId"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	AccessToken     string    `json:"accessToken"`
	RefreshToken    string    `json:"refreshToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}

// Profile is the public view of an active user.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthService orchestrates registration, login, token refresh and
// revocation.  It is stateless; all shared mutable state lives in the
// store behind the interfaces.
type AuthService struct {
	users  UserStore
	tokens TokenStore
	cfg    config.Config
}

func NewAuthService(users UserStore, tokens TokenStore, cfg config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// Register hashes the password, creates the user row and issues a session.
// Email and username uniqueness is enforced by the database's unique
// indexes, not by a pre-check, so two concurrent registrations for the same
// email cannot both succeed; the loser gets ErrEmailTaken/ErrUsernameTaken
// off the constraint violation.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (AuthResponse, error) {
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return AuthResponse{}, err
	}
	u := model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return AuthResponse{}, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameExists):
			return AuthResponse{}, ErrUsernameTaken
		}
		logger.Log.Errorw("create user failed", "err", err)
		return AuthResponse{}, err
	}
	return s.issueSession(ctx, u)
}

// Login verifies credentials and issues a session.  An unknown email, a
// deactivated account and a wrong password all produce the same
// ErrInvalidCredentials so the response never reveals which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResponse{}, ErrInvalidCredentials
		}
		logger.Log.Errorw("lookup user failed", "err", err)
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, ErrInvalidCredentials
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return AuthResponse{}, ErrInvalidCredentials
	}
	return s.issueSession(ctx, u)
}

// Refresh exchanges a valid refresh token for a fresh access/refresh pair.
// Tokens are single-use: the presented token is revoked in the same
// transaction that stores its replacement, so a replay fails with
// ErrInvalidOrExpiredToken even when it races the first refresh.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (AuthResponse, error) {
	oldHash := utils.HashRefreshRaw(rawToken)
	userID, err := s.tokens.Validate(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResponse{}, ErrInvalidOrExpiredToken
		}
		return AuthResponse{}, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResponse{}, ErrInvalidOrExpiredToken
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, ErrAccountInactive
	}

	access, err := s.newAccessToken(u)
	if err != nil {
		return AuthResponse{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := s.tokens.Rotate(ctx, oldHash, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the rotation race to a concurrent replay.
			return AuthResponse{}, ErrInvalidOrExpiredToken
		}
		logger.Log.Errorw("rotate refresh token failed", "err", err)
		return AuthResponse{}, err
	}

	return AuthResponse{
		UserID:          u.ID,
		Username:        u.Username,
		Email:           u.Email,
		AccessToken:     access.Token,
		RefreshToken:    refresh.Raw,
		AccessExpiresAt: access.Exp,
	}, nil
}

// Revoke marks the presented refresh token revoked.  Idempotent: an absent
// or already-revoked token is a no-op, never an error.
func (s *AuthService) Revoke(ctx context.Context, rawToken string) error {
	return s.tokens.Revoke(ctx, utils.HashRefreshRaw(rawToken))
}

// GetProfile returns the public profile of an active user, or ErrNotFound
// when the account is absent or deactivated.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if !u.IsActive {
		return Profile{}, ErrNotFound
	}
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}, nil
}

// issueSession mints an access/refresh pair for the user and persists the
// refresh token.  Shared by Register and Login.
func (s *AuthService) issueSession(ctx context.Context, u model.User) (AuthResponse, error) {
	access, err := s.newAccessToken(u)
	if err != nil {
		return AuthResponse{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := s.tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		logger.Log.Errorw("store refresh token failed", "err", err)
		return AuthResponse{}, err
	}
	return AuthResponse{
		UserID:          u.ID,
		Username:        u.Username,
		Email:           u.Email,
		AccessToken:     access.Token,
		RefreshToken:    refresh.Raw,
		AccessExpiresAt: access.Exp,
	}, nil
}

func (s *AuthService) newAccessToken(u model.User) (utils.AccessToken, error) {
	return utils.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTAudience,
		utils.Claims{UserID: u.ID, Email: u.Email, Username: u.Username}, s.cfg.AccessTTLMin)
}
