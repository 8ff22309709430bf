package handler

import (
    "context"              // context with timeout for DB-backed calls
    "errors"               // sentinel error matching
    "net/http"             // HTTP status codes
    "strings"              // string trimming
    "time"                 // timeouts

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/showcase-gallery/internal/service" // auth orchestration
)

// Authenticator is the slice of the auth service the handlers depend on.
// Declared here so handler tests can substitute a fake.
type Authenticator interface {
	Register(ctx context.Context, email, username, password string) (service.AuthResponse, error)
	Login(ctx context.Context, email, password string) (service.AuthResponse, error)
	Refresh(ctx context.Context, rawToken string) (service.AuthResponse, error)
	Revoke(ctx context.Context, rawToken string) error
	GetProfile(ctx context.Context, userID string) (service.Profile, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

// Validation rejects malformed input here, before the orchestrator runs.
type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
type logoutReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.Auth.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		case errors.Is(err, service.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh: rotate the presented refresh token and return a new pair.  The
// old token is single-use; replaying it gets a 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
		case errors.Is(err, service.ErrAccountInactive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is not active"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout: revoke the presented refresh token.  Responds 204 regardless of
// whether the token existed or was already revoked; only a store failure
// surfaces as an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	_ = c.Bind(&req)
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		return c.NoContent(http.StatusNoContent)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Revoke(ctx, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile: return the authenticated user's public profile (protected).
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile, err := h.Auth.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile lookup failed"})
	}
	return c.JSON(http.StatusOK, profile)
}
