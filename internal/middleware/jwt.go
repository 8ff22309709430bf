package middleware // reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showcase-gallery/internal/config"
	"github.com/iliyamo/showcase-gallery/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity claims into the request context.
// Validation pins signing method, issuer, audience and expiry; every
// failure collapses into the same 401 so callers cannot probe which check
// rejected the token.  Handlers read the identity via c.Get("user_id"),
// c.Get("email") and c.Get("username").
func JWTAuth(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ValidateAccessToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("username", claims.Username)
			return next(c)
		}
	}
}
