package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

var errNoIdentity = errors.New("no authenticated user in context")

// getUserID pulls the authenticated user's ID out of the echo context where
// the JWT middleware stored it.
func getUserID(c echo.Context) (string, error) {
	v, ok := c.Get("user_id").(string)
	if !ok || v == "" {
		return "", errNoIdentity
	}
	return v, nil
}

// getUsername pulls the authenticated username out of the echo context.
// Empty when the route is unprotected.
func getUsername(c echo.Context) string {
	v, _ := c.Get("username").(string)
	return v
}

// contextWithTimeout bounds the duration of DB-backed work per request.
func contextWithTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
