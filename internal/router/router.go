package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/showcase-gallery/internal/config"
	"github.com/iliyamo/showcase-gallery/internal/handler"
	"github.com/iliyamo/showcase-gallery/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used
// by load balancers and monitoring to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated session operations live under /v1/auth and sit behind the
// Redis token-bucket limiter since they are the endpoints worth
// brute-forcing; the profile endpoint lives under /v1 behind JWT
// validation.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cfg config.Config, rdb *redis.Client, rlCfg config.RateLimitConfig) {
	g := e.Group("/v1/auth")
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))
	// Register creates the account and returns a token pair immediately.
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the presented refresh token; the old one is dead
	// afterwards.
	g.POST("/refresh", a.Refresh)
	// Logout revokes a refresh token and responds 204 even when the token
	// was unknown or already revoked.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg))
	auth.GET("/profile", a.Profile)
}

// RegisterGallery registers the showcase, rating, comment and notification
// routes.  Public read endpoints go through the Redis response cache;
// everything that writes requires a valid access token.
func RegisterGallery(e *echo.Echo, s *handler.ShowcaseHandler, r *handler.RatingHandler,
	cm *handler.CommentHandler, n *handler.NotificationHandler,
	cfg config.Config, rdb *redis.Client, cacheCfg config.CacheConfig) {

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	// Public browse endpoints for guests and the gallery UI.
	e.GET("/v1/showcases", s.List, cache)
	e.GET("/v1/showcases/:id", s.Get)
	e.GET("/v1/showcases/:id/comments", cm.List, cache)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg))
	auth.POST("/showcases", s.Create)
	auth.PUT("/showcases/:id", s.Update)
	auth.DELETE("/showcases/:id", s.Delete)
	auth.POST("/showcases/:id/ratings", r.Rate)
	auth.POST("/showcases/:id/comments", cm.Create)
	auth.PUT("/comments/:id", cm.Update)
	auth.GET("/notifications", n.List)
	auth.POST("/notifications/:id/read", n.MarkRead)
}
