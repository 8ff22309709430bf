package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showcase-gallery/internal/config"
	"github.com/iliyamo/showcase-gallery/internal/database"
	"github.com/iliyamo/showcase-gallery/internal/handler"
	"github.com/iliyamo/showcase-gallery/internal/logger"
	"github.com/iliyamo/showcase-gallery/internal/queue"
	"github.com/iliyamo/showcase-gallery/internal/repository"
	"github.com/iliyamo/showcase-gallery/internal/router"
	"github.com/iliyamo/showcase-gallery/internal/service"
	"github.com/iliyamo/showcase-gallery/internal/validator"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	// The credential store is mandatory; refuse to serve without it.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Log.Fatalw("open database failed", "err", err)
	}

	// Redis is optional: nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Log.Warnw("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	showcases := repository.NewShowcaseRepo(db)
	ratings := repository.NewRatingRepo(db)
	comments := repository.NewCommentRepo(db)
	notifications := repository.NewNotificationRepo(db)

	authSvc := service.NewAuthService(users, tokens, cfg)

	authHandler := handler.NewAuthHandler(authSvc)
	showcaseHandler := handler.NewShowcaseHandler(showcases, ratings)
	ratingHandler := handler.NewRatingHandler(ratings, showcases)
	commentHandler := handler.NewCommentHandler(comments, showcases)
	notificationHandler := handler.NewNotificationHandler(notifications)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg, rdb, config.LoadRateLimitConfig())
	router.RegisterGallery(e, showcaseHandler, ratingHandler, commentHandler, notificationHandler,
		cfg, rdb, config.LoadCacheConfig())

	// Notification consumer runs for the lifetime of the process and
	// reconnects on its own; broker downtime never stops the API.
	go func() {
		if err := queue.StartNotificationConsumer(notifications); err != nil {
			logger.Log.Errorw("notification consumer stopped", "err", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Log.Infow("listening", "addr", addr, "env", cfg.Env)

	if err := e.Start(addr); err != nil {
		logger.Log.Fatalw("server stopped", "err", err)
	}
}
