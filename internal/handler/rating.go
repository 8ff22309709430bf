package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showcase-gallery/internal/model"
	"github.com/iliyamo/showcase-gallery/internal/queue"
	"github.com/iliyamo/showcase-gallery/internal/repository"
)

// RatingHandler bundles dependencies for rating endpoints.
type RatingHandler struct {
	Ratings   *repository.RatingRepo
	Showcases *repository.ShowcaseRepo
}

func NewRatingHandler(r *repository.RatingRepo, s *repository.ShowcaseRepo) *RatingHandler {
	return &RatingHandler{Ratings: r, Showcases: s}
}

type rateReq struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// Rate handles POST /v1/showcases/:id/ratings (protected).  A repeat rating
// by the same user replaces their previous score.  On success a
// showcase.rated event is published for the notification consumer; a broker
// failure is deliberately ignored so the rating itself still succeeds.
func (h *RatingHandler) Rate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	showcaseID := c.Param("id")

	ctx, cancel := contextWithTimeout(c)
	defer cancel()

	s, err := h.Showcases.GetByID(ctx, showcaseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !s.IsPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
	}

	rt := model.Rating{ShowcaseID: showcaseID, UserID: userID, Score: req.Score}
	if err := h.Ratings.Upsert(ctx, &rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save rating"})
	}

	_ = queue.PublishShowcaseEvent(ctx, queue.ShowcaseEvent{
		Kind:          queue.EventKindRated,
		ShowcaseID:    s.ID,
		ShowcaseTitle: s.Title,
		OwnerID:       s.UserID,
		ActorID:       userID,
		ActorUsername: getUsername(c),
		Score:         req.Score,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})

	avg, count, err := h.Ratings.Summary(ctx, showcaseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"averageScore": avg, "ratingCount": count})
}
