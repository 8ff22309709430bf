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

// CommentHandler bundles dependencies for comment endpoints.
type CommentHandler struct {
	Comments  *repository.CommentRepo
	Showcases *repository.ShowcaseRepo
}

func NewCommentHandler(cm *repository.CommentRepo, s *repository.ShowcaseRepo) *CommentHandler {
	return &CommentHandler{Comments: cm, Showcases: s}
}

type commentReq struct {
	Content  string  `json:"content" validate:"required,max=2000"`
	ParentID *string `json:"parentId"`
}

type commentEditReq struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// commentJSON is the response shape for a comment row.
type commentJSON struct {
	ID         string    `json:"id"`
	ShowcaseID string    `json:"showcaseId"`
	UserID     string    `json:"userId"`
	ParentID   *string   `json:"parentId,omitempty"`
	Content    string    `json:"content"`
	IsEdited   bool      `json:"isEdited"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func commentToJSON(cm model.Comment) commentJSON {
	return commentJSON{
		ID:         cm.ID,
		ShowcaseID: cm.ShowcaseID,
		UserID:     cm.UserID,
		ParentID:   cm.ParentID,
		Content:    cm.Content,
		IsEdited:   cm.IsEdited,
		CreatedAt:  cm.CreatedAt,
		UpdatedAt:  cm.UpdatedAt,
	}
}

// List handles GET /v1/showcases/:id/comments (public).
func (h *CommentHandler) List(c echo.Context) error {
	showcaseID := c.Param("id")

	ctx, cancel := contextWithTimeout(c)
	defer cancel()

	if _, err := h.Showcases.GetByID(ctx, showcaseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	items, err := h.Comments.ListByShowcase(ctx, showcaseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]commentJSON, 0, len(items))
	for _, cm := range items {
		out = append(out, commentToJSON(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create handles POST /v1/showcases/:id/comments (protected).  ParentID, if
// given, must reference a comment on the same showcase.  On success a
// showcase.commented event is published; broker failures never fail the
// comment itself.
func (h *CommentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentReq
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

	if req.ParentID != nil {
		parent, err := h.Comments.GetByID(ctx, *req.ParentID)
		if err != nil || parent.ShowcaseID != showcaseID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid parent comment"})
		}
	}

	cm := model.Comment{ShowcaseID: showcaseID, UserID: userID, ParentID: req.ParentID, Content: req.Content}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create comment"})
	}

	_ = queue.PublishShowcaseEvent(ctx, queue.ShowcaseEvent{
		Kind:           queue.EventKindCommented,
		ShowcaseID:     s.ID,
		ShowcaseTitle:  s.Title,
		OwnerID:        s.UserID,
		ActorID:        userID,
		ActorUsername:  getUsername(c),
		CommentExcerpt: excerpt(req.Content, 120),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, commentToJSON(cm))
}

// Update handles PUT /v1/comments/:id (protected, author only).
func (h *CommentHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentEditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id := c.Param("id")

	ctx, cancel := contextWithTimeout(c)
	defer cancel()

	existing, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Comments.UpdateContent(ctx, id, userID, req.Content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	existing.Content = req.Content
	existing.IsEdited = true
	return c.JSON(http.StatusOK, commentToJSON(existing))
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
