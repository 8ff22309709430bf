package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showcase-gallery/internal/model"
	"github.com/iliyamo/showcase-gallery/internal/repository"
)

// ShowcaseHandler bundles dependencies for showcase CRUD endpoints.
type ShowcaseHandler struct {
	Showcases *repository.ShowcaseRepo
	Ratings   *repository.RatingRepo
}

func NewShowcaseHandler(s *repository.ShowcaseRepo, r *repository.RatingRepo) *ShowcaseHandler {
	return &ShowcaseHandler{Showcases: s, Ratings: r}
}

type showcaseReq struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    *string `json:"description"`
	MediaMetadata  string  `json:"mediaMetadata"`
	IsPublished    *bool   `json:"isPublished"`
	ShowcaseType   string  `json:"showcaseType" validate:"required,oneof=image_rendering text_generation"`
	Prompt         string  `json:"prompt" validate:"required"`
	SourceImageURL *string `json:"sourceImageUrl"`
	ResultImageURL *string `json:"resultImageUrl"`
	GeneratedText  *string `json:"generatedText"`
	SourceText     *string `json:"sourceText"`
	SourceFileURL  *string `json:"sourceFileUrl"`
	SourceFileType *string `json:"sourceFileType" validate:"omitempty,oneof=pdf docx text"`
}

// showcaseJSON is the response shape for a showcase row.
type showcaseJSON struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	MediaMetadata  string    `json:"mediaMetadata"`
	ViewCount      int       `json:"viewCount"`
	IsPublished    bool      `json:"isPublished"`
	ShowcaseType   string    `json:"showcaseType"`
	Prompt         string    `json:"prompt"`
	SourceImageURL *string   `json:"sourceImageUrl,omitempty"`
	ResultImageURL *string   `json:"resultImageUrl,omitempty"`
	GeneratedText  *string   `json:"generatedText,omitempty"`
	SourceText     *string   `json:"sourceText,omitempty"`
	SourceFileURL  *string   `json:"sourceFileUrl,omitempty"`
	SourceFileType *string   `json:"sourceFileType,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type showcaseDetailJSON struct {
	showcaseJSON
	AverageScore float64 `json:"averageScore"`
	RatingCount  int     `json:"ratingCount"`
}

func showcaseToJSON(s model.Showcase) showcaseJSON {
	return showcaseJSON{
		ID:             s.ID,
		UserID:         s.UserID,
		Title:          s.Title,
		Description:    s.Description,
		MediaMetadata:  s.MediaMetadata,
		ViewCount:      s.ViewCount,
		IsPublished:    s.IsPublished,
		ShowcaseType:   s.ShowcaseType,
		Prompt:         s.Prompt,
		SourceImageURL: s.SourceImageURL,
		ResultImageURL: s.ResultImageURL,
		GeneratedText:  s.GeneratedText,
		SourceText:     s.SourceText,
		SourceFileURL:  s.SourceFileURL,
		SourceFileType: s.SourceFileType,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (req *showcaseReq) apply(s *model.Showcase) {
	s.Title = req.Title
	s.Description = req.Description
	s.MediaMetadata = req.MediaMetadata
	s.IsPublished = true
	if req.IsPublished != nil {
		s.IsPublished = *req.IsPublished
	}
	s.ShowcaseType = req.ShowcaseType
	s.Prompt = req.Prompt
	s.SourceImageURL = req.SourceImageURL
	s.ResultImageURL = req.ResultImageURL
	s.GeneratedText = req.GeneratedText
	s.SourceText = req.SourceText
	s.SourceFileURL = req.SourceFileURL
	s.SourceFileType = req.SourceFileType
}

// Create handles POST /v1/showcases (protected).
func (h *ShowcaseHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req showcaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s := model.Showcase{UserID: userID}
	req.apply(&s)

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	if err := h.Showcases.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create showcase"})
	}
	return c.JSON(http.StatusCreated, showcaseToJSON(s))
}

// List handles GET /v1/showcases (public, cached).  Returns published
// showcases with limit/offset paging.
func (h *ShowcaseHandler) List(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 20, 1, 100)
	offset := parseIntDefault(c.QueryParam("offset"), 0, 0, 1<<30)

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	items, err := h.Showcases.ListPublished(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]showcaseJSON, 0, len(items))
	for _, s := range items {
		out = append(out, showcaseToJSON(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/showcases/:id (public).  Unpublished showcases are
// indistinguishable from absent ones.  Each hit bumps the view counter;
// a failed bump is logged away rather than failing the read.
func (h *ShowcaseHandler) Get(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	s, err := h.Showcases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !s.IsPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
	}

	_ = h.Showcases.IncrementViews(ctx, id)
	s.ViewCount++

	avg, count, err := h.Ratings.Summary(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, showcaseDetailJSON{showcaseJSON: showcaseToJSON(s), AverageScore: avg, RatingCount: count})
}

// Update handles PUT /v1/showcases/:id (protected, owner only).
func (h *ShowcaseHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	var req showcaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	existing, err := h.Showcases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	s := existing
	req.apply(&s)
	if s.MediaMetadata == "" {
		s.MediaMetadata = existing.MediaMetadata
	}
	if err := h.Showcases.Update(ctx, userID, &s); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, showcaseToJSON(s))
}

// Delete handles DELETE /v1/showcases/:id (protected, owner only).
func (h *ShowcaseHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	existing, err := h.Showcases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Showcases.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showcase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func parseIntDefault(s string, def, min, max int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}
