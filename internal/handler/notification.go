package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showcase-gallery/internal/model"
	"github.com/iliyamo/showcase-gallery/internal/repository"
)

// NotificationHandler exposes the authenticated user's inbox.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

// notificationJSON is the response shape for an inbox entry.
type notificationJSON struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     *string   `json:"title,omitempty"`
	Message   *string   `json:"message,omitempty"`
	Payload   string    `json:"payload"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func notificationToJSON(n model.Notification) notificationJSON {
	return notificationJSON{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Payload:   n.Payload,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// List handles GET /v1/notifications (protected).  Unread entries first.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit := parseIntDefault(c.QueryParam("limit"), 50, 1, 200)

	ctx, cancel := contextWithTimeout(c)
	defer cancel()

	items, err := h.Notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]notificationJSON, 0, len(items))
	for _, n := range items {
		out = append(out, notificationToJSON(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// MarkRead handles POST /v1/notifications/:id/read (protected).  Another
// user's notification comes back 404, not 403, to avoid leaking inbox ids.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	ctx, cancel := contextWithTimeout(c)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
