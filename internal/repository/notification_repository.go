package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/showcase-gallery/internal/model"
)

// NotificationRepo encapsulates queries against the `notifications` table.
// Rows are written by the queue consumer and read by the inbox endpoints.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts a notification row and fills in the generated UUID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Payload == "" {
		n.Payload = "{}"
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, type, title, message, payload) VALUES (?,?,?,?,?,?)",
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Payload)
	return err
}

// ListByUser returns a user's notifications, unread first, then newest.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,user_id,type,title,message,payload,is_read,created_at
		 FROM notifications WHERE user_id=?
		 ORDER BY is_read ASC, created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Payload, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead flags one of the caller's notifications as read.  The user_id
// filter keeps callers from touching other inboxes; zero rows affected is
// reported as ErrNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
