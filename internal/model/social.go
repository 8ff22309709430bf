package model

import "time"

// Rating is a 1-5 score a user gives a showcase.  The pair
// (showcase_id, user_id) carries a unique index, so re-rating updates the
// existing row instead of inserting a second one.
type Rating struct {
	ID         string    // ratings.id (UUID)
	ShowcaseID string    // ratings.showcase_id
	UserID     string    // ratings.user_id
	Score      int       // ratings.score (1-5)
	CreatedAt  time.Time // ratings.created_at
}

// Comment is a threaded comment on a showcase.  ParentID is nil for
// top-level comments and references another comment for replies.  IsEdited
// flips to true the first time the author edits the content.
type Comment struct {
	ID         string     // comments.id (UUID)
	ShowcaseID string     // comments.showcase_id
	UserID     string     // comments.user_id (author)
	ParentID   *string    // comments.parent_id (nullable, self-reference)
	Content    string     // comments.content
	IsEdited   bool       // comments.is_edited
	CreatedAt  time.Time  // comments.created_at
	UpdatedAt  time.Time  // comments.updated_at
}

// Notification kinds written by the queue consumer.
const (
	NotificationTypeRated     = "showcase.rated"
	NotificationTypeCommented = "showcase.commented"
)

// Notification is an inbox entry for a user, created asynchronously by the
// notification consumer when someone rates or comments on their showcase.
// Payload holds the originating event as a JSON document.
type Notification struct {
	ID        string    // notifications.id (UUID)
	UserID    string    // notifications.user_id (recipient)
	Type      string    // notifications.type
	Title     *string   // notifications.title (nullable)
	Message   *string   // notifications.message (nullable)
	Payload   string    // notifications.payload (JSON document)
	IsRead    bool      // notifications.is_read
	CreatedAt time.Time // notifications.created_at
}
