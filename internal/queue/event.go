// Package queue defines message payloads exchanged over the message broker
// plus the publisher and the background consumer that turns events into
// notification rows.
package queue

// Event kinds published on the showcase.events queue.
const (
	EventKindRated     = "showcase.rated"
	EventKindCommented = "showcase.commented"
)

// ShowcaseEvent is published after someone rates or comments on a showcase.
// It carries enough information for the notification consumer to write an
// inbox entry for the showcase owner without querying the primary tables.
type ShowcaseEvent struct {
	Kind           string `json:"kind"`
	ShowcaseID     string `json:"showcase_id"`
	ShowcaseTitle  string `json:"showcase_title"`
	OwnerID        string `json:"owner_id"`
	ActorID        string `json:"actor_id"`
	ActorUsername  string `json:"actor_username"`
	Score          int    `json:"score,omitempty"`
	CommentExcerpt string `json:"comment_excerpt,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}
