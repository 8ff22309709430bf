package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/showcase-gallery/internal/model"
)

// RatingRepo encapsulates queries against the `ratings` table.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Upsert records the caller's score for a showcase.  The unique index on
// (showcase_id, user_id) makes a repeat rating an in-place update rather
// than a duplicate row.
func (r *RatingRepo) Upsert(ctx context.Context, rt *model.Rating) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO ratings (id, showcase_id, user_id, score) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE score=VALUES(score)`,
		rt.ID, rt.ShowcaseID, rt.UserID, rt.Score)
	return err
}

// Summary returns the average score and rating count for a showcase.
func (r *RatingRepo) Summary(ctx context.Context, showcaseID string) (avg float64, count int, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(score),0), COUNT(*) FROM ratings WHERE showcase_id=?",
		showcaseID).Scan(&avg, &count)
	return avg, count, err
}
