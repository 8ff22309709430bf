package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/showcase-gallery/internal/model"
)

// CommentRepo encapsulates queries against the `comments` table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,showcase_id,user_id,parent_id,content,is_edited,created_at,updated_at"

// Create inserts a comment row and fills in the generated UUID.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (id, showcase_id, user_id, parent_id, content) VALUES (?,?,?,?,?)",
		c.ID, c.ShowcaseID, c.UserID, c.ParentID, c.Content)
	return err
}

// GetByID fetches a single comment.
func (r *CommentRepo) GetByID(ctx context.Context, id string) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", id).Scan(
		&c.ID, &c.ShowcaseID, &c.UserID, &c.ParentID, &c.Content, &c.IsEdited, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Comment{}, ErrNotFound
	}
	return c, err
}

// ListByShowcase returns all comments of a showcase, oldest first so
// threads read top-down.
func (r *CommentRepo) ListByShowcase(ctx context.Context, showcaseID string) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE showcase_id=? ORDER BY created_at ASC",
		showcaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ShowcaseID, &c.UserID, &c.ParentID, &c.Content,
			&c.IsEdited, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpdateContent rewrites a comment's content and marks it edited.  Only the
// author may edit; a mismatch comes back as ErrNotFound so the handler can
// 404 without leaking existence.
func (r *CommentRepo) UpdateContent(ctx context.Context, id, userID, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET content=?, is_edited=1 WHERE id=? AND user_id=?",
		content, id, userID)
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
