package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/showcase-gallery/internal/model"
)

// ShowcaseRepo encapsulates all queries against the `showcases` table.
type ShowcaseRepo struct{ DB *sql.DB }

func NewShowcaseRepo(db *sql.DB) *ShowcaseRepo { return &ShowcaseRepo{DB: db} }

const showcaseColumns = "id,user_id,title,description,media_metadata,view_count,is_published," +
	"showcase_type,prompt,source_image_url,result_image_url,generated_text,source_text," +
	"source_file_url,source_file_type,created_at,updated_at"

// Create inserts a showcase row and fills in the generated UUID.
func (r *ShowcaseRepo) Create(ctx context.Context, s *model.Showcase) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.MediaMetadata == "" {
		s.MediaMetadata = `{"files": []}`
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO showcases
		   (id, user_id, title, description, media_metadata, is_published, showcase_type, prompt,
		    source_image_url, result_image_url, generated_text, source_text, source_file_url, source_file_type)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.UserID, s.Title, s.Description, s.MediaMetadata, s.IsPublished, s.ShowcaseType, s.Prompt,
		s.SourceImageURL, s.ResultImageURL, s.GeneratedText, s.SourceText, s.SourceFileURL, s.SourceFileType)
	return err
}

// GetByID fetches a showcase regardless of published state; the handler
// decides whether an unpublished one may be shown to the caller.
func (r *ShowcaseRepo) GetByID(ctx context.Context, id string) (model.Showcase, error) {
	var s model.Showcase
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+showcaseColumns+" FROM showcases WHERE id=? LIMIT 1", id).Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.MediaMetadata, &s.ViewCount, &s.IsPublished,
		&s.ShowcaseType, &s.Prompt, &s.SourceImageURL, &s.ResultImageURL, &s.GeneratedText,
		&s.SourceText, &s.SourceFileURL, &s.SourceFileType, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Showcase{}, ErrNotFound
	}
	return s, err
}

// ListPublished returns published showcases, newest first.
func (r *ShowcaseRepo) ListPublished(ctx context.Context, limit, offset int) ([]model.Showcase, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+showcaseColumns+" FROM showcases WHERE is_published=1 ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Showcase, 0)
	for rows.Next() {
		var s model.Showcase
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Description, &s.MediaMetadata, &s.ViewCount, &s.IsPublished,
			&s.ShowcaseType, &s.Prompt, &s.SourceImageURL, &s.ResultImageURL, &s.GeneratedText,
			&s.SourceText, &s.SourceFileURL, &s.SourceFileType, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// IncrementViews bumps the view counter.  Fire-and-forget from the detail
// handler; a lost increment is not worth failing the request over.
func (r *ShowcaseRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE showcases SET view_count=view_count+1 WHERE id=?", id)
	return err
}

// Update rewrites the mutable fields of a showcase owned by userID.
// ErrNotFound when no row matched both id and owner.
func (r *ShowcaseRepo) Update(ctx context.Context, userID string, s *model.Showcase) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE showcases SET title=?, description=?, media_metadata=?, is_published=?, prompt=?,
		    source_image_url=?, result_image_url=?, generated_text=?, source_text=?,
		    source_file_url=?, source_file_type=?
		 WHERE id=? AND user_id=?`,
		s.Title, s.Description, s.MediaMetadata, s.IsPublished, s.Prompt,
		s.SourceImageURL, s.ResultImageURL, s.GeneratedText, s.SourceText,
		s.SourceFileURL, s.SourceFileType, s.ID, userID)
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

// Delete removes a showcase owned by userID.  Dependent ratings and
// comments go with it via ON DELETE CASCADE.
func (r *ShowcaseRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM showcases WHERE id=? AND user_id=?", id, userID)
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
