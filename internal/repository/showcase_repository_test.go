package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showcase-gallery/internal/model"
)

func showcaseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "media_metadata", "view_count", "is_published",
		"showcase_type", "prompt", "source_image_url", "result_image_url", "generated_text",
		"source_text", "source_file_url", "source_file_type", "created_at", "updated_at",
	})
}

func TestShowcaseRepoCreateDefaultsMetadata(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShowcaseRepo(db)

	mock.ExpectExec(`INSERT INTO showcases
		   (id, user_id, title, description, media_metadata, is_published, showcase_type, prompt,
		    source_image_url, result_image_url, generated_text, source_text, source_file_url, source_file_type)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`).
		WithArgs(sqlmock.AnyArg(), "u1", "Sunset render", nil, `{"files": []}`, true,
			model.ShowcaseTypeImageRendering, "a sunset over water", nil, nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := model.Showcase{
		UserID:       "u1",
		Title:        "Sunset render",
		IsPublished:  true,
		ShowcaseType: model.ShowcaseTypeImageRendering,
		Prompt:       "a sunset over water",
	}
	require.NoError(t, repo.Create(context.Background(), &s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, `{"files": []}`, s.MediaMetadata)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShowcaseRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShowcaseRepo(db)

	mock.ExpectQuery("SELECT " + showcaseColumns + " FROM showcases WHERE id=? LIMIT 1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShowcaseRepoListPublished(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShowcaseRepo(db)

	now := time.Now().UTC()
	rows := showcaseRows().
		AddRow("s1", "u1", "Sunset render", nil, `{"files": []}`, 3, true,
			model.ShowcaseTypeImageRendering, "a sunset over water", nil, nil, nil, nil, nil, nil, now, now).
		AddRow("s2", "u2", "Summary bot", nil, `{"files": []}`, 0, true,
			model.ShowcaseTypeTextGeneration, "summarize this report", nil, nil, nil, nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT "+showcaseColumns+" FROM showcases WHERE is_published=1 ORDER BY created_at DESC LIMIT ? OFFSET ?").
		WithArgs(20, 0).
		WillReturnRows(rows)

	items, err := repo.ListPublished(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "s1", items[0].ID)
	assert.Equal(t, model.ShowcaseTypeTextGeneration, items[1].ShowcaseType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShowcaseRepoUpdateWrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShowcaseRepo(db)

	mock.ExpectExec(`UPDATE showcases SET title=?, description=?, media_metadata=?, is_published=?, prompt=?,
		    source_image_url=?, result_image_url=?, generated_text=?, source_text=?,
		    source_file_url=?, source_file_type=?
		 WHERE id=? AND user_id=?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := model.Showcase{ID: "s1", Title: "t", MediaMetadata: "{}", ShowcaseType: model.ShowcaseTypeTextGeneration, Prompt: "p"}
	err := repo.Update(context.Background(), "someone-else", &s)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShowcaseRepoDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShowcaseRepo(db)

	mock.ExpectExec("DELETE FROM showcases WHERE id=? AND user_id=?").
		WithArgs("s1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1", "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
