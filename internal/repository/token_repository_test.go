package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertTokenSQL = "INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES (?,?,?,?)"
	revokeTokenSQL = "UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL"
	selectTokenSQL = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"
)

func TestTokenRepoStore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	exp := time.Now().UTC().Add(7 * 24 * time.Hour)
	mock.ExpectExec(insertTokenSQL).
		WithArgs(sqlmock.AnyArg(), "u1", "hash-1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Store(context.Background(), "u1", "hash-1", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoValidate(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)
	revokedAt := time.Now().UTC().Add(-time.Minute)

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		noRows  bool
		wantID  string
		wantErr error
	}{
		{
			name:   "active token",
			rows:   tokenRows().AddRow("u1", future, nil),
			wantID: "u1",
		},
		{
			name:    "missing token",
			noRows:  true,
			wantErr: ErrNotFound,
		},
		{
			name:    "revoked token",
			rows:    tokenRows().AddRow("u1", future, revokedAt),
			wantErr: ErrNotFound,
		},
		{
			name:    "expired token",
			rows:    tokenRows().AddRow("u1", past, nil),
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewTokenRepo(db)

			q := mock.ExpectQuery(selectTokenSQL).WithArgs("hash-1")
			if tt.noRows {
				q.WillReturnError(sql.ErrNoRows)
			} else {
				q.WillReturnRows(tt.rows)
			}

			userID, err := repo.Validate(context.Background(), "hash-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, userID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenRepoRevokeIgnoresMissingRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(revokeTokenSQL).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Revoke(context.Background(), "hash-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoRotate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	exp := time.Now().UTC().Add(7 * 24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(revokeTokenSQL).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertTokenSQL).
		WithArgs(sqlmock.AnyArg(), "u1", "new-hash", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Rotate(context.Background(), "old-hash", "u1", "new-hash", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoRotateReplayedTokenRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	// A concurrent rotation already revoked the row: the guarded UPDATE hits
	// nothing, so no replacement is stored.
	mock.ExpectBegin()
	mock.ExpectExec(revokeTokenSQL).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), "old-hash", "u1", "new-hash", time.Now().UTC().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoRotateStoreFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(revokeTokenSQL).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertTokenSQL).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), "old-hash", "u1", "new-hash", time.Now().UTC().Add(time.Hour))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func tokenRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"})
}
