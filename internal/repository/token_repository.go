package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/showcase-gallery/internal/database"
)

// TokenRepo persists and validates refresh tokens.  Only the SHA-256 hash
// of a token is stored (single `token_hash` column, unique index); the raw
// value lives nowhere but the client.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token hash row for the user.
func (r *TokenRepo) Store(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	return storeToken(ctx, r.DB, userID, tokenHash, exp)
}

func storeToken(ctx context.Context, q database.Querier, userID, tokenHash string, exp time.Time) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES (?,?,?,?)",
		uuid.NewString(), userID, tokenHash, exp)
	return err
}

// Validate returns the owning user ID if a non-revoked, non-expired token
// with this hash exists.  Any other state comes back as ErrNotFound.
func (r *TokenRepo) Validate(ctx context.Context, tokenHash string) (string, error) {
	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if revokedAt.Valid {
		return "", ErrNotFound
	}
	if time.Now().UTC().After(expiresAt) {
		return "", ErrNotFound
	}
	return userID, nil
}

// Revoke marks a token as revoked by hash.  It is idempotent: revoking an
// absent or already-revoked token affects zero rows and is not an error.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// Rotate revokes the presented token and stores its replacement in one
// transaction.  The UPDATE is guarded by `revoked_at IS NULL` and must hit
// exactly one row: a replayed token loses that race and gets ErrNotFound
// instead of a second rotation, and a failure after the revoke rolls the
// whole thing back so the user is never left without a usable token.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, userID, newHash string, exp time.Time) error {
	return database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
			oldHash)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return ErrNotFound
		}
		return storeToken(ctx, tx, userID, newHash, exp)
	})
}
