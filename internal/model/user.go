package model

import "time"

// User represents an application user record as stored in the `users`
// table.  IDs are CHAR(36) UUID strings.  Email and username each carry a
// unique index; both are matched case-sensitively, exactly as stored.  A
// user record is immutable after creation except for the IsActive flag,
// the optional avatar URL and the UpdatedAt timestamp.
//
// Fields:
//  ID           – UUID primary key of the user.
//  Email        – unique email address (case-sensitive).
//  Username     – unique display name.
//  PasswordHash – bcrypt hashed password; never reversible, never returned.
//  AvatarURL    – optional avatar URL (nil when unset).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	AvatarURL    *string   // users.avatar_url (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and is single-use: using it to mint a new pair
// revokes it in the same transaction.  The plain token is never stored; only
// its SHA-256 hash, which still gives exact-match lookups without letting a
// leaked table mint sessions.
//
// A token is valid iff RevokedAt is nil and ExpiresAt is in the future.
// Revoked rows are kept, not deleted.
//
// Fields:
//  ID        – UUID primary key.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the raw token value (unique).
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        string     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
