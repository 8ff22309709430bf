package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/iliyamo/showcase-gallery/internal/model"
)

// Uniqueness of email and username is enforced by the unique indexes on the
// users table, not by a pre-check in Go.  A concurrent duplicate INSERT
// surfaces as MySQL error 1062 and is translated into one of these
// sentinels; the violated index name in the driver message tells the two
// columns apart.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

// UserRepo encapsulates all queries against the `users` table.  Emails and
// usernames are stored and matched exactly as given (case-sensitive).
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,avatar_url,is_active,created_at,updated_at"

// Create inserts a user row and fills in the generated UUID.  The caller
// provides the already-hashed password.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, username, password_hash, is_active) VALUES (?,?,?,?,?)",
		u.ID, u.Email, u.Username, u.PasswordHash, u.IsActive)
	if err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// GetByEmail fetches a user by exact email match.  Returns ErrNotFound when
// no such row exists; active-flag policy is left to the caller because
// login and refresh treat inactive accounts differently.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.  Returns ErrNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.AvatarURL,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// translateDuplicate maps MySQL duplicate-key violations (error 1062) onto
// the email/username sentinels by inspecting the violated index name.
func translateDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return err
	}
	msg := strings.ToLower(me.Message)
	switch {
	case strings.Contains(msg, "email"):
		return ErrEmailExists
	case strings.Contains(msg, "username"):
		return ErrUsernameExists
	}
	return err
}
