package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/advice-forum/internal/model"
	"github.com/iliyamo/advice-forum/internal/utils"
)

// UserRepo persists account records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user row. Returns
// ErrUsernameTaken when the username is already registered.
func (r *UserRepo) Create(ctx context.Context, username, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (username, hashed_password, created) VALUES (?,?,?)",
		username, hash, time.Now().UTC().Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// GetByUsername fetches a user row; sql.ErrNoRows when absent.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, hashed_password, created FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.Username, &u.HashedPassword, &u.Created)
	return u, err
}
