package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/advice-forum/internal/model"
)

// SessionRepo persists bearer sessions in the 'sessions' table. The table is
// keyed by username, so the INSERT OR REPLACE in Replace gives each user at
// most one live token: a fresh login supersedes the previous one.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Replace stores token as the user's single active session, overwriting any
// prior row for that username.
func (r *SessionRepo) Replace(ctx context.Context, username, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (username, id) VALUES (?,?)",
		username, token)
	return err
}

// Verify resolves a bearer token to its session. Tokens never expire; the
// only way a token stops working is being replaced by a newer login.
// Returns sql.ErrNoRows for unknown tokens.
func (r *SessionRepo) Verify(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, id FROM sessions WHERE id=? LIMIT 1",
		strings.TrimSpace(token)).Scan(&s.Username, &s.ID)
	return s, err
}
