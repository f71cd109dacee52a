package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/advice-forum/internal/model"
)

// CommentRepo persists comments in the 'comments' table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// NextID allocates the id for the next comment (max+1, racy by design).
func (r *CommentRepo) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.DB, "comments")
}

// Insert writes a comment row with a pre-allocated id.
func (r *CommentRepo) Insert(ctx context.Context, c model.Comment) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (id, post_id, username, content, created) VALUES (?,?,?,?,?)",
		c.ID, c.PostID, c.Username, c.Content, c.Created)
	return err
}

// UpdateContent rewrites a comment's content in place. Only the AI
// placeholder comment is ever updated this way.
func (r *CommentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET content=? WHERE id=?", content, id)
	return err
}

// GetByID fetches a single comment; sql.ErrNoRows when absent.
func (r *CommentRepo) GetByID(ctx context.Context, id int64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, post_id, username, content, created FROM comments WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.PostID, &c.Username, &c.Content, &c.Created)
	return c, err
}

// All returns every comment ordered by ascending id.
func (r *CommentRepo) All(ctx context.Context) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, post_id, username, content, created FROM comments ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Username, &c.Content, &c.Created); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
