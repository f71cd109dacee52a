package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/advice-forum/internal/model"
)

// PostRepo persists forum posts in the 'posts' table.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// NextID allocates the id for the next post (max+1, racy by design).
func (r *PostRepo) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.DB, "posts")
}

// Insert writes a post row with a pre-allocated id.
func (r *PostRepo) Insert(ctx context.Context, p model.Post) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (id, username, content, created) VALUES (?,?,?,?)",
		p.ID, p.Username, p.Content, p.Created)
	return err
}

// Exists reports whether a post with the given id is stored.
func (r *PostRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM posts WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// All returns every post ordered by ascending id. The historical system
// relied on table-scan order; the explicit ORDER BY makes the feed
// deterministic.
func (r *PostRepo) All(ctx context.Context) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, username, content, created FROM posts ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Username, &p.Content, &p.Created); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
