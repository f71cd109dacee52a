package repository

import (
	"context"
	"database/sql"
	"errors"
)

// nextID allocates the next primary key for posts or comments the way the
// historical system did: read the highest existing id and add one, starting
// at 1 for an empty table. There is no mutual exclusion across concurrent
// allocations, so two in-flight submissions can compute the same id; this is
// a known property of the system, kept deliberately (see DESIGN.md).
func nextID(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var last int64
	err := db.QueryRowContext(ctx, "SELECT id FROM "+table+" ORDER BY id DESC LIMIT 1").Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}
