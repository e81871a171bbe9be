package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/shelfwise/internal/platform/db"
	"github.com/shelfwise/shelfwise/internal/query"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Find runs a directory statement. Password hashes are never selected.
func (r *Repository) Find(ctx context.Context, q query.Query) ([]User, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, db.StoreError("users: find", err)
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.First, &user.Last, &user.Email, &user.CreatedAt); err != nil {
			return nil, db.StoreError("users: scan", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("users: rows", err)
	}
	return users, nil
}

var _ Finder = (*Repository)(nil)
