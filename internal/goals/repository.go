package goals

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/shelfwise/internal/platform/db"
	"github.com/shelfwise/shelfwise/internal/query"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Repository persists goals.
type Repository interface {
	Find(ctx context.Context, q query.Query) ([]Goal, error)
	Insert(ctx context.Context, userID int64, g Goal) (Goal, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// Find runs a statement built from the goals schema.
func (r *PGRepository) Find(ctx context.Context, q query.Query) ([]Goal, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, db.StoreError("goals: find", err)
	}
	defer rows.Close()

	out := []Goal{}
	for rows.Next() {
		var (
			g        Goal
			deadline *time.Time
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Metric, &g.TargetValue, &g.CurrentValue,
			&deadline, &g.Completed, &g.CreatedAt); err != nil {
			return nil, db.StoreError("goals: scan", err)
		}
		g.Deadline = shared.DatePtr(deadline)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("goals: rows", err)
	}
	return out, nil
}

// Insert stores a goal for userID.
func (r *PGRepository) Insert(ctx context.Context, userID int64, g Goal) (Goal, error) {
	const stmt = `INSERT INTO goals (user_id, title, description, metric, target_value, current_value, deadline, is_completed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	var deadline *time.Time
	if g.Deadline != nil {
		deadline = &g.Deadline.Time
	}
	err := r.db.QueryRow(ctx, stmt, userID, g.Title, g.Description, g.Metric, g.TargetValue, g.CurrentValue, deadline, g.Completed).
		Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return Goal{}, db.StoreError("goals: insert", err)
	}
	return g, nil
}

var _ Repository = (*PGRepository)(nil)
