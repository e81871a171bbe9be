package activity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/shelfwise/internal/platform/db"
	"github.com/shelfwise/shelfwise/internal/query"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Repository persists activity logs.
type Repository interface {
	Find(ctx context.Context, q query.Query) ([]Activity, error)
	Insert(ctx context.Context, userID int64, a Activity) (Activity, error)
	Summarize(ctx context.Context, userID int64) (Summary, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// Find runs a statement built from the activity search schema.
func (r *PGRepository) Find(ctx context.Context, q query.Query) ([]Activity, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, db.StoreError("activity: find", err)
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var (
			a    Activity
			date time.Time
		)
		if err := rows.Scan(&a.ID, &date, &a.Type, &a.Intensity, &a.DurationMinutes, &a.Notes); err != nil {
			return nil, db.StoreError("activity: scan", err)
		}
		a.Date = shared.DateOf(date)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("activity: rows", err)
	}
	return out, nil
}

// Insert stores a new activity for userID.
func (r *PGRepository) Insert(ctx context.Context, userID int64, a Activity) (Activity, error) {
	const stmt = `INSERT INTO activity_logs (user_id, activity_date, activity_type, intensity, duration_minutes, notes)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, stmt, userID, a.Date.Time, a.Type, a.Intensity, a.DurationMinutes, a.Notes).Scan(&a.ID)
	if err != nil {
		return Activity{}, db.StoreError("activity: insert", err)
	}
	return a, nil
}

// Summarize aggregates the user's activity. A user without rows yields zero
// totals and nil average and dates.
func (r *PGRepository) Summarize(ctx context.Context, userID int64) (Summary, error) {
	const stmt = `SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0), AVG(duration_minutes)::float8,
MIN(activity_date), MAX(activity_date)
FROM activity_logs WHERE user_id = $1`
	var (
		s           Summary
		first, last *time.Time
	)
	err := r.db.QueryRow(ctx, stmt, userID).Scan(&s.TotalSessions, &s.TotalMinutes, &s.AvgMinutes, &first, &last)
	if err != nil {
		return Summary{}, db.StoreError("activity: summarize", err)
	}
	s.FirstDate = shared.DatePtr(first)
	s.LastDate = shared.DatePtr(last)
	return s, nil
}

var _ Repository = (*PGRepository)(nil)
