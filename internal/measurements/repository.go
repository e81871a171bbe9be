package measurements

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/shelfwise/internal/platform/db"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Repository persists measurement entries.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Measurement, error)
	Insert(ctx context.Context, userID int64, m Measurement) (Measurement, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// ListByUser returns the user's entries, newest first.
func (r *PGRepository) ListByUser(ctx context.Context, userID int64) ([]Measurement, error) {
	const stmt = `SELECT id, entry_date, weight_kg, systolic_bp, diastolic_bp, resting_hr, notes
FROM health_entries WHERE user_id = $1 ORDER BY entry_date DESC, id DESC`
	rows, err := r.db.Query(ctx, stmt, userID)
	if err != nil {
		return nil, db.StoreError("measurements: list", err)
	}
	defer rows.Close()

	out := []Measurement{}
	for rows.Next() {
		var (
			m    Measurement
			date time.Time
		)
		if err := rows.Scan(&m.ID, &date, &m.WeightKg, &m.SystolicBP, &m.DiastolicBP, &m.RestingHR, &m.Notes); err != nil {
			return nil, db.StoreError("measurements: scan", err)
		}
		m.RecordedAt = shared.DateOf(date)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("measurements: rows", err)
	}
	return out, nil
}

// Insert stores an entry for userID.
func (r *PGRepository) Insert(ctx context.Context, userID int64, m Measurement) (Measurement, error) {
	const stmt = `INSERT INTO health_entries (user_id, entry_date, weight_kg, systolic_bp, diastolic_bp, resting_hr, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, stmt, userID, m.RecordedAt.Time, m.WeightKg, m.SystolicBP, m.DiastolicBP, m.RestingHR, m.Notes).
		Scan(&m.ID)
	if err != nil {
		return Measurement{}, db.StoreError("measurements: insert", err)
	}
	return m, nil
}

var _ Repository = (*PGRepository)(nil)
