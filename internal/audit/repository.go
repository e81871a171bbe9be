package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/shelfwise/internal/platform/db"
)

// Repository persists audit entries. It offers no update or delete.
type Repository interface {
	Insert(ctx context.Context, entry Entry) (Entry, error)
	ListNewestFirst(ctx context.Context) ([]Entry, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// Insert appends an entry and returns it with its id and timestamp.
func (r *PGRepository) Insert(ctx context.Context, entry Entry) (Entry, error) {
	const query = `INSERT INTO audit_log (username, success, message, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, entry.Username, entry.Success(), entry.Message, entry.IPAddress, entry.UserAgent).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return Entry{}, db.StoreError("audit: insert", err)
	}
	return entry, nil
}

// ListNewestFirst returns every entry ordered by creation time descending.
func (r *PGRepository) ListNewestFirst(ctx context.Context) ([]Entry, error) {
	const query = `SELECT id, username, success, message, ip_address, user_agent, created_at
FROM audit_log ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, db.StoreError("audit: list", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			success bool
		)
		if err := rows.Scan(&e.ID, &e.Username, &success, &e.Message, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, db.StoreError("audit: scan", err)
		}
		e.Outcome = OutcomeFailure
		if success {
			e.Outcome = OutcomeSuccess
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("audit: rows", err)
	}
	return entries, nil
}

var _ Repository = (*PGRepository)(nil)
