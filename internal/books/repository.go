package books

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/shelfwise/internal/platform/db"
	"github.com/shelfwise/shelfwise/internal/query"
)

// Repository reads and appends catalogue rows.
type Repository interface {
	Find(ctx context.Context, q query.Query) ([]Book, error)
	Insert(ctx context.Context, b Book) (Book, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// Find runs a statement built from one of the book schemas.
func (r *PGRepository) Find(ctx context.Context, q query.Query) ([]Book, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, db.StoreError("books: find", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Name, &b.Price); err != nil {
			return nil, db.StoreError("books: scan", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("books: rows", err)
	}
	return out, nil
}

// Insert stores a new book.
func (r *PGRepository) Insert(ctx context.Context, b Book) (Book, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO books (name, price) VALUES ($1, $2) RETURNING id`, b.Name, b.Price).Scan(&b.ID)
	if err != nil {
		return Book{}, db.StoreError("books: insert", err)
	}
	return b, nil
}

var _ Repository = (*PGRepository)(nil)
