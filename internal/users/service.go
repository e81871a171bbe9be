package users

import (
	"context"
	"net/url"

	"github.com/shelfwise/shelfwise/internal/query"
)

var directorySchema = query.Schema{
	Base: `SELECT id, username, first, last, email, created_at FROM users`,
	Filters: []query.Filter{
		{Param: "q", Column: "username", Op: query.Contains},
		{Param: "email", Column: "email", Op: query.Contains},
	},
	Sorts: map[string]string{
		"username": "username",
		"newest":   "created_at DESC, id DESC",
	},
	DefaultSort: "id",
	Dialect:     query.Postgres,
}

// Finder runs directory queries.
type Finder interface {
	Find(ctx context.Context, q query.Query) ([]User, error)
}

// Service lists registered users.
type Service struct {
	repo Finder
}

// NewService builds Service instance.
func NewService(repo Finder) *Service {
	return &Service{repo: repo}
}

// Directory returns users matching the optional q and email filters, ordered
// by id unless sort names username or newest.
func (s *Service) Directory(ctx context.Context, params url.Values) ([]User, error) {
	q, err := directorySchema.Build(params)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, q)
}
