package books

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shelfwise/shelfwise/internal/query"
	"github.com/shelfwise/shelfwise/internal/validate"
)

const selectBooks = "SELECT id, name, price FROM books"

var (
	searchSchema = query.Schema{
		Base:        selectBooks,
		Filters:     []query.Filter{{Param: "keyword", Column: "name", Op: query.Contains}},
		DefaultSort: "name",
		Dialect:     query.Postgres,
	}
	listSchema = query.Schema{
		Base:        selectBooks,
		DefaultSort: "name",
		Dialect:     query.Postgres,
	}
	bargainSchema = query.Schema{
		Base:        selectBooks,
		Fixed:       []string{"price < " + strconv.Itoa(BargainThreshold)},
		DefaultSort: "price",
		Dialect:     query.Postgres,
	}
	apiSchema = query.Schema{
		Base: selectBooks,
		Filters: []query.Filter{
			{Param: "search", Column: "name", Op: query.Contains},
			{Param: "minprice", Column: "price", Op: query.Gte, Coerce: query.Decimal, Label: "Minimum price"},
			{Param: "maxprice", Column: "price", Op: query.Lte, Coerce: query.Decimal, Label: "Maximum price"},
		},
		Sorts:       map[string]string{"name": "name", "price": "price"},
		DefaultSort: "id",
		Dialect:     query.Postgres,
	}
)

// Service implements the catalogue operations.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validate.New()}
}

// Search returns books whose name contains the keyword, ordered by name. An
// empty keyword matches every book.
func (s *Service) Search(ctx context.Context, params url.Values) (SearchResult, error) {
	found, err := s.find(ctx, searchSchema, params)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Keyword: validate.Normalize(params.Get("keyword")), Results: found}, nil
}

// List returns every book ordered by name.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.find(ctx, listSchema, nil)
}

// Bargains returns books cheaper than BargainThreshold, cheapest first.
func (s *Service) Bargains(ctx context.Context) ([]Book, error) {
	return s.find(ctx, bargainSchema, nil)
}

// Catalogue serves the JSON API with optional name, price range and sort.
func (s *Service) Catalogue(ctx context.Context, params url.Values) ([]Book, error) {
	return s.find(ctx, apiSchema, params)
}

// Add validates and stores a book.
func (s *Service) Add(ctx context.Context, name, price string) (Book, error) {
	values, err := s.validator.Form(
		validate.F("name", name, validate.Required(), validate.MaxLength(255), validate.Label("Book name")),
		validate.F("price", price, validate.Required(), validate.FloatRange(0, MaxPrice),
			validate.Message("Price must be a positive number no greater than 99999999.99.")),
	)
	if err != nil {
		return Book{}, err
	}
	p, _ := strconv.ParseFloat(values["price"], 64)
	return s.repo.Insert(ctx, Book{Name: values["name"], Price: p})
}

func (s *Service) find(ctx context.Context, schema query.Schema, params url.Values) ([]Book, error) {
	q, err := schema.Build(params)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, q)
}
