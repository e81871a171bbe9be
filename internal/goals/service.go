package goals

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shelfwise/shelfwise/internal/query"
	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

var listSchema = query.Schema{
	Base:  "SELECT id, title, description, metric, target_value, current_value, deadline, is_completed, created_at FROM goals",
	Scope: "user_id",
	Filters: []query.Filter{
		{Param: "metric", Column: "metric", Op: query.Contains},
		{Param: "completed", Column: "is_completed", Op: query.Eq, Coerce: query.Flag, Label: "Completed"},
		{Param: "deadline_before", Column: "deadline", Op: query.Lte, Coerce: query.Date, Label: "Deadline"},
	},
	Sorts: map[string]string{
		"deadline": "deadline IS NULL, deadline ASC, created_at DESC",
		"created":  "created_at DESC",
		"title":    "title ASC",
	},
	DefaultSort: "deadline IS NULL, deadline ASC, created_at DESC",
	Dialect:     query.Postgres,
}

// Service implements goal tracking for the signed-in user.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validate.New()}
}

// List returns the owner's goals, soonest deadline first by default.
func (s *Service) List(ctx context.Context, owner shared.Principal, params url.Values) ([]Goal, error) {
	q, err := listSchema.Build(params, owner.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, q)
}

// Add validates and stores a goal.
func (s *Service) Add(ctx context.Context, owner shared.Principal, sub Submission) (Goal, error) {
	values, err := s.validator.Form(
		validate.F("title", sub.Title, validate.Required(), validate.MaxLength(100), validate.Label("Title")),
		validate.F("description", sub.Description, validate.MaxLength(500), validate.Label("Description")),
		validate.F("metric", sub.Metric, validate.MaxLength(50), validate.Label("Metric")),
		validate.F("target_value", sub.TargetValue, validate.FloatRange(0, MaxValue),
			validate.Message("Target value must be a positive number no greater than 99999999.99.")),
		validate.F("current_value", sub.CurrentValue, validate.FloatRange(0, MaxValue),
			validate.Message("Current value must be a positive number no greater than 99999999.99.")),
		validate.F("deadline", sub.Deadline, validate.Date(), validate.Label("Deadline")),
		validate.F("is_completed", sub.Completed, validate.OneOf("0", "1"),
			validate.Message("Completion must be 0 or 1.")),
	)
	if err != nil {
		return Goal{}, err
	}

	g := Goal{
		Title:        values["title"],
		Description:  optionalText(values["description"]),
		Metric:       optionalText(values["metric"]),
		TargetValue:  optionalFloat(values["target_value"]),
		CurrentValue: optionalFloat(values["current_value"]),
		Completed:    values["is_completed"] == "1",
	}
	if raw := values["deadline"]; raw != "" {
		d, err := shared.ParseDate(raw)
		if err != nil {
			return Goal{}, validate.Errors{{Field: "deadline", Reason: "Deadline must be a valid date (YYYY-MM-DD)."}}
		}
		g.Deadline = &d
	}
	return s.repo.Insert(ctx, owner.UserID, g)
}

func optionalText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
