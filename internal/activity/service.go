package activity

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shelfwise/shelfwise/internal/query"
	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

var searchSchema = query.Schema{
	Base:  "SELECT id, activity_date, activity_type, intensity, duration_minutes, notes FROM activity_logs",
	Scope: "user_id",
	Filters: []query.Filter{
		{Param: "keyword", Column: "activity_type", Op: query.Contains},
		{Param: "from_date", Column: "activity_date", Op: query.Gte, Coerce: query.Date, Label: "From date"},
		{Param: "to_date", Column: "activity_date", Op: query.Lte, Coerce: query.Date, Label: "To date"},
		{Param: "min_duration", Column: "duration_minutes", Op: query.Gte, Coerce: query.Int, Label: "Minimum duration"},
	},
	Sorts: map[string]string{
		"date":     "activity_date DESC",
		"duration": "duration_minutes DESC, activity_date DESC",
		"type":     "activity_type ASC, activity_date DESC",
	},
	DefaultSort: "activity_date DESC",
	Dialect:     query.Postgres,
}

// Service implements activity logging for the signed-in user.
type Service struct {
	repo      Repository
	validator *validate.Validator
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validate.New(), now: time.Now}
}

// Search returns the owner's activities matching the optional filters.
func (s *Service) Search(ctx context.Context, owner shared.Principal, params url.Values) ([]Activity, error) {
	q, err := searchSchema.Build(params, owner.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, q)
}

// Add validates and stores an activity. A blank date means today.
func (s *Service) Add(ctx context.Context, owner shared.Principal, sub Submission) (Activity, error) {
	values, err := s.validator.Form(
		validate.F("activity_date", sub.Date, validate.Date(), validate.Label("Date")),
		validate.F("activity_type", sub.Type, validate.Required(), validate.MaxLength(50), validate.Label("Activity type")),
		validate.F("intensity", sub.Intensity, validate.Required(), validate.MaxLength(20), validate.Label("Intensity")),
		validate.F("duration_minutes", sub.Duration, validate.Required(), validate.IntRange(1, 1440), validate.Label("Duration")),
		validate.F("notes", sub.Notes, validate.MaxLength(1000), validate.Label("Notes")),
	)
	if err != nil {
		return Activity{}, err
	}

	a := Activity{
		Date:      shared.DateOf(s.now()),
		Type:      values["activity_type"],
		Intensity: values["intensity"],
	}
	if raw := values["activity_date"]; raw != "" {
		if a.Date, err = shared.ParseDate(raw); err != nil {
			return Activity{}, validate.Errors{{Field: "activity_date", Reason: "Date must be a valid date (YYYY-MM-DD)."}}
		}
	}
	a.DurationMinutes, _ = strconv.Atoi(values["duration_minutes"])
	if notes := values["notes"]; notes != "" {
		a.Notes = &notes
	}
	return s.repo.Insert(ctx, owner.UserID, a)
}

// Summary aggregates the owner's activity history.
func (s *Service) Summary(ctx context.Context, owner shared.Principal) (Summary, error) {
	return s.repo.Summarize(ctx, owner.UserID)
}
