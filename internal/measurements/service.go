package measurements

import (
	"context"
	"strconv"

	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

// Service implements body measurement tracking.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validate.New()}
}

// List returns the owner's history, newest first.
func (s *Service) List(ctx context.Context, owner shared.Principal) ([]Measurement, error) {
	return s.repo.ListByUser(ctx, owner.UserID)
}

// Add validates and stores an entry and reports the BMI when height and
// weight were both given.
func (s *Service) Add(ctx context.Context, owner shared.Principal, sub Submission) (Recorded, error) {
	values, err := s.validator.Form(
		validate.F("recorded_at", sub.RecordedAt, validate.Required(), validate.Date(),
			validate.Message("Please choose a valid date.")),
		validate.F("height_cm", sub.HeightCm, validate.FloatRange(50, 250),
			validate.Message("Height should be between 50cm and 250cm.")),
		validate.F("weight_kg", sub.WeightKg, validate.FloatRange(20, 500),
			validate.Message("Weight should be between 20kg and 500kg.")),
		validate.F("resting_hr", sub.RestingHR, validate.IntRange(30, 220),
			validate.Message("Resting heart rate should be between 30 and 220 bpm.")),
		validate.F("systolic_bp", sub.SystolicBP, validate.IntRange(70, 250),
			validate.Message("Systolic BP should be between 70 and 250.")),
		validate.F("diastolic_bp", sub.DiastolicBP, validate.IntRange(40, 150),
			validate.Message("Diastolic BP should be between 40 and 150.")),
		validate.F("notes", sub.Notes, validate.MaxLength(255), validate.Label("Notes")),
	)
	if err != nil {
		return Recorded{}, err
	}

	date, err := shared.ParseDate(values["recorded_at"])
	if err != nil {
		return Recorded{}, validate.Errors{{Field: "recorded_at", Reason: "Please choose a valid date."}}
	}
	m := Measurement{
		RecordedAt:  date,
		WeightKg:    optionalFloat(values["weight_kg"]),
		SystolicBP:  optionalInt(values["systolic_bp"]),
		DiastolicBP: optionalInt(values["diastolic_bp"]),
		RestingHR:   optionalInt(values["resting_hr"]),
	}
	if notes := values["notes"]; notes != "" {
		m.Notes = &notes
	}

	stored, err := s.repo.Insert(ctx, owner.UserID, m)
	if err != nil {
		return Recorded{}, err
	}
	height := optionalFloat(values["height_cm"])
	return Recorded{Measurement: stored, HeightCm: height, BMI: BMI(height, stored.WeightKg)}, nil
}

func optionalFloat(v string) *float64 {
	f, err := strconv.ParseFloat(v, 64)
	if v == "" || err != nil {
		return nil
	}
	return &f
}

func optionalInt(v string) *int {
	n, err := strconv.Atoi(v)
	if v == "" || err != nil {
		return nil
	}
	return &n
}
