package measurements

import (
	"math"

	"github.com/shelfwise/shelfwise/internal/shared"
)

// Measurement is one stored body measurement entry.
type Measurement struct {
	ID          int64       `json:"id"`
	RecordedAt  shared.Date `json:"recorded_at"`
	WeightKg    *float64    `json:"weight_kg"`
	SystolicBP  *int        `json:"systolic_bp"`
	DiastolicBP *int        `json:"diastolic_bp"`
	RestingHR   *int        `json:"resting_hr"`
	Notes       *string     `json:"notes"`
}

// Recorded is the confirmation of an added entry. Height is accepted only to
// compute BMI and is not stored.
type Recorded struct {
	Measurement
	HeightCm *float64 `json:"height_cm"`
	BMI      *float64 `json:"bmi"`
}

// Submission is the raw measurement form.
type Submission struct {
	RecordedAt  string
	HeightCm    string
	WeightKg    string
	RestingHR   string
	SystolicBP  string
	DiastolicBP string
	Notes       string
}

// BMI returns weight / height² rounded to one decimal, or nil when either
// value is missing.
func BMI(heightCm, weightKg *float64) *float64 {
	if heightCm == nil || weightKg == nil || *heightCm <= 0 {
		return nil
	}
	m := *heightCm / 100
	bmi := math.Round(*weightKg/(m*m)*10) / 10
	return &bmi
}
