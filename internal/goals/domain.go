package goals

import (
	"time"

	"github.com/shelfwise/shelfwise/internal/shared"
)

// MaxValue is the largest target or current value NUMERIC(10,2) can hold.
const MaxValue = 99999999.99

// Goal is a user-defined fitness target.
type Goal struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  *string      `json:"description"`
	Metric       *string      `json:"metric"`
	TargetValue  *float64     `json:"target_value"`
	CurrentValue *float64     `json:"current_value"`
	Deadline     *shared.Date `json:"deadline"`
	Completed    bool         `json:"is_completed"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Progress returns current/target as a percentage capped at 100, or nil when
// either value is missing or the target is zero.
func (g Goal) Progress() *float64 {
	if g.TargetValue == nil || g.CurrentValue == nil || *g.TargetValue <= 0 {
		return nil
	}
	p := *g.CurrentValue * 100 / *g.TargetValue
	if p > 100 {
		p = 100
	}
	return &p
}

// Submission is the raw goal form.
type Submission struct {
	Title        string
	Description  string
	Metric       string
	TargetValue  string
	CurrentValue string
	Deadline     string
	Completed    string
}
