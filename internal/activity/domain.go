package activity

import "github.com/shelfwise/shelfwise/internal/shared"

// Activity is one logged exercise session.
type Activity struct {
	ID              int64       `json:"id"`
	Date            shared.Date `json:"activity_date"`
	Type            string      `json:"activity_type"`
	Intensity       string      `json:"intensity"`
	DurationMinutes int         `json:"duration_minutes"`
	Notes           *string     `json:"notes"`
}

// Submission is the raw "log activity" form.
type Submission struct {
	Date      string
	Type      string
	Intensity string
	Duration  string
	Notes     string
}

// Summary aggregates every activity of one user.
type Summary struct {
	TotalSessions int64        `json:"total_sessions"`
	TotalMinutes  int64        `json:"total_minutes"`
	AvgMinutes    *float64     `json:"avg_minutes"`
	FirstDate     *shared.Date `json:"first_date"`
	LastDate      *shared.Date `json:"last_date"`
}
