package goals

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/internal/query"
	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

type recordingRepo struct {
	queries  []query.Query
	inserted []Goal
	owners   []int64
	rows     []Goal
}

func (r *recordingRepo) Find(ctx context.Context, q query.Query) ([]Goal, error) {
	r.queries = append(r.queries, q)
	return r.rows, nil
}

func (r *recordingRepo) Insert(ctx context.Context, userID int64, g Goal) (Goal, error) {
	g.ID = int64(len(r.inserted) + 1)
	g.CreatedAt = time.Now()
	r.inserted = append(r.inserted, g)
	r.owners = append(r.owners, userID)
	return g, nil
}

var bob = shared.Principal{UserID: 4, Username: "bobby"}

func TestListDefaultOrderAndScope(t *testing.T) {
	repo := &recordingRepo{}
	_, err := NewService(repo).List(context.Background(), bob, url.Values{})
	require.NoError(t, err)
	q := repo.queries[0]
	assert.Equal(t,
		"SELECT id, title, description, metric, target_value, current_value, deadline, is_completed, created_at FROM goals WHERE user_id = $1 ORDER BY deadline IS NULL, deadline ASC, created_at DESC",
		q.SQL)
	assert.Equal(t, []any{int64(4)}, q.Args)
}

func TestListFilters(t *testing.T) {
	repo := &recordingRepo{}
	_, err := NewService(repo).List(context.Background(), bob, url.Values{
		"metric": {"km"}, "completed": {"0"}, "deadline_before": {"2024-12-31"}, "sort": {"title"},
	})
	require.NoError(t, err)
	q := repo.queries[0]
	assert.Contains(t, q.SQL, "WHERE user_id = $1 AND metric ILIKE $2 AND is_completed = $3 AND deadline <= $4 ORDER BY title ASC")
	require.Len(t, q.Args, 4)
	assert.Equal(t, false, q.Args[2])
}

func TestListRejectsBadFlag(t *testing.T) {
	repo := &recordingRepo{}
	_, err := NewService(repo).List(context.Background(), bob, url.Values{"completed": {"yes"}})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.queries)
}

func TestAddOptionalFields(t *testing.T) {
	repo := &recordingRepo{}
	g, err := NewService(repo).Add(context.Background(), bob, Submission{Title: "Run 100km"})
	require.NoError(t, err)
	assert.Equal(t, "Run 100km", g.Title)
	assert.Nil(t, g.Description)
	assert.Nil(t, g.TargetValue)
	assert.Nil(t, g.Deadline)
	assert.False(t, g.Completed)
	assert.Equal(t, []int64{4}, repo.owners)
}

func TestAddFullGoal(t *testing.T) {
	repo := &recordingRepo{}
	g, err := NewService(repo).Add(context.Background(), bob, Submission{
		Title: "Lose weight", Description: "Before summer", Metric: "kg",
		TargetValue: "10", CurrentValue: "2.5", Deadline: "2024-06-01", Completed: "1",
	})
	require.NoError(t, err)
	require.NotNil(t, g.Deadline)
	assert.Equal(t, "2024-06-01", g.Deadline.String())
	assert.True(t, g.Completed)
	require.NotNil(t, g.Progress())
	assert.InDelta(t, 25.0, *g.Progress(), 0.001)
}

func TestAddValidation(t *testing.T) {
	repo := &recordingRepo{}
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	_, err := NewService(repo).Add(context.Background(), bob, Submission{
		Title: string(long), TargetValue: "-1", CurrentValue: "lots", Deadline: "soon", Completed: "2",
	})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	fields := errs.Fields()
	assert.Equal(t, "Title must be at most 100 characters.", fields["title"])
	assert.Equal(t, "Target value must be a positive number no greater than 99999999.99.", fields["target_value"])
	assert.Equal(t, "Current value must be a positive number no greater than 99999999.99.", fields["current_value"])
	assert.Equal(t, "Deadline must be a valid date (YYYY-MM-DD).", fields["deadline"])
	assert.Equal(t, "Completion must be 0 or 1.", fields["is_completed"])
	assert.Empty(t, repo.inserted)
}

func TestAddRejectsValuesBeyondColumnPrecision(t *testing.T) {
	repo := &recordingRepo{}
	_, err := NewService(repo).Add(context.Background(), bob, Submission{
		Title: "Run far", TargetValue: "1e9", CurrentValue: "100000000",
	})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	fields := errs.Fields()
	assert.Contains(t, fields, "target_value")
	assert.Contains(t, fields, "current_value")
	assert.Empty(t, repo.inserted)
}

func TestProgress(t *testing.T) {
	ten, zero, twelve := 10.0, 0.0, 12.0
	assert.Nil(t, Goal{}.Progress())
	assert.Nil(t, Goal{TargetValue: &zero, CurrentValue: &ten}.Progress())
	assert.Equal(t, 100.0, *Goal{TargetValue: &ten, CurrentValue: &twelve}.Progress())
}
