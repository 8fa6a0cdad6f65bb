package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
)

func newCase(t *testing.T, s *Store) models.Case {
	t.Helper()
	c, err := s.CreateCase(context.Background(), models.Case{
		Lat:              51.755,
		Lon:              -0.128,
		RawText:          "water rising in the basement",
		StructuredFields: models.DefaultStructuredFields(),
	})
	require.NoError(t, err)
	return c
}

func TestClaimMovesOpenCaseToAssigned(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)
	assert.Equal(t, models.StatusOpen, c.Status)

	a, err := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	require.NoError(t, err)
	assert.True(t, a.Open())

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)

	// a second helper may still join an assigned case
	_, err = s.ClaimAssignment(ctx, c.ID, "helper-2", nil)
	require.NoError(t, err)

	_, err = s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	history, err := s.CaseHistory(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusAssigned, history[1].ToStatus)
	assert.Equal(t, "helper:helper-1", history[1].Actor)
}

func TestClaimRejectsTerminalCase(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)
	_, err := s.TransitionCase(ctx, c.ID, models.StatusClosed, "duplicate", "system")
	require.NoError(t, err)

	_, err = s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = s.ClaimAssignment(ctx, "missing", "helper-1", nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestConcurrentClaimsBySameHelper(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ClaimAssignment(ctx, c.ID, "helper-1", nil); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)

	list, err := s.ListAssignmentsByCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConcurrentClaimsByDistinctHelpers(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ClaimAssignment(ctx, c.ID, fmt.Sprintf("helper-%d", i), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)

	history, err := s.CaseHistory(ctx, c.ID)
	require.NoError(t, err)
	var assignedRows int
	for _, h := range history {
		if h.ToStatus == models.StatusAssigned {
			assignedRows++
			assert.Equal(t, models.StatusOpen, h.FromStatus)
		}
	}
	assert.Equal(t, 1, assignedRows, "only the first claim moves the case out of open")

	list, err := s.ListAssignmentsByCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 8)
}

func TestCreateCaseRejectsUnknownReporter(t *testing.T) {
	s := New()
	reporter := "no-such-user"
	_, err := s.CreateCase(context.Background(), models.Case{Lat: 1, Lon: 1, RawText: "help", ReporterID: &reporter})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, s.cases)
}

func TestStartRejectsCompletedAssignment(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)

	done, err := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	require.NoError(t, err)
	_, err = s.ClaimAssignment(ctx, c.ID, "helper-2", nil)
	require.NoError(t, err)
	_, resolved, err := s.CompleteAssignment(ctx, done.ID, "handed over", nil)
	require.NoError(t, err)
	require.False(t, resolved)

	_, _, err = s.StartAssignment(ctx, done.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)
}

func TestCompleteLastAssignmentResolvesOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)

	a1, err := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	require.NoError(t, err)
	a2, err := s.ClaimAssignment(ctx, c.ID, "helper-2", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i, id := range []string{a1.ID, a2.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, resolved, err := s.CompleteAssignment(ctx, id, "rescued", nil)
			assert.NoError(t, err)
			results[i] = resolved
		}()
	}
	wg.Wait()
	assert.NotEqual(t, results[0], results[1], "exactly one completion resolves the case")

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, got.Status)
	assert.NotNil(t, got.ResolvedAt)

	history, err := s.CaseHistory(ctx, c.ID)
	require.NoError(t, err)
	var resolvedRows int
	for _, h := range history {
		if h.ToStatus == models.StatusResolved {
			resolvedRows++
			assert.Equal(t, models.StatusInProgress, h.FromStatus)
		}
	}
	assert.Equal(t, 1, resolvedRows)

	_, _, err = s.CompleteAssignment(ctx, a1.ID, "rescued", nil)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCompleteKeepsCaseWhileOthersOpen(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)
	a1, _ := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	_, _ = s.ClaimAssignment(ctx, c.ID, "helper-2", nil)

	notes := "handed over"
	done, resolved, err := s.CompleteAssignment(ctx, a1.ID, "partial", &notes)
	require.NoError(t, err)
	assert.False(t, resolved)
	assert.Equal(t, "handed over", *done.Notes)

	got, _ := s.GetCase(ctx, c.ID)
	assert.Equal(t, models.StatusAssigned, got.Status)
}

func TestStartAssignment(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)
	a, _ := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)

	_, got, err := s.StartAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	// starting again is a no-op
	_, got, err = s.StartAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
}

func TestTransitionRejectsUnknownEdge(t *testing.T) {
	s := New()
	c := newCase(t, s)
	_, err := s.TransitionCase(context.Background(), c.ID, models.StatusResolved, "skip", "system")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestMessagesReadAndQuestions(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)
	a, _ := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)

	q, err := s.InsertMessage(ctx, models.Message{AssignmentID: a.ID, CaseID: c.ID, Sender: models.SenderHelperAgent, Type: models.MessageQuestion, Text: "Is anyone injured?"})
	require.NoError(t, err)
	_, err = s.InsertMessage(ctx, models.Message{AssignmentID: a.ID, CaseID: c.ID, Sender: models.SenderVictimUser, Type: models.MessageStatusUpdate, Text: "door is jammed"})
	require.NoError(t, err)

	unread, err := s.UnreadMessages(ctx, a.ID, models.PartyHelper.Senders())
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, q.ID, unread[0].ID)

	open, err := s.LatestOpenQuestion(ctx, a.ID, models.PartyHelper.Senders())
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, q.ID, open.ID)

	_, err = s.InsertMessage(ctx, models.Message{AssignmentID: a.ID, CaseID: c.ID, Sender: models.SenderVictimUser, Type: models.MessageAnswer, Text: "no", InResponseTo: &q.ID})
	require.NoError(t, err)
	open, err = s.LatestOpenQuestion(ctx, a.ID, models.PartyHelper.Senders())
	require.NoError(t, err)
	assert.Nil(t, open)

	n, err := s.MarkMessagesRead(ctx, []string{q.ID, "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.MarkMessagesRead(ctx, []string{q.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := s.ListMessages(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, q.ID, all[0].ID)
	assert.True(t, all[0].Read)
}

func TestUserLocationUpsertAndHelperIndex(t *testing.T) {
	ctx := context.Background()
	s := New()
	rangeKm := 5.0

	u, created, err := s.UpsertUserLocation(ctx, models.User{Name: "Ana", IsHelper: true, HelperSkills: []string{"medical"}, HelperMaxRangeKm: &rangeKm}, 51.75, -0.12)
	require.NoError(t, err)
	assert.True(t, created)

	u2, created, err := s.UpsertUserLocation(ctx, models.User{ID: u.ID}, 51.76, -0.13)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ana", u2.Name)
	assert.Equal(t, 51.76, *u2.Lat)
	assert.Equal(t, []string{"medical"}, u2.HelperSkills)

	history, err := s.LocationHistory(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 51.76, history[0].Lat)

	_, _, err = s.UpsertUserLocation(ctx, models.User{Name: "Caller", IsCaller: true}, 51.75, -0.12)
	require.NoError(t, err)

	box := geo.BoundingBox(51.755, -0.128, 5)
	helpers, err := s.LatestHelperLocations(ctx, &box)
	require.NoError(t, err)
	require.Len(t, helpers, 1)
	assert.Equal(t, u.ID, helpers[0].User.ID)
	assert.Equal(t, 51.76, helpers[0].Latest.Lat)
}

func TestGuideUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.GetGuide(ctx, models.GuideCaller, "case-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.UpsertGuide(ctx, models.Guide{Kind: models.GuideCaller, OwnerID: "case-1", Text: "first"})
	require.NoError(t, err)
	_, err = s.UpsertGuide(ctx, models.Guide{Kind: models.GuideCaller, OwnerID: "case-1", Text: "second"})
	require.NoError(t, err)

	g, ok, err := s.GetGuide(ctx, models.GuideCaller, "case-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", g.Text)
}

func TestUpsertGuideUnlessClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := newCase(t, s)

	g := models.Guide{Kind: models.GuideCaller, OwnerID: c.ID, Text: "- stay high"}
	_, written, err := s.UpsertGuideUnlessClosed(ctx, c.ID, g)
	require.NoError(t, err)
	assert.True(t, written)

	_, err = s.TransitionCase(ctx, c.ID, models.StatusClosed, "duplicate", "system")
	require.NoError(t, err)
	g.Text = "- late"
	_, written, err = s.UpsertGuideUnlessClosed(ctx, c.ID, g)
	require.NoError(t, err)
	assert.False(t, written)

	stored, ok, err := s.GetGuide(ctx, models.GuideCaller, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "- stay high", stored.Text)
}
