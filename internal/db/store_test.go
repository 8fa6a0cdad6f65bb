package db

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	var up, down int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			up++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			down++
		}
	}
	if up == 0 || up != down {
		t.Fatalf("expected paired up/down migrations, got up=%d down=%d", up, down)
	}
}

func TestBoxClauseWrapsAntimeridian(t *testing.T) {
	var args []any
	clause := boxClause(&geo.Box{MinLat: -1, MaxLat: 1, MinLon: 179, MaxLon: 181}, &args, "l.")
	if !strings.Contains(clause, "l.lon >= $3 OR l.lon <= $4") {
		t.Fatalf("expected wrapped longitude predicate, got %q", clause)
	}
	if len(args) != 4 || args[3].(float64) != -179 {
		t.Fatalf("unexpected args %v", args)
	}

	args = []any{"first"}
	clause = boxClause(&geo.Box{MinLat: -1, MaxLat: 1, MinLon: 10, MaxLon: 11}, &args, "")
	if clause != "lat BETWEEN $2 AND $3 AND lon BETWEEN $4 AND $5" {
		t.Fatalf("unexpected clause %q", clause)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	s, err := New(context.Background(), url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.Migrate(zerolog.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestClaimAndCompleteIntegration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, models.Case{Lat: 51.755, Lon: -0.128, RawText: "trapped on second floor", StructuredFields: models.DefaultStructuredFields()})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.ClaimAssignment(ctx, c.ID, "helper-it", nil)
		}()
	}
	wg.Wait()
	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if ok != 1 || conflicts != len(errs)-1 {
		t.Fatalf("expected exactly one claim, got ok=%d conflicts=%d", ok, conflicts)
	}

	list, err := s.ListAssignmentsByCase(ctx, c.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list assignments: %v %d", err, len(list))
	}
	_, resolved, err := s.CompleteAssignment(ctx, list[0].ID, "rescued", nil)
	if err != nil || !resolved {
		t.Fatalf("complete: resolved=%v err=%v", resolved, err)
	}

	got, err := s.GetCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("get case: %v", err)
	}
	if got.Status != models.StatusResolved || got.ResolvedAt == nil {
		t.Fatalf("expected resolved case, got %s", got.Status)
	}

	history, err := s.CaseHistory(ctx, c.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []models.CaseStatus{models.StatusOpen, models.StatusAssigned, models.StatusInProgress, models.StatusResolved}
	if len(history) != len(want) {
		t.Fatalf("expected %d audit rows, got %d", len(want), len(history))
	}
	for i, h := range history {
		if h.ToStatus != want[i] {
			t.Fatalf("audit %d: expected %s, got %s", i, want[i], h.ToStatus)
		}
	}
}

func TestConcurrentClaimsByDistinctHelpersIntegration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, models.Case{Lat: 51.5, Lon: -0.12, RawText: "roof collapsed", StructuredFields: models.DefaultStructuredFields()})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.ClaimAssignment(ctx, c.ID, fmt.Sprintf("helper-it-%d", i), nil)
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
	}

	got, err := s.GetCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("get case: %v", err)
	}
	if got.Status != models.StatusAssigned {
		t.Fatalf("expected assigned, got %s", got.Status)
	}
	history, err := s.CaseHistory(ctx, c.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var assignedRows int
	for _, h := range history {
		if h.ToStatus == models.StatusAssigned {
			assignedRows++
		}
	}
	if assignedRows != 1 {
		t.Fatalf("expected exactly one open->assigned audit row, got %d", assignedRows)
	}
}

func TestCreateCaseUnknownReporterIntegration(t *testing.T) {
	s := openTestStore(t)
	reporter := "no-such-user"
	_, err := s.CreateCase(context.Background(), models.Case{Lat: 1, Lon: 1, RawText: "help", ReporterID: &reporter, StructuredFields: models.DefaultStructuredFields()})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStartAndGuideOnClosedCaseIntegration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, models.Case{Lat: 48.85, Lon: 2.35, RawText: "stuck in lift", StructuredFields: models.DefaultStructuredFields()})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	done, err := s.ClaimAssignment(ctx, c.ID, "helper-a", nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := s.ClaimAssignment(ctx, c.ID, "helper-b", nil); err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if _, _, err := s.CompleteAssignment(ctx, done.ID, "handed over", nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, _, err := s.StartAssignment(ctx, done.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected CONFLICT starting a completed assignment, got %v", err)
	}

	if _, err := s.TransitionCase(ctx, c.ID, models.StatusClosed, "duplicate", "system"); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, written, err := s.UpsertGuideUnlessClosed(ctx, c.ID, models.Guide{Kind: models.GuideCaller, OwnerID: c.ID, Text: "- late"})
	if err != nil || written {
		t.Fatalf("expected guide discarded for closed case, written=%v err=%v", written, err)
	}
	if _, ok, err := s.GetGuide(ctx, models.GuideCaller, c.ID); err != nil || ok {
		t.Fatalf("expected no guide, ok=%v err=%v", ok, err)
	}
}

func TestMessagesIntegration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, models.Case{Lat: 1, Lon: 1, RawText: "smoke", StructuredFields: models.DefaultStructuredFields()})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	a, err := s.ClaimAssignment(ctx, c.ID, "helper-msg", nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	single := models.QuestionSingle
	q, err := s.InsertMessage(ctx, models.Message{
		AssignmentID: a.ID, CaseID: c.ID, Sender: models.SenderHelperAgent, Type: models.MessageQuestion,
		Text: "Can you reach the door?", QuestionType: &single,
		Options: []models.MessageOption{{ID: "yes", Label: "Yes"}, {ID: "no", Label: "No"}},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(q.Options) != 2 {
		t.Fatalf("expected options to round trip, got %+v", q.Options)
	}

	open, err := s.LatestOpenQuestion(ctx, a.ID, models.PartyHelper.Senders())
	if err != nil || open == nil || open.ID != q.ID {
		t.Fatalf("expected open question %s, got %+v err=%v", q.ID, open, err)
	}

	n, err := s.MarkMessagesRead(ctx, []string{q.ID})
	if err != nil || n != 1 {
		t.Fatalf("mark read: n=%d err=%v", n, err)
	}
	n, err = s.MarkMessagesRead(ctx, []string{q.ID})
	if err != nil || n != 0 {
		t.Fatalf("second mark read should be a no-op: n=%d err=%v", n, err)
	}
}
