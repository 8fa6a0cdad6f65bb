package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon/backend/internal/ai"
	"github.com/beacon/backend/internal/memstore"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

type completerFunc func(ctx context.Context, req ai.CompletionRequest) (string, error)

func (f completerFunc) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	return f(ctx, req)
}

type searcherFunc func(ctx context.Context, query string, max int) ([]ai.SearchResult, error)

func (f searcherFunc) Search(ctx context.Context, query string, max int) ([]ai.SearchResult, error) {
	return f(ctx, query, max)
}

func failingSearcher() ai.Searcher {
	return searcherFunc(func(context.Context, string, int) ([]ai.SearchResult, error) {
		return nil, errors.New("search down")
	})
}

func newCase(t *testing.T, s *memstore.Store, text string, lat, lon float64) models.Case {
	t.Helper()
	c, err := s.CreateCase(context.Background(), models.Case{
		RawText:          text,
		Lat:              lat,
		Lon:              lon,
		StructuredFields: models.DefaultStructuredFields(),
	})
	require.NoError(t, err)
	return c
}

func TestParseExtraction(t *testing.T) {
	f, err := parseExtraction("```json\n{\"description\":\" flooded basement \",\"people_count\":3,\"mobility_status\":\"Trapped\"," +
		"\"vulnerability_factors\":[\"elderly\"],\"urgency\":\"critical\",\"danger_level\":\"life_threatening\",\"reasoning\":\"\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "flooded basement", *f.Description)
	assert.Equal(t, 3, *f.PeopleCount)
	assert.Equal(t, models.MobilityStatus("trapped"), *f.MobilityStatus)
	assert.Equal(t, models.UrgencyCritical, f.Urgency)
	assert.Nil(t, f.Reasoning)

	for _, raw := range []string{
		"no json here",
		`{"urgency":"extreme"}`,
		`{"danger_level":"mild"}`,
		`{"vulnerability_factors":["tall"]}`,
		`{"people_count":-1}`,
		`{"urgency": }`,
	} {
		_, err := parseExtraction(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseExtractionDefaults(t *testing.T) {
	f, err := parseExtraction(`{}`)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUrgency, f.Urgency)
	assert.Equal(t, models.DefaultDangerLevel, f.DangerLevel)
	assert.Empty(t, f.VulnerabilityFactors)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, noCaseResearch, summarize(KindCase, nil))
	assert.Equal(t, noAssignmentResearch, summarize(KindAssignment, nil))

	results := []ai.SearchResult{
		{Title: "One", Snippet: strings.Repeat("a", 150)},
		{Snippet: "second"},
		{Title: "Three", Snippet: "third"},
		{Title: "Four", Snippet: "fourth"},
	}
	got := summarize(KindCase, results)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "- One: "+strings.Repeat("a", 100), lines[0])
	assert.Equal(t, "- N/A: second", lines[1])
	assert.LessOrEqual(t, len([]rune(got)), summaryMaxChars)
}

func TestCasePipelineWritesFieldsAndGuide(t *testing.T) {
	s := memstore.New()
	c := newCase(t, s, "My grandmother is trapped upstairs, water rising", 40.7, -74.0)

	o := NewOrchestrator(s, ai.MockCompleter{}, ai.MockSearcher{}, zerolog.Nop(), Options{})
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))

	got, err := s.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyCritical, got.Urgency)
	require.NotNil(t, got.MobilityStatus)
	assert.Equal(t, models.MobilityStatus("trapped"), *got.MobilityStatus)
	assert.Contains(t, got.VulnerabilityFactors, models.VulnerabilityFactor("elderly"))

	g, ok, err := s.GetGuide(context.Background(), models.GuideCaller, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, g.Text)
	require.NotNil(t, g.ResearchQuery)
	assert.Contains(t, *g.ResearchQuery, "trapped")
}

func TestCasePipelineFallsBackWhenProvidersFail(t *testing.T) {
	s := memstore.New()
	c := newCase(t, s, "help", 1, 1)

	completer := completerFunc(func(_ context.Context, req ai.CompletionRequest) (string, error) {
		if req.JSON {
			return `{"urgency":"extreme"}`, nil
		}
		assert.Contains(t, req.Prompt, noCaseResearch)
		return "- keep calm", nil
	})
	o := NewOrchestrator(s, completer, failingSearcher(), zerolog.Nop(), Options{})
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))

	got, err := s.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUrgency, got.Urgency)
	assert.Nil(t, got.Description)

	g, ok, err := s.GetGuide(context.Background(), models.GuideCaller, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "- keep calm", g.Text)
	assert.Equal(t, noCaseResearch, *g.ResearchSummary)
}

func TestPipelineSkipsGuideOnCompletionFailure(t *testing.T) {
	s := memstore.New()
	c := newCase(t, s, "help", 1, 1)

	completer := completerFunc(func(context.Context, ai.CompletionRequest) (string, error) {
		return "", errors.New("provider down")
	})
	o := NewOrchestrator(s, completer, ai.MockSearcher{}, zerolog.Nop(), Options{})
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))

	_, ok, err := s.GetGuide(context.Background(), models.GuideCaller, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPipelineProviderTimeout(t *testing.T) {
	s := memstore.New()
	c := newCase(t, s, "help", 1, 1)

	completer := completerFunc(func(ctx context.Context, req ai.CompletionRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	o := NewOrchestrator(s, completer, ai.MockSearcher{}, zerolog.Nop(), Options{ProviderTimeout: 20 * time.Millisecond})

	start := time.Now()
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPipelineDiscardsGuideForClosedCase(t *testing.T) {
	s := memstore.New()
	c := newCase(t, s, "help", 1, 1)

	completer := completerFunc(func(ctx context.Context, req ai.CompletionRequest) (string, error) {
		if req.JSON {
			return `{}`, nil
		}
		_, err := s.TransitionCase(ctx, c.ID, models.StatusClosed, "cancelled", store.ActorSystem)
		require.NoError(t, err)
		return "- stay put", nil
	})
	o := NewOrchestrator(s, completer, ai.MockSearcher{}, zerolog.Nop(), Options{})
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))

	_, ok, err := s.GetGuide(context.Background(), models.GuideCaller, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignmentPipelineMentionsNearbyCases(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	c := newCase(t, s, "Car stuck in flood", 40.7128, -74.0060)
	newCase(t, s, "Neighbour needs help", 40.72, -74.0)
	newCase(t, s, "Far away", 41.5, -74.0)

	a, err := s.ClaimAssignment(ctx, c.ID, "helper-1", nil)
	require.NoError(t, err)

	var prompt string
	completer := completerFunc(func(_ context.Context, req ai.CompletionRequest) (string, error) {
		assert.False(t, req.JSON)
		prompt = req.Prompt
		return "- approach carefully", nil
	})
	o := NewOrchestrator(s, completer, ai.MockSearcher{}, zerolog.Nop(), Options{})
	require.NoError(t, o.Run(ctx, Task{Kind: KindAssignment, ID: a.ID}))

	assert.Contains(t, prompt, "Other open cases within 10 km: 1")

	g, ok, err := s.GetGuide(ctx, models.GuideHelper, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "- approach carefully", g.Text)
}

type geocoderFunc func(ctx context.Context, lat, lon float64) (string, error)

func (f geocoderFunc) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	return f(ctx, lat, lon)
}

func TestGuidePromptIncludesPlace(t *testing.T) {
	s := memstore.New()
	c := newCase(t, s, "help", 40.7, -74.0)

	var prompt string
	completer := completerFunc(func(_ context.Context, req ai.CompletionRequest) (string, error) {
		if req.JSON {
			return `{}`, nil
		}
		prompt = req.Prompt
		return "- wait", nil
	})
	geocoder := geocoderFunc(func(_ context.Context, lat, lon float64) (string, error) {
		assert.Equal(t, 40.7, lat)
		return "Lower Manhattan", nil
	})
	o := NewOrchestrator(s, completer, ai.MockSearcher{}, zerolog.Nop(), Options{Geocoder: geocoder})
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))
	assert.Contains(t, prompt, "- Location: Lower Manhattan")

	failing := geocoderFunc(func(context.Context, float64, float64) (string, error) {
		return "", errors.New("geocoder down")
	})
	o = NewOrchestrator(s, completer, ai.MockSearcher{}, zerolog.Nop(), Options{Geocoder: failing})
	require.NoError(t, o.Run(context.Background(), Task{Kind: KindCase, ID: c.ID}))
	assert.NotContains(t, prompt, "- Location:")
}

func TestRunMissingSubject(t *testing.T) {
	o := NewOrchestrator(memstore.New(), ai.MockCompleter{}, ai.MockSearcher{}, zerolog.Nop(), Options{})
	err := o.Run(context.Background(), Task{Kind: KindAssignment, ID: "missing"})
	require.Error(t, err)
}

type runnerFunc func(ctx context.Context, task Task) error

func (f runnerFunc) Run(ctx context.Context, task Task) error {
	return f(ctx, task)
}

func TestQueueFullAndClosed(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue(1, 1, runnerFunc(func(ctx context.Context, task Task) error {
		started <- struct{}{}
		<-release
		return nil
	}), zerolog.Nop(), nil)

	require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: "a"}))
	<-started
	require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: "b"}))
	assert.ErrorIs(t, q.Enqueue(Task{Kind: KindCase, ID: "c"}), ErrQueueFull)
	assert.Equal(t, 1, q.Depth())

	close(release)
	require.NoError(t, q.Shutdown(context.Background()))
	assert.ErrorIs(t, q.Enqueue(Task{Kind: KindCase, ID: "d"}), ErrQueueClosed)
}

func TestQueueDrainsOnShutdown(t *testing.T) {
	var mu sync.Mutex
	var ran []string
	q := NewQueue(2, 16, runnerFunc(func(ctx context.Context, task Task) error {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		ran = append(ran, task.ID)
		mu.Unlock()
		return nil
	}), zerolog.Nop(), nil)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: id}))
	}
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Len(t, ran, 5)
}

func TestQueueShutdownDeadlineCancelsRuns(t *testing.T) {
	var cancelled atomic.Bool
	q := NewQueue(1, 4, runnerFunc(func(ctx context.Context, task Task) error {
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}), zerolog.Nop(), nil)
	require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: "slow"}))
	require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: "queued"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, cancelled.Load())
}

func TestQueueRecoversPanics(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue(1, 4, runnerFunc(func(ctx context.Context, task Task) error {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return nil
	}), zerolog.Nop(), nil)
	require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: "a"}))
	require.NoError(t, q.Enqueue(Task{Kind: KindCase, ID: "b"}))
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}
