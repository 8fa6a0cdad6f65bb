package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/beacon/backend/internal/ai"
	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/geocode"
	"github.com/beacon/backend/internal/metrics"
	"github.com/beacon/backend/internal/models"
)

// Store is the slice of persistence the pipeline reads and writes.
type Store interface {
	GetCase(ctx context.Context, id string) (models.Case, error)
	UpdateStructuredFields(ctx context.Context, id string, fields models.StructuredFields) error
	GetAssignment(ctx context.Context, id string) (models.Assignment, error)
	ListCases(ctx context.Context, statuses []models.CaseStatus, box *geo.Box) ([]models.Case, error)
	UpsertGuideUnlessClosed(ctx context.Context, caseID string, g models.Guide) (models.Guide, bool, error)
}

type Orchestrator struct {
	store     Store
	completer ai.Completer
	searcher  ai.Searcher
	geocoder  geocode.ReverseGeocoder
	logger    zerolog.Logger
	metrics   *metrics.Collector
	tracer    trace.Tracer
	timeout   time.Duration
}

type Options struct {
	// ProviderTimeout bounds each completion or search call.
	ProviderTimeout time.Duration
	Metrics         *metrics.Collector
	// Geocoder labels the case location in guide prompts. Optional.
	Geocoder geocode.ReverseGeocoder
}

func NewOrchestrator(store Store, completer ai.Completer, searcher ai.Searcher, logger zerolog.Logger, opts Options) *Orchestrator {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 30 * time.Second
	}
	return &Orchestrator{
		store:     store,
		completer: completer,
		searcher:  searcher,
		geocoder:  opts.Geocoder,
		logger:    logger.With().Str("component", "pipeline").Logger(),
		metrics:   opts.Metrics,
		tracer:    otel.Tracer("github.com/beacon/backend/internal/pipeline"),
		timeout:   opts.ProviderTimeout,
	}
}

// Run executes every stage of the task's pipeline in order. Provider failures
// degrade to fallbacks and never fail the run; only loading the subject or a
// store write can return an error.
func (o *Orchestrator) Run(ctx context.Context, task Task) error {
	ctx, span := o.tracer.Start(ctx, "pipeline."+string(task.Kind), trace.WithAttributes(
		attribute.String("pipeline.kind", string(task.Kind)),
		attribute.String("pipeline.subject_id", task.ID),
	))
	defer span.End()

	logger := o.logger.With().Str("pipeline", string(task.Kind)).Str("subject_id", task.ID).Logger()
	start := time.Now()

	state, err := o.load(ctx, task)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Msg("pipeline load failed")
		return err
	}

	for _, stage := range task.Kind.Stages() {
		if err := o.runStage(ctx, logger, stage, state); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error().Err(err).Str("stage", string(stage)).Msg("pipeline stage failed")
			return err
		}
	}

	logger.Info().Dur("took", time.Since(start)).Msg("pipeline finished")
	return nil
}

func (o *Orchestrator) load(ctx context.Context, task Task) (*RunState, error) {
	state := &RunState{Task: task}
	switch task.Kind {
	case KindCase:
		c, err := o.store.GetCase(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		state.Case = c
	case KindAssignment:
		a, err := o.store.GetAssignment(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		c, err := o.store.GetCase(ctx, a.CaseID)
		if err != nil {
			return nil, err
		}
		state.Assignment = &a
		state.Case = c
	default:
		return nil, fmt.Errorf("unknown pipeline kind %q", task.Kind)
	}
	return state, nil
}

func (o *Orchestrator) runStage(ctx context.Context, logger zerolog.Logger, stage StageKind, state *RunState) error {
	ctx, span := o.tracer.Start(ctx, "pipeline.stage."+string(stage))
	defer span.End()

	start := time.Now()
	outcome := outcomeOK
	var err error

	switch stage {
	case StageExtract:
		var out ExtractOutput
		out, err = o.extract(ctx, logger, state)
		if err == nil {
			state.Extract = &out
			if out.Applied {
				state.Case.StructuredFields = out.Fields
			} else {
				outcome = outcomeFallback
			}
		}
	case StageResearch:
		var out ResearchOutput
		out = o.research(ctx, logger, state)
		state.Research = &out
		if len(out.Results) == 0 {
			outcome = outcomeFallback
		}
	case StageSynthesize:
		var out SynthesizeOutput
		out = o.synthesize(ctx, logger, state)
		if strings.TrimSpace(out.Text) == "" {
			outcome = outcomeSkipped
			break
		}
		var written bool
		written, err = o.writeGuide(ctx, logger, state, out)
		if err == nil && !written {
			outcome = outcomeSkipped
		}
	default:
		err = fmt.Errorf("unknown stage %q", stage)
	}

	if err != nil {
		outcome = outcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("pipeline.stage.outcome", outcome))
	o.metrics.ObserveStage(string(state.Task.Kind), string(stage), outcome, time.Since(start))
	logger.Debug().Str("stage", string(stage)).Str("outcome", outcome).Dur("took", time.Since(start)).Msg("stage done")
	return err
}

func (o *Orchestrator) extract(ctx context.Context, logger zerolog.Logger, state *RunState) (ExtractOutput, error) {
	raw, err := o.complete(ctx, logger, ai.CompletionRequest{
		System:    extractSystemPrompt,
		Prompt:    extractPrompt(state.Case),
		MaxTokens: extractMaxTokens,
		JSON:      true,
	})
	if err != nil {
		return ExtractOutput{Fields: state.Case.StructuredFields}, nil
	}
	fields, err := parseExtraction(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("extraction unusable, keeping defaults")
		return ExtractOutput{Fields: state.Case.StructuredFields}, nil
	}
	if err := o.store.UpdateStructuredFields(ctx, state.Case.ID, fields); err != nil {
		return ExtractOutput{}, fmt.Errorf("write structured fields: %w", err)
	}
	return ExtractOutput{Fields: fields, Applied: true}, nil
}

func (o *Orchestrator) research(ctx context.Context, logger zerolog.Logger, state *RunState) ResearchOutput {
	out := ResearchOutput{Query: researchQuery(state.Task.Kind, state.Case)}

	// every lookup here is independent and degrades to empty on failure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Results = o.search(gctx, logger, out.Query)
		return nil
	})
	if o.geocoder != nil {
		g.Go(func() error {
			out.Place = o.place(gctx, logger, state.Case)
			return nil
		})
	}
	if state.Task.Kind == KindAssignment {
		g.Go(func() error {
			out.NearbyCases = o.nearbyOpenCases(gctx, logger, state.Case)
			return nil
		})
	}
	_ = g.Wait()

	out.Summary = summarize(state.Task.Kind, out.Results)
	return out
}

func (o *Orchestrator) place(ctx context.Context, logger zerolog.Logger, c models.Case) string {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	name, err := o.geocoder.Reverse(ctx, c.Lat, c.Lon)
	if err != nil {
		if !errors.Is(err, geocode.ErrNotFound) {
			_ = o.providerFailure(ctx, logger, "geocode", err)
		}
		return ""
	}
	return name
}

func (o *Orchestrator) nearbyOpenCases(ctx context.Context, logger zerolog.Logger, c models.Case) []string {
	box := geo.BoundingBox(c.Lat, c.Lon, nearbyRadiusKm)
	candidates, err := o.store.ListCases(ctx, []models.CaseStatus{models.StatusOpen}, &box)
	if err != nil {
		logger.Warn().Err(err).Msg("nearby cases lookup failed")
		return nil
	}
	var ids []string
	for _, m := range geo.RankCases(c.Lat, c.Lon, nearbyRadiusKm, []models.CaseStatus{models.StatusOpen}, candidates) {
		if m.Case.ID != c.ID {
			ids = append(ids, m.Case.ID)
		}
	}
	return ids
}

func (o *Orchestrator) synthesize(ctx context.Context, logger zerolog.Logger, state *RunState) SynthesizeOutput {
	text, err := o.complete(ctx, logger, ai.CompletionRequest{
		Prompt:    guidePrompt(state),
		MaxTokens: guideMaxTokens,
	})
	if err != nil {
		return SynthesizeOutput{}
	}
	return SynthesizeOutput{Text: strings.TrimSpace(text)}
}

// writeGuide upserts the guide unless the case was closed while the run was
// in flight.
func (o *Orchestrator) writeGuide(ctx context.Context, logger zerolog.Logger, state *RunState, out SynthesizeOutput) (bool, error) {
	g := models.Guide{Kind: models.GuideCaller, OwnerID: state.Case.ID, Text: out.Text}
	if state.Task.Kind == KindAssignment {
		g.Kind = models.GuideHelper
		g.OwnerID = state.Assignment.ID
	}
	if state.Research != nil {
		query, summary := state.Research.Query, state.Research.Summary
		g.ResearchQuery = &query
		g.ResearchSummary = &summary
	}
	_, written, err := o.store.UpsertGuideUnlessClosed(ctx, state.Case.ID, g)
	if err != nil {
		return false, fmt.Errorf("write guide: %w", err)
	}
	if !written {
		logger.Info().Str("case_id", state.Case.ID).Msg("case closed, discarding guide")
	}
	return written, nil
}

func (o *Orchestrator) complete(ctx context.Context, logger zerolog.Logger, req ai.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.completer.Complete(ctx, req)
	if err != nil {
		return "", o.providerFailure(ctx, logger, "completion", err)
	}
	return out, nil
}

func (o *Orchestrator) search(ctx context.Context, logger zerolog.Logger, query string) []ai.SearchResult {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	results, err := o.searcher.Search(ctx, query, researchResultHint)
	if err != nil {
		_ = o.providerFailure(ctx, logger, "search", err)
		return nil
	}
	return results
}

func (o *Orchestrator) providerFailure(ctx context.Context, logger zerolog.Logger, provider string, err error) error {
	classified := ai.Classify(provider, err)
	kind := apperr.KindOf(classified)
	trace.SpanFromContext(ctx).RecordError(classified)
	o.metrics.ProviderError(provider, string(kind))
	logger.Warn().Err(err).Str("provider", provider).Str("kind", string(kind)).Msg("provider call failed")
	return classified
}
