// Package service holds the request-path operations behind the HTTP handlers.
// Services validate input, call the store and schedule pipeline runs; they
// never call providers directly.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/metrics"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/pipeline"
	"github.com/beacon/backend/internal/store"
)

// Enqueuer schedules background pipeline runs.
type Enqueuer interface {
	Enqueue(task pipeline.Task) error
}

type CaseService struct {
	Store    store.Store
	Pipeline Enqueuer
	Metrics  *metrics.Collector
	Logger   zerolog.Logger
}

type CreateCaseInput struct {
	Lat        float64
	Lon        float64
	RawText    string
	ReporterID *string
}

// Create stores a new open case with the default structured fields and
// schedules its pipeline. A full queue does not fail the request.
func (s *CaseService) Create(ctx context.Context, in CreateCaseInput) (models.Case, error) {
	if !geo.ValidCoordinates(in.Lat, in.Lon) {
		return models.Case{}, apperr.Validation("coordinates out of range")
	}
	text := strings.TrimSpace(in.RawText)
	if text == "" {
		return models.Case{}, apperr.Validation("raw_text is required")
	}
	if in.ReporterID != nil && strings.TrimSpace(*in.ReporterID) == "" {
		in.ReporterID = nil
	}

	c, err := s.Store.CreateCase(ctx, models.Case{
		ReporterID:       in.ReporterID,
		Lat:              in.Lat,
		Lon:              in.Lon,
		RawText:          text,
		StructuredFields: models.DefaultStructuredFields(),
	})
	if err != nil {
		return models.Case{}, err
	}
	s.Metrics.CaseTransition(string(models.StatusOpen))

	if err := s.Pipeline.Enqueue(pipeline.Task{Kind: pipeline.KindCase, ID: c.ID}); err != nil {
		s.Logger.Warn().Err(err).Str("case_id", c.ID).Msg("case pipeline not scheduled")
	}
	return c, nil
}

func (s *CaseService) Get(ctx context.Context, id string) (models.Case, error) {
	return s.Store.GetCase(ctx, id)
}

func (s *CaseService) Transition(ctx context.Context, id string, to models.CaseStatus, reason, actor string) (models.Case, error) {
	if strings.TrimSpace(actor) == "" {
		actor = store.ActorSystem
	}
	c, err := s.Store.TransitionCase(ctx, id, to, strings.TrimSpace(reason), actor)
	if err != nil {
		return models.Case{}, err
	}
	s.Metrics.CaseTransition(string(to))
	s.Logger.Info().Str("case_id", id).Str("status", string(to)).Str("actor", actor).Msg("case status changed")
	return c, nil
}

func (s *CaseService) History(ctx context.Context, id string) ([]models.StatusAudit, error) {
	return s.Store.CaseHistory(ctx, id)
}

// Reprocess reruns the case pipeline. Reruns overwrite structured fields and
// replace the caller guide.
func (s *CaseService) Reprocess(ctx context.Context, id string) error {
	if _, err := s.Store.GetCase(ctx, id); err != nil {
		return err
	}
	return enqueue(s.Pipeline, pipeline.Task{Kind: pipeline.KindCase, ID: id})
}

func enqueue(q Enqueuer, task pipeline.Task) error {
	err := q.Enqueue(task)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pipeline.ErrQueueFull), errors.Is(err, pipeline.ErrQueueClosed):
		return apperr.Busy("pipeline is not accepting work, retry later", err)
	default:
		return err
	}
}
