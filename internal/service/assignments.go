package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/metrics"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/pipeline"
	"github.com/beacon/backend/internal/store"
)

type AssignmentService struct {
	Store    store.Store
	Pipeline Enqueuer
	Metrics  *metrics.Collector
	Logger   zerolog.Logger
}

// Claim records helperID as responding to caseID and schedules the helper
// guide once the claim has committed.
func (s *AssignmentService) Claim(ctx context.Context, caseID, helperID string, notes *string) (models.Assignment, error) {
	helperID = strings.TrimSpace(helperID)
	if helperID == "" {
		return models.Assignment{}, apperr.Validation("helper_id is required")
	}
	a, err := s.Store.ClaimAssignment(ctx, caseID, helperID, trimmed(notes))
	if err != nil {
		return models.Assignment{}, err
	}
	s.Logger.Info().Str("case_id", caseID).Str("assignment_id", a.ID).Str("helper_id", helperID).Msg("case claimed")

	if err := s.Pipeline.Enqueue(pipeline.Task{Kind: pipeline.KindAssignment, ID: a.ID}); err != nil {
		s.Logger.Warn().Err(err).Str("assignment_id", a.ID).Msg("assignment pipeline not scheduled")
	}
	return a, nil
}

// Complete closes the assignment. resolved reports whether this completion
// was the last open one and resolved the case.
func (s *AssignmentService) Complete(ctx context.Context, id, outcome string, notes *string) (models.Assignment, bool, error) {
	outcome = strings.TrimSpace(outcome)
	if outcome == "" {
		return models.Assignment{}, false, apperr.Validation("outcome is required")
	}
	a, resolved, err := s.Store.CompleteAssignment(ctx, id, outcome, trimmed(notes))
	if err != nil {
		return models.Assignment{}, false, err
	}
	if resolved {
		s.Metrics.CaseTransition(string(models.StatusResolved))
		s.Logger.Info().Str("case_id", a.CaseID).Msg("case resolved")
	}
	return a, resolved, nil
}

// Start marks the helper as on scene, moving an assigned case to in_progress.
func (s *AssignmentService) Start(ctx context.Context, id string) (models.Assignment, models.Case, error) {
	a, c, err := s.Store.StartAssignment(ctx, id)
	if err != nil {
		return models.Assignment{}, models.Case{}, err
	}
	s.Metrics.CaseTransition(string(c.Status))
	return a, c, nil
}

func (s *AssignmentService) Get(ctx context.Context, id string) (models.Assignment, error) {
	return s.Store.GetAssignment(ctx, id)
}

func (s *AssignmentService) ListByCase(ctx context.Context, caseID string) ([]models.Assignment, error) {
	if _, err := s.Store.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return s.Store.ListAssignmentsByCase(ctx, caseID)
}

func (s *AssignmentService) ListByHelper(ctx context.Context, helperID string, includeCompleted bool) ([]models.Assignment, error) {
	if strings.TrimSpace(helperID) == "" {
		return nil, apperr.Validation("helper_id is required")
	}
	return s.Store.ListAssignmentsByHelper(ctx, helperID, includeCompleted)
}

// Reprocess reruns the assignment pipeline, replacing the helper guide.
func (s *AssignmentService) Reprocess(ctx context.Context, id string) error {
	if _, err := s.Store.GetAssignment(ctx, id); err != nil {
		return err
	}
	return enqueue(s.Pipeline, pipeline.Task{Kind: pipeline.KindAssignment, ID: id})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
