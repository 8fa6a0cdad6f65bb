package service

import (
	"context"
	"strings"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

type GuideStatus string

const (
	GuideProcessing GuideStatus = "processing"
	GuideReady      GuideStatus = "ready"
)

// GuideView is what pollers see: processing until the pipeline has written
// a guide for the owner.
type GuideView struct {
	Status GuideStatus   `json:"status"`
	Guide  *models.Guide `json:"guide,omitempty"`
}

type GuideService struct {
	Store store.Store
}

type SaveGuideInput struct {
	Text            string
	ResearchQuery   *string
	ResearchSummary *string
}

func (s *GuideService) SaveCaseGuide(ctx context.Context, caseID string, in SaveGuideInput) (models.Guide, error) {
	if _, err := s.Store.GetCase(ctx, caseID); err != nil {
		return models.Guide{}, err
	}
	return s.save(ctx, models.GuideCaller, caseID, in)
}

func (s *GuideService) SaveAssignmentGuide(ctx context.Context, assignmentID string, in SaveGuideInput) (models.Guide, error) {
	if _, err := s.Store.GetAssignment(ctx, assignmentID); err != nil {
		return models.Guide{}, err
	}
	return s.save(ctx, models.GuideHelper, assignmentID, in)
}

func (s *GuideService) save(ctx context.Context, kind models.GuideKind, ownerID string, in SaveGuideInput) (models.Guide, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return models.Guide{}, apperr.Validation("guide_text is required")
	}
	return s.Store.UpsertGuide(ctx, models.Guide{
		Kind:            kind,
		OwnerID:         ownerID,
		Text:            text,
		ResearchQuery:   in.ResearchQuery,
		ResearchSummary: in.ResearchSummary,
	})
}

func (s *GuideService) CaseGuide(ctx context.Context, caseID string) (GuideView, error) {
	if _, err := s.Store.GetCase(ctx, caseID); err != nil {
		return GuideView{}, err
	}
	return s.view(ctx, models.GuideCaller, caseID)
}

func (s *GuideService) AssignmentGuide(ctx context.Context, assignmentID string) (GuideView, error) {
	if _, err := s.Store.GetAssignment(ctx, assignmentID); err != nil {
		return GuideView{}, err
	}
	return s.view(ctx, models.GuideHelper, assignmentID)
}

func (s *GuideService) view(ctx context.Context, kind models.GuideKind, ownerID string) (GuideView, error) {
	g, ok, err := s.Store.GetGuide(ctx, kind, ownerID)
	if err != nil {
		return GuideView{}, err
	}
	if !ok {
		return GuideView{Status: GuideProcessing}, nil
	}
	return GuideView{Status: GuideReady, Guide: &g}, nil
}
