package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/beacon/backend/internal/models"
)

func (s *Store) UpsertGuide(ctx context.Context, g models.Guide) (models.Guide, error) {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO guides (kind, owner_id, guide_text, research_query, research_summary, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		ON CONFLICT (kind, owner_id) DO UPDATE SET
			guide_text = EXCLUDED.guide_text,
			research_query = EXCLUDED.research_query,
			research_summary = EXCLUDED.research_summary,
			created_at = EXCLUDED.created_at
		RETURNING created_at
	`, string(g.Kind), g.OwnerID, g.Text, g.ResearchQuery, g.ResearchSummary).Scan(&g.CreatedAt)
	return g, err
}

func (s *Store) UpsertGuideUnlessClosed(ctx context.Context, caseID string, g models.Guide) (models.Guide, bool, error) {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO guides (kind, owner_id, guide_text, research_query, research_summary, created_at)
		SELECT $1,$2,$3,$4,$5,NOW() FROM cases WHERE id = $6 AND status <> $7
		ON CONFLICT (kind, owner_id) DO UPDATE SET
			guide_text = EXCLUDED.guide_text,
			research_query = EXCLUDED.research_query,
			research_summary = EXCLUDED.research_summary,
			created_at = EXCLUDED.created_at
		RETURNING created_at
	`, string(g.Kind), g.OwnerID, g.Text, g.ResearchQuery, g.ResearchSummary, caseID, string(models.StatusClosed)).Scan(&g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Guide{}, false, nil
	}
	if err != nil {
		return models.Guide{}, false, err
	}
	return g, true, nil
}

func (s *Store) GetGuide(ctx context.Context, kind models.GuideKind, ownerID string) (models.Guide, bool, error) {
	g := models.Guide{Kind: kind, OwnerID: ownerID}
	err := s.Pool.QueryRow(ctx, `
		SELECT guide_text, research_query, research_summary, created_at
		FROM guides WHERE kind = $1 AND owner_id = $2
	`, string(kind), ownerID).Scan(&g.Text, &g.ResearchQuery, &g.ResearchSummary, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Guide{}, false, nil
	}
	if err != nil {
		return models.Guide{}, false, err
	}
	return g, true, nil
}
