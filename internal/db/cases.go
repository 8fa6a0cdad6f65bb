package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

const caseColumns = `id, reporter_id, lat, lon, raw_text, status, description, people_count, mobility_status,
	vulnerability_factors, urgency, danger_level, ai_reasoning, created_at, resolved_at`

func scanCase(row pgx.Row) (models.Case, error) {
	var (
		c        models.Case
		status   string
		mobility *string
		factors  []string
		urgency  string
		danger   string
	)
	if err := row.Scan(&c.ID, &c.ReporterID, &c.Lat, &c.Lon, &c.RawText, &status, &c.Description, &c.PeopleCount, &mobility,
		&factors, &urgency, &danger, &c.Reasoning, &c.CreatedAt, &c.ResolvedAt); err != nil {
		return models.Case{}, err
	}
	c.Status = models.CaseStatus(status)
	if mobility != nil {
		m := models.MobilityStatus(*mobility)
		c.MobilityStatus = &m
	}
	c.VulnerabilityFactors = make([]models.VulnerabilityFactor, 0, len(factors))
	for _, f := range factors {
		c.VulnerabilityFactors = append(c.VulnerabilityFactors, models.VulnerabilityFactor(f))
	}
	c.Urgency = models.Urgency(urgency)
	c.DangerLevel = models.DangerLevel(danger)
	return c, nil
}

func factorStrings(in []models.VulnerabilityFactor) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		out = append(out, string(f))
	}
	return out
}

func mobilityString(m *models.MobilityStatus) *string {
	if m == nil {
		return nil
	}
	v := string(*m)
	return &v
}

func (s *Store) CreateCase(ctx context.Context, c models.Case) (models.Case, error) {
	c.ID = uuid.NewString()
	c.Status = models.StatusOpen
	if c.Urgency == "" {
		c.Urgency = models.DefaultUrgency
	}
	if c.DangerLevel == "" {
		c.DangerLevel = models.DefaultDangerLevel
	}

	var created models.Case
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO cases (id, reporter_id, lat, lon, raw_text, status, description, people_count, mobility_status,
				vulnerability_factors, urgency, danger_level, ai_reasoning)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			RETURNING `+caseColumns,
			c.ID, c.ReporterID, c.Lat, c.Lon, c.RawText, string(c.Status), c.Description, c.PeopleCount, mobilityString(c.MobilityStatus),
			factorStrings(c.VulnerabilityFactors), string(c.Urgency), string(c.DangerLevel), c.Reasoning)
		var err error
		created, err = scanCase(row)
		if isForeignKeyViolation(err) {
			return apperr.NotFound("reporter %s not found", *c.ReporterID)
		}
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, created.ID, "", models.StatusOpen, "case created", store.ActorSystem)
	})
	return created, err
}

func (s *Store) GetCase(ctx context.Context, id string) (models.Case, error) {
	c, err := scanCase(s.Pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id))
	if err != nil {
		return models.Case{}, notFound(err, "case %s not found", id)
	}
	return c, nil
}

func (s *Store) UpdateStructuredFields(ctx context.Context, id string, f models.StructuredFields) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE cases SET description = $1, people_count = $2, mobility_status = $3, vulnerability_factors = $4,
			urgency = $5, danger_level = $6, ai_reasoning = $7
		WHERE id = $8
	`, f.Description, f.PeopleCount, mobilityString(f.MobilityStatus), factorStrings(f.VulnerabilityFactors),
		string(f.Urgency), string(f.DangerLevel), f.Reasoning, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("case %s not found", id)
	}
	return nil
}

func (s *Store) TransitionCase(ctx context.Context, id string, to models.CaseStatus, reason, actor string) (models.Case, error) {
	var out models.Case
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := lockCase(ctx, tx, id)
		if err != nil {
			return err
		}
		if !models.CanTransition(c.Status, to) {
			return apperr.Conflict("cannot transition case from %s to %s", c.Status, to)
		}
		out, err = transition(ctx, tx, c, to, reason, actor)
		return err
	})
	return out, err
}

func (s *Store) ListCases(ctx context.Context, statuses []models.CaseStatus, box *geo.Box) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, string(st))
	}
	args := []any{names}
	wheres := []string{"status = ANY($1)"}
	if box != nil {
		wheres = append(wheres, boxClause(box, &args, ""))
	}
	query += " WHERE " + strings.Join(wheres, " AND ") + " ORDER BY created_at ASC, id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CaseHistory(ctx context.Context, id string) ([]models.StatusAudit, error) {
	var exists bool
	if err := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("case %s not found", id)
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT id, case_id, from_status, to_status, reason, actor, created_at
		FROM case_status_audit WHERE case_id = $1 ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StatusAudit
	for rows.Next() {
		var (
			a        models.StatusAudit
			from, to string
		)
		if err := rows.Scan(&a.ID, &a.CaseID, &from, &to, &a.Reason, &a.Actor, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.FromStatus = models.CaseStatus(from)
		a.ToStatus = models.CaseStatus(to)
		out = append(out, a)
	}
	return out, rows.Err()
}

// lockCase reads the case row FOR UPDATE so that concurrent claims and
// completions on the same case serialize.
func lockCase(ctx context.Context, tx pgx.Tx, id string) (models.Case, error) {
	c, err := scanCase(tx.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return models.Case{}, notFound(err, "case %s not found", id)
	}
	return c, nil
}

// transition writes an already validated edge and its audit row.
func transition(ctx context.Context, tx pgx.Tx, c models.Case, to models.CaseStatus, reason, actor string) (models.Case, error) {
	resolvedAt := c.ResolvedAt
	if to == models.StatusResolved {
		now := time.Now().UTC()
		resolvedAt = &now
	}
	if _, err := tx.Exec(ctx, `UPDATE cases SET status = $1, resolved_at = $2 WHERE id = $3`, string(to), resolvedAt, c.ID); err != nil {
		return models.Case{}, err
	}
	if err := insertAudit(ctx, tx, c.ID, c.Status, to, reason, actor); err != nil {
		return models.Case{}, err
	}
	c.Status = to
	c.ResolvedAt = resolvedAt
	return c, nil
}

func insertAudit(ctx context.Context, q querier, caseID string, from, to models.CaseStatus, reason, actor string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO case_status_audit (id, case_id, from_status, to_status, reason, actor)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, uuid.NewString(), caseID, string(from), string(to), reason, actor)
	return err
}

// boxClause appends the box bounds to args and returns the matching predicate
// on the prefixed lat/lon columns, wrapping across the antimeridian when needed.
func boxClause(box *geo.Box, args *[]any, prefix string) string {
	n := len(*args)
	lat, lon := prefix+"lat", prefix+"lon"
	*args = append(*args, box.MinLat, box.MaxLat)
	latClause := fmt.Sprintf("%s BETWEEN $%d AND $%d", lat, n+1, n+2)

	switch {
	case box.MinLon < -180:
		*args = append(*args, box.MinLon+360, box.MaxLon)
		return fmt.Sprintf("%s AND (%s >= $%d OR %s <= $%d)", latClause, lon, n+3, lon, n+4)
	case box.MaxLon > 180:
		*args = append(*args, box.MinLon, box.MaxLon-360)
		return fmt.Sprintf("%s AND (%s >= $%d OR %s <= $%d)", latClause, lon, n+3, lon, n+4)
	default:
		*args = append(*args, box.MinLon, box.MaxLon)
		return fmt.Sprintf("%s AND %s BETWEEN $%d AND $%d", latClause, lon, n+3, n+4)
	}
}
