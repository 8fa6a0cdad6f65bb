package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

const assignmentColumns = `id, case_id, helper_id, assigned_at, completed_at, outcome, notes`

func scanAssignment(row pgx.Row) (models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(&a.ID, &a.CaseID, &a.HelperID, &a.AssignedAt, &a.CompletedAt, &a.Outcome, &a.Notes)
	return a, err
}

func (s *Store) ClaimAssignment(ctx context.Context, caseID, helperID string, notes *string) (models.Assignment, error) {
	var out models.Assignment
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := lockCase(ctx, tx, caseID)
		if err != nil {
			return err
		}
		if !c.Status.Claimable() {
			return apperr.Conflict("case not claimable (status: %s)", c.Status)
		}

		var claimed bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM assignments WHERE case_id = $1 AND helper_id = $2 AND completed_at IS NULL)
		`, caseID, helperID).Scan(&claimed); err != nil {
			return err
		}
		if claimed {
			return apperr.Conflict("already claimed by this helper")
		}

		out, err = scanAssignment(tx.QueryRow(ctx, `
			INSERT INTO assignments (id, case_id, helper_id, notes)
			VALUES ($1,$2,$3,$4)
			RETURNING `+assignmentColumns,
			uuid.NewString(), caseID, helperID, notes))
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("already claimed by this helper")
			}
			return err
		}

		if c.Status == models.StatusOpen {
			_, err = transition(ctx, tx, c, models.StatusAssigned, "claimed by helper", store.HelperActor(helperID))
		}
		return err
	})
	return out, err
}

func (s *Store) CompleteAssignment(ctx context.Context, id, outcome string, notes *string) (models.Assignment, bool, error) {
	var (
		out      models.Assignment
		resolved bool
	)
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var caseID string
		if err := tx.QueryRow(ctx, `SELECT case_id FROM assignments WHERE id = $1`, id).Scan(&caseID); err != nil {
			return notFound(err, "assignment %s not found", id)
		}
		// lock order is case then assignment, same as claim
		c, err := lockCase(ctx, tx, caseID)
		if err != nil {
			return err
		}
		a, err := scanAssignment(tx.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(err, "assignment %s not found", id)
		}
		if !a.Open() {
			return apperr.Conflict("assignment already completed")
		}

		out, err = scanAssignment(tx.QueryRow(ctx, `
			UPDATE assignments SET completed_at = NOW(), outcome = $1, notes = COALESCE($2, notes)
			WHERE id = $3
			RETURNING `+assignmentColumns,
			outcome, notes, id))
		if err != nil {
			return err
		}

		var remaining int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM assignments WHERE case_id = $1 AND completed_at IS NULL`, caseID).Scan(&remaining); err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		actor := store.HelperActor(a.HelperID)
		switch c.Status {
		case models.StatusAssigned:
			if c, err = transition(ctx, tx, c, models.StatusInProgress, "all assignments completed", actor); err != nil {
				return err
			}
			fallthrough
		case models.StatusInProgress:
			if _, err := transition(ctx, tx, c, models.StatusResolved, "all assignments completed", actor); err != nil {
				return err
			}
			resolved = true
		}
		return nil
	})
	if err != nil {
		return models.Assignment{}, false, err
	}
	return out, resolved, nil
}

func (s *Store) StartAssignment(ctx context.Context, id string) (models.Assignment, models.Case, error) {
	var (
		a models.Assignment
		c models.Case
	)
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var caseID string
		if err := tx.QueryRow(ctx, `SELECT case_id FROM assignments WHERE id = $1`, id).Scan(&caseID); err != nil {
			return notFound(err, "assignment %s not found", id)
		}
		var err error
		c, err = lockCase(ctx, tx, caseID)
		if err != nil {
			return err
		}
		a, err = scanAssignment(tx.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(err, "assignment %s not found", id)
		}
		if !a.Open() {
			return apperr.Conflict("assignment already completed")
		}
		if c.Status == models.StatusInProgress {
			return nil
		}
		if !models.CanTransition(c.Status, models.StatusInProgress) {
			return apperr.Conflict("cannot transition case from %s to %s", c.Status, models.StatusInProgress)
		}
		c, err = transition(ctx, tx, c, models.StatusInProgress, "helper on scene", store.HelperActor(a.HelperID))
		return err
	})
	if err != nil {
		return models.Assignment{}, models.Case{}, err
	}
	return a, c, nil
}

func (s *Store) GetAssignment(ctx context.Context, id string) (models.Assignment, error) {
	a, err := scanAssignment(s.Pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if err != nil {
		return models.Assignment{}, notFound(err, "assignment %s not found", id)
	}
	return a, nil
}

func (s *Store) ListAssignmentsByCase(ctx context.Context, caseID string) ([]models.Assignment, error) {
	return s.listAssignments(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE case_id = $1 ORDER BY assigned_at DESC, id DESC`, caseID)
}

func (s *Store) ListAssignmentsByHelper(ctx context.Context, helperID string, includeCompleted bool) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE helper_id = $1`
	if !includeCompleted {
		query += ` AND completed_at IS NULL`
	}
	return s.listAssignments(ctx, query+` ORDER BY assigned_at DESC, id DESC`, helperID)
}

func (s *Store) listAssignments(ctx context.Context, query string, args ...any) ([]models.Assignment, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
