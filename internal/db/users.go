package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
)

const userColumns = `id, name, contact_info, is_caller, is_helper, helper_skills, helper_max_range_km, lat, lon, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.ContactInfo, &u.IsCaller, &u.IsHelper, &u.HelperSkills, &u.HelperMaxRangeKm, &u.Lat, &u.Lon, &u.CreatedAt, &u.UpdatedAt)
	if u.HelperSkills == nil {
		u.HelperSkills = []string{}
	}
	return u, err
}

func (s *Store) UpsertUserLocation(ctx context.Context, u models.User, lat, lon float64) (models.User, bool, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	skills := u.HelperSkills
	if skills == nil {
		skills = []string{}
	}

	var (
		out     models.User
		created bool
	)
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		// xmax is zero only for a freshly inserted row
		row := tx.QueryRow(ctx, `
			INSERT INTO users (id, name, contact_info, is_caller, is_helper, helper_skills, helper_max_range_km, lat, lon)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO UPDATE SET
				name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
				contact_info = COALESCE(EXCLUDED.contact_info, users.contact_info),
				is_caller = users.is_caller OR EXCLUDED.is_caller,
				is_helper = users.is_helper OR EXCLUDED.is_helper,
				helper_skills = CASE WHEN EXCLUDED.is_helper THEN EXCLUDED.helper_skills ELSE users.helper_skills END,
				helper_max_range_km = CASE WHEN EXCLUDED.is_helper THEN EXCLUDED.helper_max_range_km ELSE users.helper_max_range_km END,
				lat = EXCLUDED.lat,
				lon = EXCLUDED.lon,
				updated_at = NOW()
			RETURNING `+userColumns+`, (xmax = 0)
		`, u.ID, u.Name, u.ContactInfo, u.IsCaller, u.IsHelper, skills, u.HelperMaxRangeKm, lat, lon)

		err := row.Scan(&out.ID, &out.Name, &out.ContactInfo, &out.IsCaller, &out.IsHelper, &out.HelperSkills, &out.HelperMaxRangeKm,
			&out.Lat, &out.Lon, &out.CreatedAt, &out.UpdatedAt, &created)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO location_samples (id, user_id, lat, lon) VALUES ($1,$2,$3,$4)`, uuid.NewString(), out.ID, lat, lon)
		return err
	})
	if err != nil {
		return models.User{}, false, err
	}
	return out, created, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return models.User{}, notFound(err, "user %s not found", id)
	}
	return u, nil
}

func (s *Store) LocationHistory(ctx context.Context, userID string, limit int) ([]models.LocationSample, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, lat, lon, recorded_at FROM location_samples WHERE user_id = $1 ORDER BY recorded_at DESC, seq DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LocationSample
	for rows.Next() {
		var l models.LocationSample
		if err := rows.Scan(&l.ID, &l.UserID, &l.Lat, &l.Lon, &l.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) LatestHelperLocations(ctx context.Context, box *geo.Box) ([]geo.HelperLocation, error) {
	query := `
		SELECT u.id, u.name, u.contact_info, u.is_caller, u.is_helper, u.helper_skills, u.helper_max_range_km, u.lat, u.lon,
			u.created_at, u.updated_at, l.id, l.lat, l.lon, l.recorded_at
		FROM users u
		JOIN LATERAL (
			SELECT id, lat, lon, recorded_at FROM location_samples
			WHERE user_id = u.id ORDER BY recorded_at DESC, seq DESC LIMIT 1
		) l ON TRUE
		WHERE u.is_helper = TRUE`
	var args []any
	if box != nil {
		query += " AND " + boxClause(box, &args, "l.")
	}
	query += " ORDER BY u.created_at ASC, u.id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []geo.HelperLocation
	for rows.Next() {
		var h geo.HelperLocation
		if err := rows.Scan(&h.User.ID, &h.User.Name, &h.User.ContactInfo, &h.User.IsCaller, &h.User.IsHelper, &h.User.HelperSkills,
			&h.User.HelperMaxRangeKm, &h.User.Lat, &h.User.Lon, &h.User.CreatedAt, &h.User.UpdatedAt,
			&h.Latest.ID, &h.Latest.Lat, &h.Latest.Lon, &h.Latest.RecordedAt); err != nil {
			return nil, err
		}
		h.Latest.UserID = h.User.ID
		out = append(out, h)
	}
	return out, rows.Err()
}
