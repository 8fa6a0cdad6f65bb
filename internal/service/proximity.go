package service

import (
	"context"
	"math"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

const (
	DefaultRadiusKm = 10.0
	MaxRadiusKm     = 500.0
)

type ProximityService struct {
	Store store.Store
}

func validateQuery(lat, lon, radiusKm float64) error {
	if !geo.ValidCoordinates(lat, lon) {
		return apperr.Validation("coordinates out of range")
	}
	if math.IsNaN(radiusKm) || radiusKm <= 0 || radiusKm > MaxRadiusKm {
		return apperr.Validation("radius_km must be greater than 0 and at most %g", MaxRadiusKm)
	}
	return nil
}

// NearbyCases ranks cases in statuses (open when empty) within radiusKm.
func (s *ProximityService) NearbyCases(ctx context.Context, lat, lon, radiusKm float64, statuses []models.CaseStatus) ([]geo.CaseMatch, error) {
	if err := validateQuery(lat, lon, radiusKm); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		statuses = []models.CaseStatus{models.StatusOpen}
	}
	box := geo.BoundingBox(lat, lon, radiusKm)
	candidates, err := s.Store.ListCases(ctx, statuses, &box)
	if err != nil {
		return nil, err
	}
	return geo.RankCases(lat, lon, radiusKm, statuses, candidates), nil
}

func (s *ProximityService) NearbyHelpers(ctx context.Context, lat, lon, radiusKm float64, requiredSkills []string) ([]geo.HelperMatch, error) {
	if err := validateQuery(lat, lon, radiusKm); err != nil {
		return nil, err
	}
	box := geo.BoundingBox(lat, lon, radiusKm)
	candidates, err := s.Store.LatestHelperLocations(ctx, &box)
	if err != nil {
		return nil, err
	}
	return geo.RankHelpers(lat, lon, radiusKm, requiredSkills, candidates), nil
}

// Route estimates the direct trip from a helper position to a case.
func (s *ProximityService) Route(ctx context.Context, caseID string, fromLat, fromLon float64) (geo.Route, error) {
	if !geo.ValidCoordinates(fromLat, fromLon) {
		return geo.Route{}, apperr.Validation("coordinates out of range")
	}
	c, err := s.Store.GetCase(ctx, caseID)
	if err != nil {
		return geo.Route{}, err
	}
	return geo.EstimateRoute(fromLat, fromLon, c.Lat, c.Lon), nil
}
