package service

import (
	"context"
	"math"
	"strings"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

const DefaultLocationHistoryLimit = 50

type UserService struct {
	Store store.Store
}

type UpsertLocationInput struct {
	UserID           string
	Name             string
	ContactInfo      *string
	IsCaller         bool
	IsHelper         bool
	HelperSkills     []string
	HelperMaxRangeKm *float64
	Lat              float64
	Lon              float64
}

// UpsertLocation creates the user when UserID is empty or unknown and records
// a location sample either way.
func (s *UserService) UpsertLocation(ctx context.Context, in UpsertLocationInput) (models.User, bool, error) {
	if !geo.ValidCoordinates(in.Lat, in.Lon) {
		return models.User{}, false, apperr.Validation("coordinates out of range")
	}
	if r := in.HelperMaxRangeKm; r != nil && (math.IsNaN(*r) || *r <= 0) {
		return models.User{}, false, apperr.Validation("helper_max_range_km must be positive")
	}
	name := strings.TrimSpace(in.Name)
	if strings.TrimSpace(in.UserID) == "" && name == "" {
		name = "Anonymous"
	}

	skills := make([]string, 0, len(in.HelperSkills))
	for _, sk := range in.HelperSkills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}

	return s.Store.UpsertUserLocation(ctx, models.User{
		ID:               strings.TrimSpace(in.UserID),
		Name:             name,
		ContactInfo:      trimmed(in.ContactInfo),
		IsCaller:         in.IsCaller,
		IsHelper:         in.IsHelper,
		HelperSkills:     skills,
		HelperMaxRangeKm: in.HelperMaxRangeKm,
	}, in.Lat, in.Lon)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.Store.GetUser(ctx, id)
}

// LocationHistory returns samples newest first.
func (s *UserService) LocationHistory(ctx context.Context, userID string, limit int) ([]models.LocationSample, error) {
	if limit <= 0 {
		limit = DefaultLocationHistoryLimit
	}
	return s.Store.LocationHistory(ctx, userID, limit)
}
