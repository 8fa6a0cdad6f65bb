package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beacon/backend/internal/service"
)

type LocationRequest struct {
	UserID           string   `json:"user_id"`
	Name             string   `json:"name"`
	ContactInfo      *string  `json:"contact_info"`
	IsCaller         bool     `json:"is_caller"`
	IsHelper         bool     `json:"is_helper"`
	HelperSkills     []string `json:"helper_skills"`
	HelperMaxRangeKm *float64 `json:"helper_max_range_km" validate:"omitempty,gt=0"`
	Lat              *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon              *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// @Summary Report a user location
// @Description Creates the user when user_id is empty or unknown and appends a location sample
// @Tags users
// @Accept json
// @Produce json
// @Param body body LocationRequest true "Location"
// @Success 200 {object} map[string]any
// @Router /api/users/location [post]
func (h *Handler) UpsertLocation(c *gin.Context) {
	var req LocationRequest
	if !h.bind(c, &req) {
		return
	}
	u, created, err := h.Users.UpsertLocation(c.Request.Context(), service.UpsertLocationInput{
		UserID:           req.UserID,
		Name:             req.Name,
		ContactInfo:      req.ContactInfo,
		IsCaller:         req.IsCaller,
		IsHelper:         req.IsHelper,
		HelperSkills:     req.HelperSkills,
		HelperMaxRangeKm: req.HelperMaxRangeKm,
		Lat:              *req.Lat,
		Lon:              *req.Lon,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "created": created})
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Location history
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Maximum samples (default 50)"
// @Success 200 {object} map[string]any
// @Router /api/users/{id}/locations [get]
func (h *Handler) LocationHistory(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	items, err := h.Users.LocationHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Helpers near a point
// @Tags users
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius_km query number false "Radius in km (default 10, max 500)"
// @Param skills query string false "Comma separated required skills"
// @Success 200 {object} map[string]any
// @Router /api/helpers/nearby [get]
func (h *Handler) NearbyHelpers(c *gin.Context) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(c, "lon")
	if !ok {
		return
	}
	radius, ok := queryFloatDefault(c, "radius_km", service.DefaultRadiusKm)
	if !ok {
		return
	}
	items, err := h.Proximity.NearbyHelpers(c.Request.Context(), lat, lon, radius, queryList(c, "skills"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "radius_km": radius})
}
