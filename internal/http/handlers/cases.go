package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/service"
)

type CreateCaseRequest struct {
	Lat        *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon        *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	RawText    string   `json:"raw_text" validate:"required"`
	ReporterID *string  `json:"reporter_id"`
}

// @Summary Report a case
// @Description Creates an open case and schedules extraction, research and the caller guide
// @Tags cases
// @Accept json
// @Produce json
// @Param body body CreateCaseRequest true "Case"
// @Success 201 {object} models.Case
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/cases [post]
func (h *Handler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if !h.bind(c, &req) {
		return
	}
	created, err := h.Cases.Create(c.Request.Context(), service.CreateCaseInput{
		Lat:        *req.Lat,
		Lon:        *req.Lon,
		RawText:    req.RawText,
		ReporterID: req.ReporterID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary Get a case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} models.Case
// @Failure 404 {object} ErrorResponse
// @Router /api/cases/{id} [get]
func (h *Handler) GetCase(c *gin.Context) {
	got, err := h.Cases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, got)
}

// @Summary Case status history
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} map[string]any
// @Router /api/cases/{id}/history [get]
func (h *Handler) CaseHistory(c *gin.Context) {
	items, err := h.Cases.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

// @Summary Change case status
// @Description Only lifecycle edges are accepted; anything else is a 409
// @Tags cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} models.Case
// @Failure 409 {object} ErrorResponse
// @Router /api/cases/{id}/status [post]
func (h *Handler) TransitionCase(c *gin.Context) {
	var req TransitionRequest
	if !h.bind(c, &req) {
		return
	}
	to, ok := models.ParseCaseStatus(req.Status)
	if !ok {
		h.fail(c, apperr.Validation("unknown status %q", req.Status))
		return
	}
	updated, err := h.Cases.Transition(c.Request.Context(), c.Param("id"), to, req.Reason, req.Actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Cases near a point
// @Tags cases
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius_km query number false "Radius in km (default 10, max 500)"
// @Param status query string false "Comma separated statuses (default open)"
// @Success 200 {object} map[string]any
// @Router /api/cases/nearby [get]
func (h *Handler) NearbyCases(c *gin.Context) {
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
	var statuses []models.CaseStatus
	for _, raw := range queryList(c, "status") {
		s, ok := models.ParseCaseStatus(raw)
		if !ok {
			h.fail(c, apperr.Validation("unknown status %q", raw))
			return
		}
		statuses = append(statuses, s)
	}

	items, err := h.Proximity.NearbyCases(c.Request.Context(), lat, lon, radius, statuses)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "radius_km": radius})
}

// @Summary Route estimate to a case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Param lat query number true "Helper latitude"
// @Param lon query number true "Helper longitude"
// @Success 200 {object} geo.Route
// @Router /api/cases/{id}/route [get]
func (h *Handler) CaseRoute(c *gin.Context) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(c, "lon")
	if !ok {
		return
	}
	route, err := h.Proximity.Route(c.Request.Context(), c.Param("id"), lat, lon)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// @Summary Caller guide
// @Description Poll until status is ready
// @Tags guides
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} service.GuideView
// @Router /api/cases/{id}/guide [get]
func (h *Handler) CaseGuide(c *gin.Context) {
	view, err := h.Guides.CaseGuide(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type SaveGuideRequest struct {
	GuideText       string  `json:"guide_text" validate:"required"`
	ResearchQuery   *string `json:"research_query"`
	ResearchSummary *string `json:"research_summary"`
}

func (r SaveGuideRequest) input() service.SaveGuideInput {
	return service.SaveGuideInput{Text: r.GuideText, ResearchQuery: r.ResearchQuery, ResearchSummary: r.ResearchSummary}
}

// @Summary Replace the caller guide
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param body body SaveGuideRequest true "Guide"
// @Success 200 {object} models.Guide
// @Router /api/admin/cases/{id}/guide [put]
func (h *Handler) SaveCaseGuide(c *gin.Context) {
	var req SaveGuideRequest
	if !h.bind(c, &req) {
		return
	}
	g, err := h.Guides.SaveCaseGuide(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Rerun the case pipeline
// @Tags admin
// @Produce json
// @Param id path string true "Case ID"
// @Success 202 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /api/admin/cases/{id}/reprocess [post]
func (h *Handler) ReprocessCase(c *gin.Context) {
	if err := h.Cases.Reprocess(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
