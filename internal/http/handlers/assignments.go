package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beacon/backend/internal/apperr"
)

type ClaimRequest struct {
	CaseID   string  `json:"case_id" validate:"required"`
	HelperID string  `json:"helper_id" validate:"required"`
	Notes    *string `json:"notes"`
}

// @Summary Claim a case
// @Description Fails with 409 when the case is not claimable or the helper already holds an open claim
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body ClaimRequest true "Claim"
// @Success 201 {object} models.Assignment
// @Failure 409 {object} ErrorResponse
// @Router /api/assignments [post]
func (h *Handler) ClaimCase(c *gin.Context) {
	var req ClaimRequest
	if !h.bind(c, &req) {
		return
	}
	a, err := h.Assignments.Claim(c.Request.Context(), req.CaseID, req.HelperID, req.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary Get an assignment
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} models.Assignment
// @Router /api/assignments/{id} [get]
func (h *Handler) GetAssignment(c *gin.Context) {
	a, err := h.Assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary Assignments of a helper
// @Tags assignments
// @Produce json
// @Param helper_id query string true "Helper ID"
// @Param include_completed query bool false "Include completed assignments"
// @Success 200 {object} map[string]any
// @Router /api/assignments [get]
func (h *Handler) ListHelperAssignments(c *gin.Context) {
	include := false
	if raw := c.Query("include_completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(c, apperr.Validation("include_completed must be a boolean"))
			return
		}
		include = v
	}
	items, err := h.Assignments.ListByHelper(c.Request.Context(), c.Query("helper_id"), include)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Assignments of a case
// @Tags assignments
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} map[string]any
// @Router /api/cases/{id}/assignments [get]
func (h *Handler) ListCaseAssignments(c *gin.Context) {
	items, err := h.Assignments.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Helper arrived on scene
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} map[string]any
// @Failure 409 {object} ErrorResponse
// @Router /api/assignments/{id}/start [post]
func (h *Handler) StartAssignment(c *gin.Context) {
	a, updated, err := h.Assignments.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": a, "case": updated})
}

type CompleteRequest struct {
	Outcome string  `json:"outcome" validate:"required"`
	Notes   *string `json:"notes"`
}

// @Summary Complete an assignment
// @Description Resolves the case when this was its last open assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body CompleteRequest true "Outcome"
// @Success 200 {object} map[string]any
// @Failure 409 {object} ErrorResponse
// @Router /api/assignments/{id}/complete [post]
func (h *Handler) CompleteAssignment(c *gin.Context) {
	var req CompleteRequest
	if !h.bind(c, &req) {
		return
	}
	a, resolved, err := h.Assignments.Complete(c.Request.Context(), c.Param("id"), req.Outcome, req.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": a, "case_resolved": resolved})
}

// @Summary Helper guide
// @Description Poll until status is ready
// @Tags guides
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} service.GuideView
// @Router /api/assignments/{id}/guide [get]
func (h *Handler) AssignmentGuide(c *gin.Context) {
	view, err := h.Guides.AssignmentGuide(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Replace the helper guide
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body SaveGuideRequest true "Guide"
// @Success 200 {object} models.Guide
// @Router /api/admin/assignments/{id}/guide [put]
func (h *Handler) SaveAssignmentGuide(c *gin.Context) {
	var req SaveGuideRequest
	if !h.bind(c, &req) {
		return
	}
	g, err := h.Guides.SaveAssignmentGuide(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Rerun the assignment pipeline
// @Tags admin
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 202 {object} map[string]string
// @Router /api/admin/assignments/{id}/reprocess [post]
func (h *Handler) ReprocessAssignment(c *gin.Context) {
	if err := h.Assignments.Reprocess(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
