package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/http/middleware"
	"github.com/beacon/backend/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Store       Pinger
	Cases       *service.CaseService
	Assignments *service.AssignmentService
	Guides      *service.GuideService
	Messages    *service.MessageService
	Proximity   *service.ProximityService
	Users       *service.UserService
	Validator   *validator.Validate
	Logger      zerolog.Logger
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bind decodes the JSON body into req and runs struct validation.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, string(apperr.KindValidation), "Validation failed", err.Error())
		return false
	}
	return true
}

// fail maps a service error onto the error envelope. Unclassified errors are
// logged and reported as a bare 500.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.Logger.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Str("path", c.FullPath()).Msg("request failed")
		_ = c.Error(err)
	}
	writeError(c, apperr.HTTPStatus(kind), string(kind), apperr.MessageOf(err), nil)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		writeError(c, http.StatusBadRequest, string(apperr.KindValidation), name+" is required", nil)
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, string(apperr.KindValidation), name+" must be a number", nil)
		return 0, false
	}
	return v, true
}

func queryFloatDefault(c *gin.Context, name string, def float64) (float64, bool) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return def, true
	}
	return queryFloat(c, name)
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(c, http.StatusBadRequest, string(apperr.KindValidation), name+" must be a non-negative integer", nil)
		return 0, false
	}
	return v, true
}

// queryList accepts both repeated parameters and comma separated values.
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
