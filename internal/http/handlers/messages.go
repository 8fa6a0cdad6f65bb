package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/service"
)

type SendMessageRequest struct {
	CaseID       string                 `json:"case_id"`
	Sender       string                 `json:"sender" validate:"required"`
	MessageType  string                 `json:"message_type" validate:"required"`
	MessageText  string                 `json:"message_text" validate:"required"`
	Options      []models.MessageOption `json:"options" validate:"omitempty,dive"`
	QuestionType *string                `json:"question_type"`
	InResponseTo *string                `json:"in_response_to"`
}

// @Summary Send a relay message
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse
// @Router /api/assignments/{id}/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !h.bind(c, &req) {
		return
	}
	in := service.SendMessageInput{
		AssignmentID: c.Param("id"),
		CaseID:       req.CaseID,
		Sender:       models.Sender(req.Sender),
		Type:         models.MessageType(req.MessageType),
		Text:         req.MessageText,
		Options:      req.Options,
		InResponseTo: req.InResponseTo,
	}
	if req.QuestionType != nil {
		qt := models.QuestionType(*req.QuestionType)
		in.QuestionType = &qt
	}
	m, err := h.Messages.Send(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary Conversation history
// @Tags messages
// @Produce json
// @Param id path string true "Assignment ID"
// @Param limit query int false "Maximum messages (default 100)"
// @Success 200 {object} map[string]any
// @Router /api/assignments/{id}/messages [get]
func (h *Handler) MessageHistory(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	items, err := h.Messages.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Unread messages for a party
// @Tags messages
// @Produce json
// @Param id path string true "Assignment ID"
// @Param role query string true "helper or victim"
// @Success 200 {object} map[string]any
// @Router /api/assignments/{id}/messages/unread [get]
func (h *Handler) UnreadMessages(c *gin.Context) {
	items, err := h.Messages.Unread(c.Request.Context(), c.Param("id"), c.Query("role"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// @Summary Latest unanswered question for a party
// @Tags messages
// @Produce json
// @Param id path string true "Assignment ID"
// @Param role query string true "helper or victim"
// @Success 200 {object} map[string]any
// @Router /api/assignments/{id}/messages/latest-question [get]
func (h *Handler) LatestQuestion(c *gin.Context) {
	m, err := h.Messages.LatestQuestion(c.Request.Context(), c.Param("id"), c.Query("role"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": m})
}

type MarkReadRequest struct {
	MessageIDs []string `json:"message_ids" validate:"required,min=1"`
}

// @Summary Mark messages read
// @Tags messages
// @Accept json
// @Produce json
// @Param body body MarkReadRequest true "Message IDs"
// @Success 200 {object} map[string]int
// @Router /api/messages/read [post]
func (h *Handler) MarkMessagesRead(c *gin.Context) {
	var req MarkReadRequest
	if !h.bind(c, &req) {
		return
	}
	n, err := h.Messages.MarkRead(c.Request.Context(), req.MessageIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
