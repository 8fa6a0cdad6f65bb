package service

import (
	"context"
	"strings"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500
)

type MessageService struct {
	Store store.Store
}

type SendMessageInput struct {
	AssignmentID string
	CaseID       string
	Sender       models.Sender
	Type         models.MessageType
	Text         string
	Options      []models.MessageOption
	QuestionType *models.QuestionType
	InResponseTo *string
}

// Send validates and stores a relay message. The assignment must exist and
// belong to the named case.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (models.Message, error) {
	if !in.Sender.Valid() {
		return models.Message{}, apperr.Validation("invalid sender %q", in.Sender)
	}
	if !in.Type.Valid() {
		return models.Message{}, apperr.Validation("invalid message_type %q", in.Type)
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return models.Message{}, apperr.Validation("message_text is required")
	}
	if err := validateOptions(in); err != nil {
		return models.Message{}, err
	}

	a, err := s.Store.GetAssignment(ctx, in.AssignmentID)
	if err != nil {
		return models.Message{}, err
	}
	if in.CaseID != "" && in.CaseID != a.CaseID {
		return models.Message{}, apperr.Validation("assignment %s does not belong to case %s", a.ID, in.CaseID)
	}

	if in.InResponseTo != nil {
		parent, err := s.Store.GetMessage(ctx, *in.InResponseTo)
		if err != nil {
			return models.Message{}, err
		}
		if parent.AssignmentID != a.ID {
			return models.Message{}, apperr.Validation("in_response_to refers to another assignment")
		}
	}

	return s.Store.InsertMessage(ctx, models.Message{
		AssignmentID: a.ID,
		CaseID:       a.CaseID,
		Sender:       in.Sender,
		Type:         in.Type,
		Text:         text,
		Options:      in.Options,
		QuestionType: in.QuestionType,
		InResponseTo: in.InResponseTo,
	})
}

func validateOptions(in SendMessageInput) error {
	if in.QuestionType != nil && !in.QuestionType.Valid() {
		return apperr.Validation("invalid question_type %q", *in.QuestionType)
	}
	if len(in.Options) == 0 {
		return nil
	}
	if in.Type != models.MessageQuestion {
		return apperr.Validation("options are only allowed on questions")
	}
	seen := make(map[string]struct{}, len(in.Options))
	for _, o := range in.Options {
		if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.Label) == "" {
			return apperr.Validation("options need an id and a label")
		}
		if _, dup := seen[o.ID]; dup {
			return apperr.Validation("duplicate option id %q", o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}

// History returns the conversation oldest first.
func (s *MessageService) History(ctx context.Context, assignmentID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if _, err := s.Store.GetAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.Store.ListMessages(ctx, assignmentID, limit)
}

// Unread returns unread messages sent by the party opposite forRole.
func (s *MessageService) Unread(ctx context.Context, assignmentID, forRole string) ([]models.Message, error) {
	party, err := parseRole(forRole)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.GetAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.Store.UnreadMessages(ctx, assignmentID, party.Other().Senders())
}

// MarkRead is idempotent and returns how many messages were newly marked.
func (s *MessageService) MarkRead(ctx context.Context, ids []string) (int, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, apperr.Validation("message_ids is required")
	}
	return s.Store.MarkMessagesRead(ctx, clean)
}

// LatestQuestion returns the newest unanswered, unread question from the
// other party, or nil.
func (s *MessageService) LatestQuestion(ctx context.Context, assignmentID, forRole string) (*models.Message, error) {
	party, err := parseRole(forRole)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.GetAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.Store.LatestOpenQuestion(ctx, assignmentID, party.Other().Senders())
}

func parseRole(role string) (models.Party, error) {
	party, ok := models.ParseParty(role)
	if !ok {
		return "", apperr.Validation("invalid role %q", role)
	}
	return party, nil
}
