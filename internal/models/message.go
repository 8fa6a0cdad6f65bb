package models

import (
	"strings"
	"time"
)

type Sender string

const (
	SenderHelperAgent Sender = "helper_agent"
	SenderHelperUser  Sender = "helper_user"
	SenderVictimAgent Sender = "victim_agent"
	SenderVictimUser  Sender = "victim_user"
)

// Party groups senders into the two sides of an assignment.
type Party string

const (
	PartyHelper Party = "helper"
	PartyVictim Party = "victim"
)

func (s Sender) Valid() bool {
	switch s {
	case SenderHelperAgent, SenderHelperUser, SenderVictimAgent, SenderVictimUser:
		return true
	}
	return false
}

func (s Sender) Party() Party {
	if s == SenderHelperAgent || s == SenderHelperUser {
		return PartyHelper
	}
	return PartyVictim
}

// Senders lists the sender values that belong to p.
func (p Party) Senders() []Sender {
	if p == PartyHelper {
		return []Sender{SenderHelperAgent, SenderHelperUser}
	}
	return []Sender{SenderVictimAgent, SenderVictimUser}
}

func (p Party) Other() Party {
	if p == PartyHelper {
		return PartyVictim
	}
	return PartyHelper
}

// ParseParty accepts a party name ("helper", "victim", "caller") or any sender value.
func ParseParty(value string) (Party, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "helper":
		return PartyHelper, true
	case "victim", "caller":
		return PartyVictim, true
	}
	if s := Sender(v); s.Valid() {
		return s.Party(), true
	}
	return "", false
}

type MessageType string

const (
	MessageQuestion     MessageType = "question"
	MessageAnswer       MessageType = "answer"
	MessageStatusUpdate MessageType = "status_update"
	MessageGuidance     MessageType = "guidance"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageQuestion, MessageAnswer, MessageStatusUpdate, MessageGuidance:
		return true
	}
	return false
}

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

func (q QuestionType) Valid() bool {
	return q == QuestionSingle || q == QuestionMultiple
}

type MessageOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Message struct {
	ID           string          `json:"id"`
	AssignmentID string          `json:"assignment_id"`
	CaseID       string          `json:"case_id"`
	Sender       Sender          `json:"sender"`
	Type         MessageType     `json:"message_type"`
	Text         string          `json:"message_text"`
	Options      []MessageOption `json:"options,omitempty"`
	QuestionType *QuestionType   `json:"question_type,omitempty"`
	InResponseTo *string         `json:"in_response_to,omitempty"`
	Read         bool            `json:"read"`
	ReadAt       *time.Time      `json:"read_at"`
	CreatedAt    time.Time       `json:"created_at"`
}
