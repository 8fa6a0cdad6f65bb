// Package store declares the persistence contract. Every multi-row invariant
// (status edges, claim uniqueness, last-completion resolves the case) is the
// implementation's job and must hold under concurrent callers.
package store

import (
	"context"

	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
)

const (
	ActorSystem   = "system"
	ActorPipeline = "pipeline"
)

// HelperActor names a helper in the status audit log.
func HelperActor(helperID string) string {
	return "helper:" + helperID
}

type Cases interface {
	// CreateCase persists c (ID and CreatedAt are assigned) and writes the
	// initial audit row.
	CreateCase(ctx context.Context, c models.Case) (models.Case, error)
	GetCase(ctx context.Context, id string) (models.Case, error)
	UpdateStructuredFields(ctx context.Context, id string, fields models.StructuredFields) error
	TransitionCase(ctx context.Context, id string, to models.CaseStatus, reason, actor string) (models.Case, error)
	// ListCases returns cases in any of statuses; box, when set, is a coarse
	// location filter.
	ListCases(ctx context.Context, statuses []models.CaseStatus, box *geo.Box) ([]models.Case, error)
	CaseHistory(ctx context.Context, id string) ([]models.StatusAudit, error)
}

type Assignments interface {
	// ClaimAssignment inserts an assignment and moves an open case to assigned
	// in one transaction. It fails with a Conflict when the case is not
	// claimable or the helper already holds an open claim on it.
	ClaimAssignment(ctx context.Context, caseID, helperID string, notes *string) (models.Assignment, error)
	// CompleteAssignment closes the assignment and, when it was the last open
	// one, resolves the case. resolved reports whether this call did so.
	CompleteAssignment(ctx context.Context, id, outcome string, notes *string) (a models.Assignment, resolved bool, err error)
	// StartAssignment moves the parent case from assigned to in_progress.
	StartAssignment(ctx context.Context, id string) (models.Assignment, models.Case, error)
	GetAssignment(ctx context.Context, id string) (models.Assignment, error)
	ListAssignmentsByCase(ctx context.Context, caseID string) ([]models.Assignment, error)
	ListAssignmentsByHelper(ctx context.Context, helperID string, includeCompleted bool) ([]models.Assignment, error)
}

type Guides interface {
	UpsertGuide(ctx context.Context, g models.Guide) (models.Guide, error)
	// UpsertGuideUnlessClosed writes g only while caseID is not closed. The
	// status check and the write are one atomic step; written=false means
	// the guide was discarded.
	UpsertGuideUnlessClosed(ctx context.Context, caseID string, g models.Guide) (out models.Guide, written bool, err error)
	// GetGuide reports ok=false when no guide has been written for the owner.
	GetGuide(ctx context.Context, kind models.GuideKind, ownerID string) (g models.Guide, ok bool, err error)
}

type Messages interface {
	InsertMessage(ctx context.Context, m models.Message) (models.Message, error)
	GetMessage(ctx context.Context, id string) (models.Message, error)
	ListMessages(ctx context.Context, assignmentID string, limit int) ([]models.Message, error)
	UnreadMessages(ctx context.Context, assignmentID string, from []models.Sender) ([]models.Message, error)
	// MarkMessagesRead returns how many messages moved from unread to read.
	MarkMessagesRead(ctx context.Context, ids []string) (int, error)
	LatestOpenQuestion(ctx context.Context, assignmentID string, from []models.Sender) (*models.Message, error)
}

type Users interface {
	// UpsertUserLocation creates the user when u.ID is empty or unknown,
	// otherwise updates it, and appends a location sample.
	UpsertUserLocation(ctx context.Context, u models.User, lat, lon float64) (user models.User, created bool, err error)
	GetUser(ctx context.Context, id string) (models.User, error)
	LocationHistory(ctx context.Context, userID string, limit int) ([]models.LocationSample, error)
	LatestHelperLocations(ctx context.Context, box *geo.Box) ([]geo.HelperLocation, error)
}

type Store interface {
	Cases
	Assignments
	Guides
	Messages
	Users
	Ping(ctx context.Context) error
}
