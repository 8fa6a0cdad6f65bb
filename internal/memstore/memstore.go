// Package memstore is a process-local store.Store. A single mutex makes every
// operation atomic, which gives the same guarantees the postgres store gets
// from row locks. It backs local runs without DATABASE_URL and the tests.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beacon/backend/internal/apperr"
	"github.com/beacon/backend/internal/geo"
	"github.com/beacon/backend/internal/models"
	"github.com/beacon/backend/internal/store"
)

type Store struct {
	mu sync.Mutex

	users       map[string]models.User
	userOrder   []string
	samples     []models.LocationSample
	cases       map[string]models.Case
	caseOrder   []string
	assignments map[string]models.Assignment
	asgOrder    []string
	guides      map[string]models.Guide
	messages    []models.Message
	audits      []models.StatusAudit

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       map[string]models.User{},
		cases:       map[string]models.Case{},
		assignments: map[string]models.Assignment{},
		guides:      map[string]models.Guide{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) CreateCase(ctx context.Context, c models.Case) (models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ReporterID != nil {
		if _, ok := s.users[*c.ReporterID]; !ok {
			return models.Case{}, apperr.NotFound("reporter %s not found", *c.ReporterID)
		}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	c.Status = models.StatusOpen
	c.VulnerabilityFactors = cloneFactors(c.VulnerabilityFactors)
	s.cases[c.ID] = c
	s.caseOrder = append(s.caseOrder, c.ID)
	s.audit(c.ID, "", models.StatusOpen, "case created", store.ActorSystem)
	return cloneCase(c), nil
}

func (s *Store) GetCase(ctx context.Context, id string) (models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[id]
	if !ok {
		return models.Case{}, apperr.NotFound("case %s not found", id)
	}
	return cloneCase(c), nil
}

func (s *Store) UpdateStructuredFields(ctx context.Context, id string, fields models.StructuredFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[id]
	if !ok {
		return apperr.NotFound("case %s not found", id)
	}
	fields.VulnerabilityFactors = cloneFactors(fields.VulnerabilityFactors)
	c.StructuredFields = fields
	s.cases[id] = c
	return nil
}

func (s *Store) TransitionCase(ctx context.Context, id string, to models.CaseStatus, reason, actor string) (models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[id]
	if !ok {
		return models.Case{}, apperr.NotFound("case %s not found", id)
	}
	if !models.CanTransition(c.Status, to) {
		return models.Case{}, apperr.Conflict("cannot transition case from %s to %s", c.Status, to)
	}
	c = s.transition(c, to, reason, actor)
	return cloneCase(c), nil
}

func (s *Store) ListCases(ctx context.Context, statuses []models.CaseStatus, box *geo.Box) ([]models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Case
	for _, id := range s.caseOrder {
		c := s.cases[id]
		if !slices.Contains(statuses, c.Status) {
			continue
		}
		if box != nil && !box.Contains(c.Lat, c.Lon) {
			continue
		}
		out = append(out, cloneCase(c))
	}
	return out, nil
}

func (s *Store) CaseHistory(ctx context.Context, id string) ([]models.StatusAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[id]; !ok {
		return nil, apperr.NotFound("case %s not found", id)
	}
	var out []models.StatusAudit
	for _, a := range s.audits {
		if a.CaseID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ClaimAssignment(ctx context.Context, caseID, helperID string, notes *string) (models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return models.Assignment{}, apperr.NotFound("case %s not found", caseID)
	}
	if !c.Status.Claimable() {
		return models.Assignment{}, apperr.Conflict("case not claimable (status: %s)", c.Status)
	}
	for _, id := range s.asgOrder {
		a := s.assignments[id]
		if a.CaseID == caseID && a.HelperID == helperID && a.Open() {
			return models.Assignment{}, apperr.Conflict("already claimed by this helper")
		}
	}

	a := models.Assignment{
		ID:         uuid.NewString(),
		CaseID:     caseID,
		HelperID:   helperID,
		AssignedAt: s.now(),
		Notes:      notes,
	}
	s.assignments[a.ID] = a
	s.asgOrder = append(s.asgOrder, a.ID)
	if c.Status == models.StatusOpen {
		s.transition(c, models.StatusAssigned, "claimed by helper", store.HelperActor(helperID))
	}
	return a, nil
}

func (s *Store) CompleteAssignment(ctx context.Context, id, outcome string, notes *string) (models.Assignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return models.Assignment{}, false, apperr.NotFound("assignment %s not found", id)
	}
	if !a.Open() {
		return models.Assignment{}, false, apperr.Conflict("assignment already completed")
	}
	now := s.now()
	a.CompletedAt = &now
	a.Outcome = &outcome
	if notes != nil {
		a.Notes = notes
	}
	s.assignments[id] = a

	for _, other := range s.assignments {
		if other.CaseID == a.CaseID && other.Open() {
			return a, false, nil
		}
	}

	c := s.cases[a.CaseID]
	actor := store.HelperActor(a.HelperID)
	switch c.Status {
	case models.StatusAssigned:
		c = s.transition(c, models.StatusInProgress, "all assignments completed", actor)
		s.transition(c, models.StatusResolved, "all assignments completed", actor)
	case models.StatusInProgress:
		s.transition(c, models.StatusResolved, "all assignments completed", actor)
	default:
		return a, false, nil
	}
	return a, true, nil
}

func (s *Store) StartAssignment(ctx context.Context, id string) (models.Assignment, models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return models.Assignment{}, models.Case{}, apperr.NotFound("assignment %s not found", id)
	}
	if !a.Open() {
		return models.Assignment{}, models.Case{}, apperr.Conflict("assignment already completed")
	}
	c := s.cases[a.CaseID]
	if c.Status == models.StatusInProgress {
		return a, cloneCase(c), nil
	}
	if !models.CanTransition(c.Status, models.StatusInProgress) {
		return models.Assignment{}, models.Case{}, apperr.Conflict("cannot transition case from %s to %s", c.Status, models.StatusInProgress)
	}
	c = s.transition(c, models.StatusInProgress, "helper on scene", store.HelperActor(a.HelperID))
	return a, cloneCase(c), nil
}

func (s *Store) GetAssignment(ctx context.Context, id string) (models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return models.Assignment{}, apperr.NotFound("assignment %s not found", id)
	}
	return a, nil
}

func (s *Store) ListAssignmentsByCase(ctx context.Context, caseID string) ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Assignment
	for i := len(s.asgOrder) - 1; i >= 0; i-- {
		if a := s.assignments[s.asgOrder[i]]; a.CaseID == caseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListAssignmentsByHelper(ctx context.Context, helperID string, includeCompleted bool) ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Assignment
	for i := len(s.asgOrder) - 1; i >= 0; i-- {
		a := s.assignments[s.asgOrder[i]]
		if a.HelperID != helperID || (!includeCompleted && !a.Open()) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) UpsertGuide(ctx context.Context, g models.Guide) (models.Guide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.CreatedAt = s.now()
	s.guides[guideKey(g.Kind, g.OwnerID)] = g
	return g, nil
}

func (s *Store) UpsertGuideUnlessClosed(ctx context.Context, caseID string, g models.Guide) (models.Guide, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok || c.Status == models.StatusClosed {
		return models.Guide{}, false, nil
	}
	g.CreatedAt = s.now()
	s.guides[guideKey(g.Kind, g.OwnerID)] = g
	return g, true, nil
}

func (s *Store) GetGuide(ctx context.Context, kind models.GuideKind, ownerID string) (models.Guide, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guides[guideKey(kind, ownerID)]
	return g, ok, nil
}

func (s *Store) InsertMessage(ctx context.Context, m models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = uuid.NewString()
	m.CreatedAt = s.now()
	m.Read = false
	m.ReadAt = nil
	m.Options = slices.Clone(m.Options)
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *Store) GetMessage(ctx context.Context, id string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if m.ID == id {
			return cloneMessage(m), nil
		}
	}
	return models.Message{}, apperr.NotFound("message %s not found", id)
}

func (s *Store) ListMessages(ctx context.Context, assignmentID string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Message
	for _, m := range s.messages {
		if m.AssignmentID != assignmentID {
			continue
		}
		out = append(out, cloneMessage(m))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) UnreadMessages(ctx context.Context, assignmentID string, from []models.Sender) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Message
	for _, m := range s.messages {
		if m.AssignmentID == assignmentID && !m.Read && slices.Contains(from, m.Sender) {
			out = append(out, cloneMessage(m))
		}
	}
	return out, nil
}

func (s *Store) MarkMessagesRead(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	marked := 0
	for i := range s.messages {
		if s.messages[i].Read || !slices.Contains(ids, s.messages[i].ID) {
			continue
		}
		s.messages[i].Read = true
		s.messages[i].ReadAt = &now
		marked++
	}
	return marked, nil
}

func (s *Store) LatestOpenQuestion(ctx context.Context, assignmentID string, from []models.Sender) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := map[string]struct{}{}
	for _, m := range s.messages {
		if m.AssignmentID == assignmentID && m.InResponseTo != nil {
			answered[*m.InResponseTo] = struct{}{}
		}
	}
	for i := len(s.messages) - 1; i >= 0; i-- {
		m := s.messages[i]
		if m.AssignmentID != assignmentID || m.Type != models.MessageQuestion || m.Read || !slices.Contains(from, m.Sender) {
			continue
		}
		if _, ok := answered[m.ID]; ok {
			continue
		}
		out := cloneMessage(m)
		return &out, nil
	}
	return nil, nil
}

func (s *Store) UpsertUserLocation(ctx context.Context, u models.User, lat, lon float64) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	existing, ok := s.users[u.ID]
	created := !ok
	if created {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		u.CreatedAt = now
		existing = u
		s.userOrder = append(s.userOrder, u.ID)
	} else {
		if strings.TrimSpace(u.Name) != "" {
			existing.Name = u.Name
		}
		if u.ContactInfo != nil {
			existing.ContactInfo = u.ContactInfo
		}
		existing.IsCaller = existing.IsCaller || u.IsCaller
		if u.IsHelper {
			existing.IsHelper = true
			existing.HelperSkills = u.HelperSkills
			existing.HelperMaxRangeKm = u.HelperMaxRangeKm
		}
	}
	existing.HelperSkills = slices.Clone(existing.HelperSkills)
	existing.Lat = &lat
	existing.Lon = &lon
	existing.UpdatedAt = now
	s.users[existing.ID] = existing

	s.samples = append(s.samples, models.LocationSample{
		ID:         uuid.NewString(),
		UserID:     existing.ID,
		Lat:        lat,
		Lon:        lon,
		RecordedAt: now,
	})
	return cloneUser(existing), created, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user %s not found", id)
	}
	return cloneUser(u), nil
}

func (s *Store) LocationHistory(ctx context.Context, userID string, limit int) ([]models.LocationSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, apperr.NotFound("user %s not found", userID)
	}
	var out []models.LocationSample
	for i := len(s.samples) - 1; i >= 0; i-- {
		if s.samples[i].UserID != userID {
			continue
		}
		out = append(out, s.samples[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) LatestHelperLocations(ctx context.Context, box *geo.Box) ([]geo.HelperLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := map[string]models.LocationSample{}
	for _, sample := range s.samples {
		prev, ok := latest[sample.UserID]
		if !ok || !sample.RecordedAt.Before(prev.RecordedAt) {
			latest[sample.UserID] = sample
		}
	}

	var out []geo.HelperLocation
	for _, id := range s.userOrder {
		u := s.users[id]
		sample, ok := latest[id]
		if !u.IsHelper || !ok {
			continue
		}
		if box != nil && !box.Contains(sample.Lat, sample.Lon) {
			continue
		}
		out = append(out, geo.HelperLocation{User: cloneUser(u), Latest: sample})
	}
	return out, nil
}

// transition must be called with s.mu held and an already validated edge.
func (s *Store) transition(c models.Case, to models.CaseStatus, reason, actor string) models.Case {
	from := c.Status
	c.Status = to
	if to == models.StatusResolved {
		now := s.now()
		c.ResolvedAt = &now
	}
	s.cases[c.ID] = c
	s.audit(c.ID, from, to, reason, actor)
	return c
}

func (s *Store) audit(caseID string, from, to models.CaseStatus, reason, actor string) {
	s.audits = append(s.audits, models.StatusAudit{
		ID:         uuid.NewString(),
		CaseID:     caseID,
		FromStatus: from,
		ToStatus:   to,
		Reason:     reason,
		Actor:      actor,
		CreatedAt:  s.now(),
	})
}

func guideKey(kind models.GuideKind, ownerID string) string {
	return string(kind) + ":" + ownerID
}

func cloneCase(c models.Case) models.Case {
	c.VulnerabilityFactors = cloneFactors(c.VulnerabilityFactors)
	return c
}

func cloneFactors(in []models.VulnerabilityFactor) []models.VulnerabilityFactor {
	if in == nil {
		return []models.VulnerabilityFactor{}
	}
	return slices.Clone(in)
}

func cloneUser(u models.User) models.User {
	u.HelperSkills = slices.Clone(u.HelperSkills)
	return u
}

func cloneMessage(m models.Message) models.Message {
	m.Options = slices.Clone(m.Options)
	return m
}
