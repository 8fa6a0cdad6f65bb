package models

import "time"

type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ContactInfo      *string   `json:"contact_info,omitempty"`
	IsCaller         bool      `json:"is_caller"`
	IsHelper         bool      `json:"is_helper"`
	HelperSkills     []string  `json:"helper_skills"`
	HelperMaxRangeKm *float64  `json:"helper_max_range_km,omitempty"`
	Lat              *float64  `json:"lat,omitempty"`
	Lon              *float64  `json:"lon,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type LocationSample struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StructuredFields are the extraction outputs stored on a case. Urgency and
// DangerLevel are never empty: a fresh case carries the safe defaults.
type StructuredFields struct {
	Description          *string               `json:"description"`
	PeopleCount          *int                  `json:"people_count"`
	MobilityStatus       *MobilityStatus       `json:"mobility_status"`
	VulnerabilityFactors []VulnerabilityFactor `json:"vulnerability_factors"`
	Urgency              Urgency               `json:"urgency"`
	DangerLevel          DangerLevel           `json:"danger_level"`
	Reasoning            *string               `json:"ai_reasoning"`
}

func DefaultStructuredFields() StructuredFields {
	return StructuredFields{
		VulnerabilityFactors: []VulnerabilityFactor{},
		Urgency:              DefaultUrgency,
		DangerLevel:          DefaultDangerLevel,
	}
}

type Case struct {
	ID         string     `json:"id"`
	ReporterID *string    `json:"reporter_id"`
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	RawText    string     `json:"raw_text"`
	Status     CaseStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
	StructuredFields
}

type Assignment struct {
	ID          string     `json:"id"`
	CaseID      string     `json:"case_id"`
	HelperID    string     `json:"helper_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Outcome     *string    `json:"outcome"`
	Notes       *string    `json:"notes"`
}

func (a Assignment) Open() bool {
	return a.CompletedAt == nil
}

type GuideKind string

const (
	GuideCaller GuideKind = "caller"
	GuideHelper GuideKind = "helper"
)

type Guide struct {
	Kind            GuideKind `json:"kind"`
	OwnerID         string    `json:"owner_id"`
	Text            string    `json:"guide_text"`
	ResearchQuery   *string   `json:"research_query"`
	ResearchSummary *string   `json:"research_summary"`
	CreatedAt       time.Time `json:"created_at"`
}

type StatusAudit struct {
	ID         string     `json:"id"`
	CaseID     string     `json:"case_id"`
	FromStatus CaseStatus `json:"from_status"`
	ToStatus   CaseStatus `json:"to_status"`
	Reason     string     `json:"reason"`
	Actor      string     `json:"actor"`
	CreatedAt  time.Time  `json:"created_at"`
}
