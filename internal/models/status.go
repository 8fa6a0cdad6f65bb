package models

import "strings"

type CaseStatus string

const (
	StatusOpen       CaseStatus = "open"
	StatusAssigned   CaseStatus = "assigned"
	StatusInProgress CaseStatus = "in_progress"
	StatusResolved   CaseStatus = "resolved"
	StatusClosed     CaseStatus = "closed"
)

var caseTransitions = map[CaseStatus][]CaseStatus{
	StatusOpen:       {StatusAssigned, StatusClosed},
	StatusAssigned:   {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusResolved},
}

// AllCaseStatuses is ordered along the lifecycle.
var AllCaseStatuses = []CaseStatus{StatusOpen, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed}

// CanTransition reports whether from -> to is an edge of the case lifecycle.
func CanTransition(from, to CaseStatus) bool {
	for _, next := range caseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Claimable statuses accept new assignments.
func (s CaseStatus) Claimable() bool {
	return s == StatusOpen || s == StatusAssigned
}

func (s CaseStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

func ParseCaseStatus(value string) (CaseStatus, bool) {
	v := CaseStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range AllCaseStatuses {
		if s == v {
			return s, true
		}
	}
	return "", false
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"

	DefaultUrgency = UrgencyHigh
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

type DangerLevel string

const (
	DangerSafe            DangerLevel = "safe"
	DangerModerate        DangerLevel = "moderate"
	DangerSevere          DangerLevel = "severe"
	DangerLifeThreatening DangerLevel = "life_threatening"

	DefaultDangerLevel = DangerSevere
)

func (d DangerLevel) Valid() bool {
	switch d {
	case DangerSafe, DangerModerate, DangerSevere, DangerLifeThreatening:
		return true
	}
	return false
}

type MobilityStatus string

const (
	MobilityMobile  MobilityStatus = "mobile"
	MobilityInjured MobilityStatus = "injured"
	MobilityTrapped MobilityStatus = "trapped"
)

func (m MobilityStatus) Valid() bool {
	return m == MobilityMobile || m == MobilityInjured || m == MobilityTrapped
}

type VulnerabilityFactor string

const (
	VulnerabilityElderly         VulnerabilityFactor = "elderly"
	VulnerabilityChildrenPresent VulnerabilityFactor = "children_present"
	VulnerabilityMedicalNeeds    VulnerabilityFactor = "medical_needs"
	VulnerabilityDisability      VulnerabilityFactor = "disability"
	VulnerabilityPregnant        VulnerabilityFactor = "pregnant"
)

func (v VulnerabilityFactor) Valid() bool {
	switch v {
	case VulnerabilityElderly, VulnerabilityChildrenPresent, VulnerabilityMedicalNeeds, VulnerabilityDisability, VulnerabilityPregnant:
		return true
	}
	return false
}
