package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/beacon/backend/internal/models"
)

type extraction struct {
	Description          *string  `json:"description"`
	PeopleCount          *int     `json:"people_count"`
	MobilityStatus       *string  `json:"mobility_status"`
	VulnerabilityFactors []string `json:"vulnerability_factors"`
	Urgency              string   `json:"urgency"`
	DangerLevel          string   `json:"danger_level"`
	Reasoning            *string  `json:"reasoning"`
}

// parseExtraction decodes a provider reply into structured fields. Any value
// outside the enums rejects the whole reply.
func parseExtraction(raw string) (models.StructuredFields, error) {
	body := jsonObject(raw)
	if body == "" {
		return models.StructuredFields{}, errors.New("no JSON object in reply")
	}
	var e extraction
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		return models.StructuredFields{}, fmt.Errorf("decode extraction: %w", err)
	}

	f := models.DefaultStructuredFields()
	if e.Urgency != "" {
		u := models.Urgency(strings.ToLower(e.Urgency))
		if !u.Valid() {
			return models.StructuredFields{}, fmt.Errorf("invalid urgency %q", e.Urgency)
		}
		f.Urgency = u
	}
	if e.DangerLevel != "" {
		d := models.DangerLevel(strings.ToLower(e.DangerLevel))
		if !d.Valid() {
			return models.StructuredFields{}, fmt.Errorf("invalid danger_level %q", e.DangerLevel)
		}
		f.DangerLevel = d
	}
	if e.MobilityStatus != nil && *e.MobilityStatus != "" {
		m := models.MobilityStatus(strings.ToLower(*e.MobilityStatus))
		if !m.Valid() {
			return models.StructuredFields{}, fmt.Errorf("invalid mobility_status %q", *e.MobilityStatus)
		}
		f.MobilityStatus = &m
	}
	for _, v := range e.VulnerabilityFactors {
		vf := models.VulnerabilityFactor(strings.ToLower(v))
		if !vf.Valid() {
			return models.StructuredFields{}, fmt.Errorf("invalid vulnerability factor %q", v)
		}
		f.VulnerabilityFactors = append(f.VulnerabilityFactors, vf)
	}
	if e.PeopleCount != nil {
		if *e.PeopleCount < 0 {
			return models.StructuredFields{}, fmt.Errorf("invalid people_count %d", *e.PeopleCount)
		}
		f.PeopleCount = e.PeopleCount
	}
	f.Description = nonBlank(e.Description)
	f.Reasoning = nonBlank(e.Reasoning)
	return f, nil
}

// jsonObject returns the outermost {...} span, which drops markdown fences
// and chatter around the object.
func jsonObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return ""
	}
	return raw[start : end+1]
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
