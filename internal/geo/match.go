package geo

import (
	"sort"
	"strings"
	"time"

	"github.com/beacon/backend/internal/models"
)

type CaseMatch struct {
	Case       models.Case `json:"case"`
	DistanceKm float64     `json:"distance_km"`
}

// HelperLocation pairs a helper with the newest location sample on record.
type HelperLocation struct {
	User   models.User
	Latest models.LocationSample
}

type HelperMatch struct {
	Helper     models.User           `json:"helper"`
	Location   models.LocationSample `json:"location"`
	DistanceKm float64               `json:"distance_km"`
}

// RankCases keeps cases whose status is in statuses and whose location lies
// within radiusKm (inclusive). Results are ordered by distance, then by
// creation time so that older requests surface first.
func RankCases(lat, lon, radiusKm float64, statuses []models.CaseStatus, cases []models.Case) []CaseMatch {
	allowed := make(map[models.CaseStatus]struct{}, len(statuses))
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}

	out := make([]CaseMatch, 0, len(cases))
	for _, c := range cases {
		if _, ok := allowed[c.Status]; !ok {
			continue
		}
		d := HaversineKm(lat, lon, c.Lat, c.Lon)
		if d > radiusKm {
			continue
		}
		out = append(out, CaseMatch{Case: c, DistanceKm: d})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].DistanceKm, out[j].DistanceKm, out[i].Case.CreatedAt, out[j].Case.CreatedAt, out[i].Case.ID, out[j].Case.ID)
	})
	return out
}

// RankHelpers filters helper candidates to those within radiusKm of the query
// point whose declared max range also covers it and, when requiredSkills is
// non-empty, who share at least one skill.
func RankHelpers(lat, lon, radiusKm float64, requiredSkills []string, candidates []HelperLocation) []HelperMatch {
	out := make([]HelperMatch, 0, len(candidates))
	for _, h := range candidates {
		if !h.User.IsHelper {
			continue
		}
		d := HaversineKm(lat, lon, h.Latest.Lat, h.Latest.Lon)
		if d > radiusKm {
			continue
		}
		if h.User.HelperMaxRangeKm != nil && *h.User.HelperMaxRangeKm < d {
			continue
		}
		if len(requiredSkills) > 0 && !skillsIntersect(h.User.HelperSkills, requiredSkills) {
			continue
		}
		out = append(out, HelperMatch{Helper: h.User, Location: h.Latest, DistanceKm: d})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].DistanceKm, out[j].DistanceKm, out[i].Helper.CreatedAt, out[j].Helper.CreatedAt, out[i].Helper.ID, out[j].Helper.ID)
	})
	return out
}

func less(di, dj float64, ci, cj time.Time, idi, idj string) bool {
	if di != dj {
		return di < dj
	}
	if !ci.Equal(cj) {
		return ci.Before(cj)
	}
	return idi < idj
}

func skillsIntersect(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}
