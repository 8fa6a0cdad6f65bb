package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/beacon/backend/internal/models"
)

func TestHaversineKnownDistance(t *testing.T) {
	// London -> Paris
	d := HaversineKm(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 343.5, d, 1.0)
	assert.Zero(t, HaversineKm(10, 10, 10, 10))
}

func TestRankCasesRadiusQuery(t *testing.T) {
	now := time.Now().UTC()
	near := models.Case{ID: "near", Lat: 51.7600, Lon: -0.1250, Status: models.StatusOpen, CreatedAt: now}
	far := models.Case{ID: "far", Lat: 52.5, Lon: -1.9, Status: models.StatusOpen, CreatedAt: now}

	got := RankCases(51.7550, -0.1280, 10, []models.CaseStatus{models.StatusOpen}, []models.Case{far, near})
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].Case.ID)
	assert.Greater(t, got[0].DistanceKm, 0.0)
	assert.InDelta(t, 0.593, got[0].DistanceKm, 0.005)
}

func TestRankCasesStatusFilter(t *testing.T) {
	now := time.Now().UTC()
	cases := []models.Case{
		{ID: "a", Lat: 1, Lon: 1, Status: models.StatusOpen, CreatedAt: now},
		{ID: "b", Lat: 1, Lon: 1, Status: models.StatusClosed, CreatedAt: now},
		{ID: "c", Lat: 1, Lon: 1, Status: models.StatusAssigned, CreatedAt: now},
	}
	got := RankCases(1, 1, 1, []models.CaseStatus{models.StatusOpen, models.StatusAssigned}, cases)
	ids := []string{}
	for _, m := range got {
		ids = append(ids, m.Case.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestRankCasesInclusiveBoundary(t *testing.T) {
	c := models.Case{ID: "edge", Lat: 0.05, Lon: 0, Status: models.StatusOpen}
	radius := HaversineKm(0, 0, c.Lat, c.Lon)
	got := RankCases(0, 0, radius, []models.CaseStatus{models.StatusOpen}, []models.Case{c})
	require.Len(t, got, 1)
}

func TestRankCasesTiesPreferOlder(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []models.Case{
		{ID: "newer", Lat: 1, Lon: 1, Status: models.StatusOpen, CreatedAt: base.Add(time.Minute)},
		{ID: "older", Lat: 1, Lon: 1, Status: models.StatusOpen, CreatedAt: base},
	}
	got := RankCases(1.01, 1.01, 50, []models.CaseStatus{models.StatusOpen}, cases)
	require.Len(t, got, 2)
	assert.Equal(t, "older", got[0].Case.ID)
	assert.Equal(t, "newer", got[1].Case.ID)
}

func TestRankHelpersRangeAndSkills(t *testing.T) {
	short := 0.5
	wide := 25.0
	helpers := []HelperLocation{
		{User: models.User{ID: "medic", IsHelper: true, HelperSkills: []string{"Medical"}, HelperMaxRangeKm: &wide}, Latest: models.LocationSample{Lat: 51.76, Lon: -0.125}},
		{User: models.User{ID: "short-range", IsHelper: true, HelperSkills: []string{"medical"}, HelperMaxRangeKm: &short}, Latest: models.LocationSample{Lat: 51.80, Lon: -0.125}},
		{User: models.User{ID: "driver", IsHelper: true, HelperSkills: []string{"transport"}}, Latest: models.LocationSample{Lat: 51.76, Lon: -0.125}},
		{User: models.User{ID: "caller", IsHelper: false, HelperSkills: []string{"medical"}}, Latest: models.LocationSample{Lat: 51.76, Lon: -0.125}},
	}

	got := RankHelpers(51.755, -0.128, 10, []string{"medical"}, helpers)
	require.Len(t, got, 1)
	assert.Equal(t, "medic", got[0].Helper.ID)

	all := RankHelpers(51.755, -0.128, 10, nil, helpers)
	assert.Len(t, all, 2)
}

func TestEstimateRoute(t *testing.T) {
	r := EstimateRoute(0, 0, 0, 0.5)
	assert.InDelta(t, 55.6, r.DistanceKm, 0.1)
	assert.Equal(t, 111, r.EtaMinutes)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
}

func TestBoundingBoxContainsEveryPointInRadius(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(-85, 85).Draw(t, "lat")
		lon := rapid.Float64Range(-180, 180).Draw(t, "lon")
		radius := rapid.Float64Range(0.1, 500).Draw(t, "radius")
		pLat := rapid.Float64Range(-90, 90).Draw(t, "pLat")
		pLon := rapid.Float64Range(-180, 180).Draw(t, "pLon")

		if HaversineKm(lat, lon, pLat, pLon) > radius {
			return
		}
		if !BoundingBox(lat, lon, radius).Contains(pLat, pLon) {
			t.Fatalf("box around (%f,%f) r=%f misses (%f,%f)", lat, lon, radius, pLat, pLon)
		}
	})
}

func TestRankCasesOrderedByDistance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		cases := make([]models.Case, n)
		for i := range cases {
			cases[i] = models.Case{
				ID:     rapid.StringMatching(`[a-z]{4}`).Draw(t, "id"),
				Lat:    rapid.Float64Range(50, 52).Draw(t, "lat"),
				Lon:    rapid.Float64Range(-1, 1).Draw(t, "lon"),
				Status: models.StatusOpen,
			}
		}
		got := RankCases(51, 0, 100, []models.CaseStatus{models.StatusOpen}, cases)
		for i := 1; i < len(got); i++ {
			if got[i-1].DistanceKm > got[i].DistanceKm {
				t.Fatalf("results out of order at %d", i)
			}
		}
		for _, m := range got {
			if m.DistanceKm > 100 {
				t.Fatalf("result beyond radius: %f", m.DistanceKm)
			}
		}
	})
}
