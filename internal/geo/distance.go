// Package geo ranks cases and helpers by great-circle distance.
package geo

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerDegree   = math.Pi * earthRadiusKm / 180

	// RouteSpeedKmh is the assumed average responder speed for ETA estimates.
	RouteSpeedKmh = 30.0
)

func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Box is a lat/lon rectangle that contains every point within a radius of its
// centre. Stores use it as a coarse index filter before exact distances.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func BoundingBox(lat, lon, radiusKm float64) Box {
	// pad so that floating point noise never cuts a boundary point
	dLat := radiusKm/kmPerDegree + 1e-6
	box := Box{
		MinLat: math.Max(-90, lat-dLat),
		MaxLat: math.Min(90, lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		return box
	}
	// widest longitude offset reachable on the sphere, see Matuschek's bounding coordinates
	x := math.Sin(radiusKm/earthRadiusKm) / math.Cos(degreesToRadians(lat))
	if x >= 1 {
		return box
	}
	dLon := math.Asin(x)*180/math.Pi + 1e-6
	box.MinLon = lon - dLon
	box.MaxLon = lon + dLon
	return box
}

// Contains treats a box that crosses the antimeridian as wrapping around.
func (b Box) Contains(lat, lon float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	if b.MinLon < -180 {
		return lon >= b.MinLon+360 || lon <= b.MaxLon
	}
	if b.MaxLon > 180 {
		return lon >= b.MinLon || lon <= b.MaxLon-360
	}
	return lon >= b.MinLon && lon <= b.MaxLon
}

type Route struct {
	DistanceKm float64 `json:"distance_km"`
	EtaMinutes int     `json:"eta_minutes"`
}

func EstimateRoute(fromLat, fromLon, toLat, toLon float64) Route {
	d := HaversineKm(fromLat, fromLon, toLat, toLon)
	return Route{
		DistanceKm: math.Round(d*100) / 100,
		EtaMinutes: int(d / RouteSpeedKmh * 60),
	}
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
