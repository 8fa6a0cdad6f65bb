// Package geocode turns case coordinates into a human readable place label.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNotFound = errors.New("geocode not found")

type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Nominatim reverse geocodes against an OpenStreetMap Nominatim instance.
// Requests are spaced by MinInterval to respect the public usage policy and
// results are cached per ~10 m cell.
type Nominatim struct {
	client      *resty.Client
	minInterval time.Duration

	mu        sync.Mutex
	lastReqAt time.Time
	cache     map[string]string
}

func NewNominatim(baseURL, userAgent string, minInterval time.Duration) *Nominatim {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if userAgent == "" {
		userAgent = "beacon-backend"
	}
	if minInterval <= 0 {
		minInterval = time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", userAgent).
		SetTimeout(10 * time.Second)
	return &Nominatim{client: client, minInterval: minInterval, cache: map[string]string{}}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (g *Nominatim) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	key := cellKey(lat, lon)

	g.mu.Lock()
	if cached, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return cached, nil
	}
	wait := time.Until(g.lastReqAt.Add(g.minInterval))
	g.lastReqAt = time.Now()
	if wait > 0 {
		g.lastReqAt = g.lastReqAt.Add(wait)
	}
	g.mu.Unlock()

	if wait > 0 {
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}

	var out reverseResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    strconv.FormatFloat(lat, 'f', 6, 64),
			"lon":    strconv.FormatFloat(lon, 'f', 6, 64),
			"format": "json",
			"zoom":   "16",
		}).
		SetResult(&out).
		Get("/reverse")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("nominatim http error: %s", resp.Status())
	}
	name := strings.TrimSpace(out.DisplayName)
	if out.Error != "" || name == "" {
		return "", ErrNotFound
	}

	g.mu.Lock()
	g.cache[key] = name
	g.mu.Unlock()
	return name, nil
}

func cellKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}
