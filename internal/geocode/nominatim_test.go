package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestReverseParsesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/reverse" || r.URL.Query().Get("format") != "json" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("User-Agent") != "beacon-test" {
			t.Errorf("missing user agent")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Battery Park, Manhattan, New York"}`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "beacon-test", time.Millisecond)
	name, err := g.Reverse(context.Background(), 40.70321, -74.01701)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if name != "Battery Park, Manhattan, New York" {
		t.Fatalf("unexpected name: %s", name)
	}
	if _, err := g.Reverse(context.Background(), 40.703214, -74.017012); err != nil {
		t.Fatalf("cached reverse: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected the second lookup in the same cell to be cached, got %d calls", calls.Load())
	}
}

func TestReverseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	_, err := NewNominatim(srv.URL, "", time.Millisecond).Reverse(context.Background(), 0, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReverseHonoursContextWhileThrottled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"somewhere"}`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "", time.Hour)
	if _, err := g.Reverse(context.Background(), 1, 1); err != nil {
		t.Fatalf("first reverse: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Reverse(ctx, 2, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while waiting for the request slot, got %v", err)
	}
}
