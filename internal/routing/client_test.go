package routing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	t "github.com/teja-rm/weather-route-map/internal/types"
)

func TestRoute(tt *testing.T) {
	body := `{
		"routes": [{
			"sections": [
				{"polyline": "BFoz5xJ67i1B1B7PzIhaxL7Y",
				 "summary": {"duration": 1200, "length": 18000},
				 "transport": {"mode": "car"}},
				{"polyline": "BFoz5xJ67i1B1B7PzIhaxL7Y",
				 "summary": {"duration": 600, "length": 1500},
				 "transport": {"mode": "pedestrian"}}
			]
		}]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("transportMode") != "car" {
			w.WriteHeader(400)
			return
		}
		io.WriteString(w, body)
	}))
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL))
	trip := &t.Trip{
		From: &t.Coordinates{Latitude: 50.10228, Longitude: 8.69821},
		To:   &t.Coordinates{Latitude: 50.09878, Longitude: 8.68752},
	}
	rt, err := c.Route(context.Background(), trip, "car")
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if len(rt.Sections) != 2 {
		tt.Fatalf("sections = %d, want 2", len(rt.Sections))
	}
	if rt.Duration != 1800 || rt.Distance != 19500 {
		tt.Errorf("totals = %v/%v, want 1800/19500", rt.Duration, rt.Distance)
	}
	if rt.Sections[1].Mode != "pedestrian" {
		tt.Errorf("section mode = %q", rt.Sections[1].Mode)
	}
}

func TestRouteNoRoutes(tt *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"routes": []}`)
	}))
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL))
	trip := &t.Trip{
		From: &t.Coordinates{Latitude: 1, Longitude: 2},
		To:   &t.Coordinates{Latitude: 3, Longitude: 4},
	}
	if _, err := c.Route(context.Background(), trip, "car"); err == nil {
		tt.Fatal("expected error when provider returns no routes")
	}
}
