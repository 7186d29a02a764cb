package routeweather

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/teja-rm/weather-route-map/internal/polyline"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

func testService() *Service {
	return &Service{Logger: zap.NewNop().Sugar()}
}

func TestParseRequest(tt *testing.T) {
	s := testService()

	tests := []struct {
		name    string
		url     string
		wantErr bool
		check   func(*RouteRequest) bool
	}{
		{
			name:    "missing from",
			url:     "/route?to=basel",
			wantErr: true,
		},
		{
			name:    "missing to",
			url:     "/route?from=zurich",
			wantErr: true,
		},
		{
			name: "defaults",
			url:  "/route?from=zurich&to=basel",
			check: func(r *RouteRequest) bool {
				return r.mode == "car" && r.delay == 0 && !r.reverseGeo
			},
		},
		{
			name: "all parameters",
			url:  "/route?from=zurich&to=basel&mode=pedestrian&delay=1800&reverseGeo=true",
			check: func(r *RouteRequest) bool {
				return r.mode == "pedestrian" && r.delay == 1800 && r.reverseGeo
			},
		},
		{
			name:    "delay above 12 hours",
			url:     "/route?from=zurich&to=basel&delay=50000",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		tt.Run(tc.name, func(tt *testing.T) {
			req, err := s.parseRequest(httptest.NewRequest("GET", tc.url, nil))
			if tc.wantErr {
				if err == nil {
					tt.Fatal("expected error")
				}
				if _, ok := err.(CodeError); !ok {
					tt.Fatalf("error %T is not a CodeError", err)
				}
				return
			}
			if err != nil {
				tt.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(req) {
				tt.Fatalf("parsed request = %+v", req)
			}
		})
	}
}

func encodeLine(tt *testing.T, coords []polyline.Coordinate) string {
	tt.Helper()
	encoded, err := polyline.Encode(coords, 5, polyline.ThirdDimNone, 0)
	if err != nil {
		tt.Fatalf("encode: %v", err)
	}
	return encoded
}

func TestWaypointsFromSections(tt *testing.T) {
	s := testService()

	var first, second []polyline.Coordinate
	for i := 0; i <= 20; i++ {
		first = append(first, polyline.Coordinate{Lat: 47 + float64(i)*0.01, Lng: 8})
	}
	for i := 0; i <= 20; i++ {
		second = append(second, polyline.Coordinate{Lat: 47.2 + float64(i)*0.01, Lng: 8})
	}

	rt := &t.Route{
		Sections: []t.Section{
			{Geometry: encodeLine(tt, first), Duration: 1200, Distance: 23000, Mode: "car"},
			{Geometry: encodeLine(tt, second), Duration: 1500, Distance: 23000, Mode: "pedestrian"},
		},
		Duration: 2700,
		Distance: 46000,
	}

	geometry, wps, err := s.waypoints(rt)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if len(geometry) != len(first)+len(second) {
		tt.Fatalf("geometry has %d points, want %d", len(geometry), len(first)+len(second))
	}
	if wps[0].Type != t.WaypointOrigin || wps[len(wps)-1].Type != t.WaypointDestination {
		tt.Fatalf("endpoint types = %v/%v", wps[0].Type, wps[len(wps)-1].Type)
	}

	var transitions int
	for i, wp := range wps {
		if wp.Type == t.WaypointModeTransition {
			transitions++
			if wp.Mode != "pedestrian" {
				tt.Errorf("transition waypoint carries mode %q", wp.Mode)
			}
		}
		if i > 0 && wp.DistanceFromStartM < wps[i-1].DistanceFromStartM {
			tt.Fatalf("distances not monotonic across sections at %d", i)
		}
	}
	if transitions != 1 {
		tt.Fatalf("found %d mode transitions, want 1", transitions)
	}
}

func TestWaypointsRejectsBadGeometry(tt *testing.T) {
	s := testService()
	rt := &t.Route{Sections: []t.Section{{Geometry: "not a polyline!"}}}
	if _, _, err := s.waypoints(rt); err == nil {
		tt.Fatal("expected error for undecodable geometry")
	}
}
