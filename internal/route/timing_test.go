package route

import (
	"math"
	"testing"
	"time"

	"github.com/teja-rm/weather-route-map/internal/polyline"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

var departure = time.Unix(1700000000, 0)

func TestComputeTimingsByDistance(tt *testing.T) {
	wps := []t.Waypoint{
		{DistanceFromStartM: 0},
		{DistanceFromStartM: 500},
		{DistanceFromStartM: 1000},
	}
	got := ComputeTimings(wps, 1000, departure)

	wantOffsets := []int64{0, 500, 1000}
	for i, want := range wantOffsets {
		if got[i].EstimatedArrivalEpoch != departure.Unix()+want {
			tt.Errorf("waypoint %d arrival = %d, want departure+%d", i, got[i].EstimatedArrivalEpoch, want)
		}
		if got[i].EstimatedArrivalLabel == "" {
			tt.Errorf("waypoint %d missing arrival label", i)
		}
	}
	if got[0].Type != t.WaypointOrigin || got[2].Type != t.WaypointDestination {
		tt.Errorf("endpoint types = %v/%v", got[0].Type, got[2].Type)
	}
}

func TestComputeTimingsIndexFallback(tt *testing.T) {
	// No usable distance data: progress degrades to index position.
	wps := make([]t.Waypoint, 5)
	got := ComputeTimings(wps, 3600, departure)
	for i := range got {
		want := departure.Unix() + int64(math.Round(3600*float64(i)/4))
		if got[i].EstimatedArrivalEpoch != want {
			tt.Errorf("waypoint %d arrival = %d, want %d", i, got[i].EstimatedArrivalEpoch, want)
		}
	}
}

func TestComputeTimingsPreservesOrderAndInput(tt *testing.T) {
	wps := []t.Waypoint{
		{DistanceFromStartM: 0, Type: t.WaypointTransitStop},
		{DistanceFromStartM: 800},
		{DistanceFromStartM: 400}, // out of order distances stay in place
		{DistanceFromStartM: 1200, Type: t.WaypointIntermediate},
	}
	got := ComputeTimings(wps, 600, departure)
	if len(got) != 4 {
		tt.Fatalf("waypoint count changed: %d", len(got))
	}
	if got[1].DistanceFromStartM != 800 || got[2].DistanceFromStartM != 400 {
		tt.Error("waypoint ordering not preserved")
	}
	// Endpoints are pinned regardless of what the input claimed.
	if got[0].Type != t.WaypointOrigin || got[3].Type != t.WaypointDestination {
		tt.Errorf("endpoint types = %v/%v", got[0].Type, got[3].Type)
	}
	if wps[0].EstimatedArrivalEpoch != 0 {
		tt.Error("input slice was mutated")
	}
}

func TestGreatCircleDistance(tt *testing.T) {
	// One degree of latitude is about 111 km.
	d := GreatCircleDistance(47, 8, 48, 8)
	if d < 110000 || d > 112500 {
		tt.Errorf("distance = %v m, want ~111 km", d)
	}
	if GreatCircleDistance(47, 8, 47, 8) != 0 {
		tt.Error("distance to self should be zero")
	}
}

func TestSampleWaypoints(tt *testing.T) {
	// A straight line of 101 points heading north, ~1.11 km apart.
	coords := make([]polyline.Coordinate, 101)
	for i := range coords {
		coords[i] = polyline.Coordinate{Lat: 47 + float64(i)*0.01, Lng: 8}
	}
	wps := SampleWaypoints(coords, 6)

	if len(wps) > 6 || len(wps) < 3 {
		tt.Fatalf("sampled %d waypoints, want between 3 and 6", len(wps))
	}
	if wps[0].Type != t.WaypointOrigin || wps[0].Latitude != 47 {
		tt.Errorf("first waypoint = %+v, want origin at start", wps[0])
	}
	last := wps[len(wps)-1]
	if last.Type != t.WaypointDestination || last.Latitude != 48 {
		tt.Errorf("last waypoint = %+v, want destination at end", last)
	}
	for i := 1; i < len(wps); i++ {
		if wps[i].DistanceFromStartM <= wps[i-1].DistanceFromStartM {
			tt.Fatalf("distances not monotonic at %d: %v", i, wps)
		}
		if wps[i].Type == t.WaypointOrigin {
			tt.Fatalf("origin type reused mid-route at %d", i)
		}
	}
}

func TestSampleWaypointsDegenerate(tt *testing.T) {
	if got := SampleWaypoints(nil, 5); got != nil {
		tt.Errorf("empty geometry should yield no waypoints, got %v", got)
	}
	got := SampleWaypoints([]polyline.Coordinate{{Lat: 47, Lng: 8}}, 5)
	if len(got) != 1 || got[0].Type != t.WaypointOrigin {
		tt.Errorf("single point geometry = %+v", got)
	}
}
