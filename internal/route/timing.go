// Package route turns decoded route geometry into timed waypoints: sampled
// positions with along-route distance and an estimated arrival instant.
package route

import (
	"math"
	"time"

	"github.com/golang/geo/s2"

	"github.com/teja-rm/weather-route-map/internal/polyline"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

const earthRadiusM = 6371000.0

// GreatCircleDistance returns the distance between two points in meters.
func GreatCircleDistance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusM
}

// SampleWaypoints reduces a decoded geometry to at most maxPoints waypoints
// spaced evenly by along-route distance. The first and last geometry points
// are always kept, as origin and destination.
func SampleWaypoints(coords []polyline.Coordinate, maxPoints int) []t.Waypoint {
	if len(coords) == 0 {
		return nil
	}
	cum := cumulativeDistances(coords)
	total := cum[len(cum)-1]

	if maxPoints < 2 {
		maxPoints = 2
	}
	wps := []t.Waypoint{{
		Latitude:  coords[0].Lat,
		Longitude: coords[0].Lng,
		Type:      t.WaypointOrigin,
	}}
	if len(coords) == 1 {
		return wps
	}

	step := total / float64(maxPoints-1)
	next := step
	for i := 1; i < len(coords)-1 && len(wps) < maxPoints-1; i++ {
		if cum[i] >= next {
			wps = append(wps, t.Waypoint{
				Latitude:           coords[i].Lat,
				Longitude:          coords[i].Lng,
				DistanceFromStartM: cum[i],
				Type:               t.WaypointIntermediate,
			})
			next = cum[i] + step
		}
	}
	last := len(coords) - 1
	wps = append(wps, t.Waypoint{
		Latitude:           coords[last].Lat,
		Longitude:          coords[last].Lng,
		DistanceFromStartM: total,
		Type:               t.WaypointDestination,
	})
	return wps
}

func cumulativeDistances(coords []polyline.Coordinate) []float64 {
	cum := make([]float64, len(coords))
	for i := 1; i < len(coords); i++ {
		cum[i] = cum[i-1] + GreatCircleDistance(
			coords[i-1].Lat, coords[i-1].Lng, coords[i].Lat, coords[i].Lng)
	}
	return cum
}

// ComputeTimings assigns each waypoint an estimated arrival from the trip's
// total duration and departure instant. Progress along the route is the
// waypoint's share of the final along-route distance; when distance data is
// unusable it degrades to index position. Ordering is preserved and the
// first and last waypoints stay origin and destination regardless of
// distance quality.
func ComputeTimings(wps []t.Waypoint, totalDurationSec float64, departure time.Time) []t.Waypoint {
	n := len(wps)
	if n == 0 {
		return wps
	}
	out := make([]t.Waypoint, n)
	copy(out, wps)

	lastDist := out[n-1].DistanceFromStartM
	depEpoch := departure.Unix()
	for i := range out {
		var progress float64
		switch {
		case n == 1:
			progress = 0
		case lastDist > 0:
			progress = out[i].DistanceFromStartM / lastDist
		default:
			progress = float64(i) / float64(n-1)
		}
		arrival := depEpoch + int64(math.Round(totalDurationSec*progress))
		out[i].EstimatedArrivalEpoch = arrival
		out[i].EstimatedArrivalLabel = time.Unix(arrival, 0).UTC().Format("15:04")
	}
	out[0].Type = t.WaypointOrigin
	if n > 1 {
		out[n-1].Type = t.WaypointDestination
	}
	return out
}
