// Package report assembles per-route weather reports: deduplicated
// waypoints with their samples, an overall travel-suitability score, and
// derived risks and recommendations.
package report

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"unicode"

	"github.com/teja-rm/weather-route-map/internal/forecast"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

// WaypointWeather pairs a timed waypoint with its resolved sample and
// location name. A nil Sample marks a failed weather lookup.
type WaypointWeather struct {
	Waypoint     t.Waypoint       `json:"waypoint"`
	Sample       *forecast.Sample `json:"weather"`
	LocationName string           `json:"location_name,omitempty"`
}

type Report struct {
	Waypoints       []WaypointWeather `json:"waypoints"`
	OverallScore    int               `json:"overall_score"`
	Risks           []string          `json:"risks,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
}

// Intermediate waypoints resolving to the same location are merged unless
// they sit further apart along the route than this.
const dedupeDistanceM = 2000

// Aggregator builds reports. The rand source feeds synthetic substitution
// for failed lookups and is injected so tests can pin the output.
type Aggregator struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Aggregator {
	return &Aggregator{rng: rng}
}

// BuildReport never fails: waypoints whose weather lookup failed get a
// synthetic but structurally valid sample, so downstream consumers always
// receive a complete report.
func (a *Aggregator) BuildReport(points []WaypointWeather) *Report {
	points = a.fillMissing(points)
	points = dedupe(points)

	rep := &Report{Waypoints: points}
	if len(points) == 0 {
		rep.OverallScore = 100
		return rep
	}

	var sum float64
	for _, p := range points {
		score := scorePoint(p.Sample)
		sum += score
		rep.Risks = append(rep.Risks, risks(p)...)
	}
	rep.OverallScore = int(math.Round(sum / float64(len(points))))
	rep.Recommendations = recommendations(rep)
	return rep
}

func (a *Aggregator) fillMissing(points []WaypointWeather) []WaypointWeather {
	for i := range points {
		if points[i].Sample == nil {
			points[i].Sample = forecast.Synthetic(a.rng, points[i].Waypoint.EstimatedArrivalEpoch)
		}
	}
	return points
}

// dedupe drops intermediate waypoints whose normalized location name was
// already kept within dedupeDistanceM along the route. Origin and
// destination always survive. Unnamed waypoints are never merged.
func dedupe(points []WaypointWeather) []WaypointWeather {
	kept := points[:0:0]
	seen := map[string]float64{}
	for _, p := range points {
		wt := p.Waypoint.Type
		if wt == t.WaypointOrigin || wt == t.WaypointDestination {
			kept = append(kept, p)
			continue
		}
		key := locationKey(p.LocationName)
		if key == "" {
			kept = append(kept, p)
			continue
		}
		if prev, ok := seen[key]; ok {
			if math.Abs(p.Waypoint.DistanceFromStartM-prev) <= dedupeDistanceM {
				continue
			}
		}
		seen[key] = p.Waypoint.DistanceFromStartM
		kept = append(kept, p)
	}
	return kept
}

// locationKey strips presentation glyphs so "⛅ Basel" and "Basel" collide.
func locationKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func scorePoint(s *forecast.Sample) float64 {
	score := 100.0
	switch {
	case s.TemperatureC < -5:
		score -= 30
	case s.TemperatureC < 0:
		score -= 20
	case s.TemperatureC > 35:
		score -= 25
	}
	switch {
	case s.PrecipitationMm > 20:
		score -= 40
	case s.PrecipitationMm > 10:
		score -= 25
	case s.PrecipitationMm > 2:
		score -= 10
	}
	switch {
	case s.RainProbabilityPct > 80:
		score -= 25
	case s.RainProbabilityPct > 60:
		score -= 15
	case s.RainProbabilityPct > 40:
		score -= 8
	case s.RainProbabilityPct > 20:
		score -= 3
	}
	switch {
	case s.WindSpeedKmh > 25:
		score -= 30
	case s.WindSpeedKmh > 15:
		score -= 15
	}
	switch {
	case s.VisibilityKm < 1:
		score -= 35
	case s.VisibilityKm < 5:
		score -= 20
	}
	if s.HumidityPct > 85 && s.TemperatureC > 25 {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

func risks(p WaypointWeather) []string {
	s := p.Sample
	where := p.LocationName
	if where == "" {
		where = fmt.Sprintf("(%.3f, %.3f)", p.Waypoint.Latitude, p.Waypoint.Longitude)
	}
	var out []string
	if s.TemperatureC < 0 {
		out = append(out, fmt.Sprintf("possible ice near %s", where))
	}
	if s.PrecipitationMm > 10 {
		out = append(out, fmt.Sprintf("heavy precipitation near %s", where))
	}
	if s.WindSpeedKmh > 25 {
		out = append(out, fmt.Sprintf("strong wind near %s", where))
	}
	if s.VisibilityKm < 1 {
		out = append(out, fmt.Sprintf("poor visibility near %s", where))
	}
	return out
}

func recommendations(rep *Report) []string {
	var out []string
	if rep.OverallScore < 40 {
		out = append(out, "conditions are poor along this route; consider delaying departure")
	}
	var rain, ice bool
	for _, p := range rep.Waypoints {
		if p.Sample.RainProbabilityPct > 60 || p.Sample.PrecipitationMm > 2 {
			rain = true
		}
		if p.Sample.TemperatureC < 0 {
			ice = true
		}
	}
	if rain {
		out = append(out, "rain is likely on parts of the route; pack rain gear")
	}
	if ice {
		out = append(out, "temperatures below freezing on parts of the route; watch for ice")
	}
	if len(out) == 0 && rep.OverallScore >= 80 {
		out = append(out, "good conditions for travel")
	}
	return out
}
