package forecast

import "math/rand"

var syntheticDescriptions = []string{
	"clear sky",
	"few clouds",
	"scattered clouds",
	"overcast clouds",
	"light rain",
}

// Synthetic produces a structurally valid sample with bounded random
// values, used when weather retrieval fails so a report can still be
// assembled. Ranges: temperature 5..25°C, humidity 40..90%, wind
// 0..20 km/h, visibility 5..10 km, precipitation 0..2 mm on roughly a
// third of samples. The rand source is injected so tests can pin the
// output.
func Synthetic(rng *rand.Rand, timestamp int64) *Sample {
	s := &Sample{
		TemperatureC: 5 + rng.Float64()*20,
		HumidityPct:  40 + rng.Float64()*50,
		WindSpeedKmh: rng.Float64() * 20,
		VisibilityKm: 5 + rng.Float64()*5,
		Timestamp:    timestamp,
	}
	if rng.Float64() < 0.3 {
		s.PrecipitationMm = rng.Float64() * 2
		s.RainProbabilityPct = 40 + rng.Float64()*40
		s.Description = syntheticDescriptions[len(syntheticDescriptions)-1]
	} else {
		s.Description = syntheticDescriptions[rng.Intn(len(syntheticDescriptions)-1)]
	}
	return s
}
