package forecast

import (
	"math/rand"
	"testing"
	"time"
)

func TestCacheTTL(t *testing.T) {
	clock := testNow
	c := NewCache(5*time.Minute, func() time.Time { return clock })

	sample := &Sample{TemperatureC: 12, Timestamp: testNow.Unix()}
	c.Put(47.37, 8.54, testNow.Unix(), sample)

	got, ok := c.Get(47.37, 8.54, testNow.Unix())
	if !ok || got != sample {
		t.Fatal("expected cache hit immediately after put")
	}

	// Positions rounding to the same centidegree share an entry.
	if _, ok := c.Get(47.371, 8.539, testNow.Unix()); !ok {
		t.Error("expected hit for position within rounding distance")
	}
	if _, ok := c.Get(47.50, 8.54, testNow.Unix()); ok {
		t.Error("expected miss for a different position")
	}

	clock = clock.Add(5*time.Minute + time.Second)
	if _, ok := c.Get(47.37, 8.54, testNow.Unix()); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(0, nil)
	c.Put(1, 2, 3, &Sample{})
	c.Clear()
	if _, ok := c.Get(1, 2, 3); ok {
		t.Error("expected miss after clear")
	}
}

func TestSyntheticShape(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		s := Synthetic(rng, testNow.Unix())
		if s.TemperatureC < 5 || s.TemperatureC > 25 {
			t.Fatalf("temperature %v out of range", s.TemperatureC)
		}
		if s.HumidityPct < 40 || s.HumidityPct > 90 {
			t.Fatalf("humidity %v out of range", s.HumidityPct)
		}
		if s.WindSpeedKmh < 0 || s.WindSpeedKmh > 20 {
			t.Fatalf("wind %v out of range", s.WindSpeedKmh)
		}
		if s.VisibilityKm < 5 || s.VisibilityKm > 10 {
			t.Fatalf("visibility %v out of range", s.VisibilityKm)
		}
		if s.PrecipitationMm < 0 || s.PrecipitationMm > 2 {
			t.Fatalf("precipitation %v out of range", s.PrecipitationMm)
		}
		if s.Description == "" || s.Timestamp != testNow.Unix() {
			t.Fatalf("sample = %+v", s)
		}
		if s.FeelsLikeC != nil || s.WindGustKmh != nil || s.SnowMm != nil {
			t.Fatal("synthetic samples must not invent optional fields")
		}
	}
}
