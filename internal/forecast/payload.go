// Package forecast resolves a point in time against a multi-resolution
// weather payload (instant, per-minute, per-hour, per-day bands) and builds
// a single normalized weather sample from the governing band.
package forecast

// Payload is the raw multi-resolution feed as delivered by the weather
// provider. Timestamps are epoch seconds. Any band may be missing or empty.
type Payload struct {
	Current  *Instant `json:"current,omitempty"`
	Minutely []Minute `json:"minutely,omitempty"`
	Hourly   []Hourly `json:"hourly,omitempty"`
	Daily    []Daily  `json:"daily,omitempty"`
}

type Conditions struct {
	Id          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Accum is the provider's one-hour accumulation object, e.g. {"1h": 0.25}.
type Accum struct {
	OneHour float64 `json:"1h"`
}

// Instant is the authoritative "now" record.
type Instant struct {
	Time       int64        `json:"dt"`
	Temp       float64      `json:"temp"`
	FeelsLike  *float64     `json:"feels_like,omitempty"`
	Humidity   float64      `json:"humidity"`
	WindSpeed  float64      `json:"wind_speed"` // m/s
	WindGust   *float64     `json:"wind_gust,omitempty"`
	WindDeg    *float64     `json:"wind_deg,omitempty"`
	Visibility float64      `json:"visibility"` // meters
	Rain       *Accum       `json:"rain,omitempty"`
	Snow       *Accum       `json:"snow,omitempty"`
	Conditions []Conditions `json:"weather"`
}

// Minute carries only a timestamp and a precipitation volume.
type Minute struct {
	Time          int64   `json:"dt"`
	Precipitation float64 `json:"precipitation"` // mm
}

type Hourly struct {
	Time       int64        `json:"dt"`
	Temp       float64      `json:"temp"`
	FeelsLike  *float64     `json:"feels_like,omitempty"`
	Humidity   float64      `json:"humidity"`
	WindSpeed  float64      `json:"wind_speed"`
	WindGust   *float64     `json:"wind_gust,omitempty"`
	WindDeg    *float64     `json:"wind_deg,omitempty"`
	Visibility float64      `json:"visibility"`
	Pop        float64      `json:"pop"` // 0..1
	Rain       *Accum       `json:"rain,omitempty"`
	Snow       *Accum       `json:"snow,omitempty"`
	Conditions []Conditions `json:"weather"`
}

// DayTemp is the day/night temperature structure of the daily band.
type DayTemp struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type Daily struct {
	Time       int64        `json:"dt"`
	Temp       DayTemp      `json:"temp"`
	FeelsLike  *DayTemp     `json:"feels_like,omitempty"`
	Humidity   float64      `json:"humidity"`
	WindSpeed  float64      `json:"wind_speed"`
	WindGust   *float64     `json:"wind_gust,omitempty"`
	WindDeg    *float64     `json:"wind_deg,omitempty"`
	Pop        float64      `json:"pop"`
	Rain       *float64     `json:"rain,omitempty"` // mm over the day
	Snow       *float64     `json:"snow,omitempty"`
	Conditions []Conditions `json:"weather"`
}

func description(c []Conditions) string {
	if len(c) == 0 {
		return ""
	}
	return c[0].Description
}
