package forecast

// Sample is the normalized weather record handed to consumers. Wind is
// km/h, visibility km, precipitation mm, probability 0..100. Optional
// fields stay nil when the source band does not carry them; absence is
// meaningful downstream and is never reported as zero.
type Sample struct {
	TemperatureC       float64  `json:"temperature_c"`
	Description        string   `json:"description"`
	HumidityPct        float64  `json:"humidity_pct"`
	WindSpeedKmh       float64  `json:"wind_speed_kmh"`
	VisibilityKm       float64  `json:"visibility_km"`
	PrecipitationMm    float64  `json:"precipitation_mm"`
	RainProbabilityPct float64  `json:"rain_probability_pct"`
	Timestamp          int64    `json:"timestamp"`
	IsCurrent          bool     `json:"is_current"`
	FeelsLikeC         *float64 `json:"feels_like_c,omitempty"`
	WindGustKmh        *float64 `json:"wind_gust_kmh,omitempty"`
	WindDegrees        *float64 `json:"wind_degrees,omitempty"`
	SnowMm             *float64 `json:"snow_mm,omitempty"`
}

// The daily band carries no visibility field; report clear visibility
// rather than a false near-zero reading.
const defaultVisibilityKm = 10

// BuildSample normalizes the band entry named by ch into a Sample. ch must
// come from SelectBand against the same payload.
func BuildSample(p *Payload, ch Choice) *Sample {
	switch ch.Band {
	case BandMinute:
		return minuteSample(p, ch)
	case BandHour:
		return hourSample(p, ch.Index, ch.IsCurrent)
	case BandDay:
		return daySample(p, ch.Index)
	default:
		return instantSample(p, ch.IsCurrent)
	}
}

func instantSample(p *Payload, isCurrent bool) *Sample {
	cur := p.Current
	s := &Sample{
		TemperatureC: cur.Temp,
		Description:  description(cur.Conditions),
		HumidityPct:  cur.Humidity,
		WindSpeedKmh: cur.WindSpeed * 3.6,
		VisibilityKm: cur.Visibility / 1000,
		Timestamp:    cur.Time,
		IsCurrent:    isCurrent,
		FeelsLikeC:   copyFloat(cur.FeelsLike),
		WindGustKmh:  scaleFloat(cur.WindGust, 3.6),
		WindDegrees:  copyFloat(cur.WindDeg),
	}
	if cur.Rain != nil {
		s.PrecipitationMm = cur.Rain.OneHour
	}
	if cur.Snow != nil {
		v := cur.Snow.OneHour
		s.SnowMm = &v
	}
	// No probability field exists at instant resolution.
	if s.PrecipitationMm > 0 {
		s.RainProbabilityPct = 90
	}
	return s
}

func minuteSample(p *Payload, ch Choice) *Sample {
	var s *Sample
	if ch.SlowBand == BandInstant && p.Current != nil {
		s = instantSample(p, false)
	} else {
		s = hourSample(p, clampIndex(ch.SlowIndex, len(p.Hourly)), false)
	}
	m := p.Minutely[ch.Index]
	s.Timestamp = m.Time
	s.PrecipitationMm = m.Precipitation
	s.RainProbabilityPct = minuteRainProbability(p.Minutely, ch.Index)
	return s
}

func hourSample(p *Payload, idx int, isCurrent bool) *Sample {
	h := p.Hourly[idx]
	s := &Sample{
		TemperatureC:       h.Temp,
		Description:        description(h.Conditions),
		HumidityPct:        h.Humidity,
		WindSpeedKmh:       h.WindSpeed * 3.6,
		VisibilityKm:       h.Visibility / 1000,
		RainProbabilityPct: h.Pop * 100,
		Timestamp:          h.Time,
		IsCurrent:          isCurrent,
		FeelsLikeC:         copyFloat(h.FeelsLike),
		WindGustKmh:        scaleFloat(h.WindGust, 3.6),
		WindDegrees:        copyFloat(h.WindDeg),
	}
	if h.Rain != nil {
		s.PrecipitationMm = h.Rain.OneHour
	}
	if h.Snow != nil {
		v := h.Snow.OneHour
		s.SnowMm = &v
	}
	return s
}

func daySample(p *Payload, idx int) *Sample {
	d := p.Daily[idx]
	s := &Sample{
		TemperatureC:       d.Temp.Day,
		Description:        description(d.Conditions),
		HumidityPct:        d.Humidity,
		WindSpeedKmh:       d.WindSpeed * 3.6,
		VisibilityKm:       defaultVisibilityKm,
		RainProbabilityPct: d.Pop * 100,
		Timestamp:          d.Time,
		WindGustKmh:        scaleFloat(d.WindGust, 3.6),
		WindDegrees:        copyFloat(d.WindDeg),
		SnowMm:             copyFloat(d.Snow),
	}
	if d.FeelsLike != nil {
		v := d.FeelsLike.Day
		s.FeelsLikeC = &v
	}
	if d.Rain != nil {
		s.PrecipitationMm = *d.Rain
	}
	return s
}

// minuteRainProbability blends a base value keyed to the point-in-time
// precipitation with a 30-minute symmetric window around it. The window
// tier caps the result: >1mm summed rain caps at 80, more than five rainy
// minutes at 60, any rain at 40.
func minuteRainProbability(mins []Minute, idx int) float64 {
	point := mins[idx].Precipitation
	var base float64
	switch {
	case point >= 1:
		base = 90
	case point > 0:
		base = 60
	}

	lo, hi := idx-15, idx+15
	if lo < 0 {
		lo = 0
	}
	if hi > len(mins)-1 {
		hi = len(mins) - 1
	}
	var sum float64
	rainy := 0
	for i := lo; i <= hi; i++ {
		if mins[i].Precipitation > 0 {
			rainy++
			sum += mins[i].Precipitation
		}
	}

	var windowed, ceiling float64
	switch {
	case sum > 1:
		windowed, ceiling = 80, 80
	case rainy > 5:
		windowed, ceiling = 60, 60
	case rainy > 0:
		windowed, ceiling = 40, 40
	default:
		return 0
	}
	blend := 0.6*base + 0.4*windowed
	if blend > ceiling {
		blend = ceiling
	}
	return blend
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func scaleFloat(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v * factor
	return &c
}
