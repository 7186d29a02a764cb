package forecast

import (
	"errors"
	"time"
)

// ErrNoForecastData means the payload has neither a current record nor any
// hourly entries, so no band can answer a query at all.
var ErrNoForecastData = errors.New("forecast: no usable band in payload")

// Band is one of the four forecast resolutions.
type Band int

const (
	BandInstant Band = iota
	BandMinute
	BandHour
	BandDay
)

func (b Band) String() string {
	switch b {
	case BandInstant:
		return "instant"
	case BandMinute:
		return "minute"
	case BandHour:
		return "hour"
	case BandDay:
		return "day"
	}
	return "unknown"
}

// Choice is the outcome of band selection: which band governs the query,
// the entry index within that band, and, for the minute band, the slower
// band that supplies non-precipitation fields.
type Choice struct {
	Band      Band
	Index     int
	IsCurrent bool

	// SlowBand/SlowIndex are set only when Band == BandMinute.
	SlowBand  Band
	SlowIndex int
}

// Thresholds separating the bands, in seconds from now.
const (
	instantWindow = 300
	minuteWindow  = 3600
	hourWindow    = 48 * 3600
	nearSlowCut   = 1800
)

// SelectBand decides which resolution band governs a query for target given
// the bands available in p. Past targets and targets within five minutes
// resolve to the instant band. A band whose backing array is missing falls
// back toward the instant band rather than failing; only a payload with no
// current record and no hourly entries is unanswerable.
func SelectBand(now, target time.Time, p *Payload) (Choice, error) {
	if p == nil || (p.Current == nil && len(p.Hourly) == 0) {
		return Choice{}, ErrNoForecastData
	}
	diff := target.Unix() - now.Unix()

	if diff < instantWindow {
		return instantChoice(target, p)
	}

	if diff <= minuteWindow && len(p.Minutely) > 0 {
		idx := clampIndex(int(diff/60), len(p.Minutely))
		ch := Choice{Band: BandMinute, Index: idx}
		switch {
		case diff < nearSlowCut && p.Current != nil:
			ch.SlowBand = BandInstant
		case len(p.Hourly) >= 2:
			ch.SlowBand, ch.SlowIndex = BandHour, 1
		case p.Current != nil:
			ch.SlowBand = BandInstant
		default:
			ch.SlowBand, ch.SlowIndex = BandHour, 0
		}
		return ch, nil
	}

	if diff <= hourWindow {
		if len(p.Hourly) == 0 {
			return instantChoice(target, p)
		}
		return Choice{Band: BandHour, Index: hourIndex(p.Hourly, target.Unix())}, nil
	}

	if len(p.Daily) == 0 {
		if len(p.Hourly) > 0 {
			return Choice{Band: BandHour, Index: hourIndex(p.Hourly, target.Unix())}, nil
		}
		return instantChoice(target, p)
	}
	return Choice{Band: BandDay, Index: nearestDay(p.Daily, target.Unix())}, nil
}

func instantChoice(target time.Time, p *Payload) (Choice, error) {
	if p.Current != nil {
		return Choice{Band: BandInstant, IsCurrent: true}, nil
	}
	// No current record; the nearest hourly entry stands in for it.
	return Choice{Band: BandHour, Index: hourIndex(p.Hourly, target.Unix()), IsCurrent: true}, nil
}

// hourIndex finds the pair of consecutive entries straddling target and
// picks the later one once the target is more than 30 minutes past the
// earlier entry. Targets outside the array clamp to its ends.
func hourIndex(hourly []Hourly, target int64) int {
	last := len(hourly) - 1
	if target <= hourly[0].Time {
		return 0
	}
	for i := 0; i < last; i++ {
		if target >= hourly[i].Time && target < hourly[i+1].Time {
			if target-hourly[i].Time > 1800 {
				return i + 1
			}
			return i
		}
	}
	return last
}

// nearestDay picks the daily entry with the smallest absolute timestamp
// difference to target, earliest entry winning ties.
func nearestDay(daily []Daily, target int64) int {
	best, bestDiff := 0, int64(-1)
	for i, d := range daily {
		diff := d.Time - target
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
