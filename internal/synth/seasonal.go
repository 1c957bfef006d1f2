package synth

import (
	"math"
	"time"
)

// weekendFactor scales base values down on Saturdays and Sundays.
const weekendFactor = 0.7

// Seasonal modulates a base value with a daily sinusoid peaking during
// business hours (phase hour-6, 12-hour half-period) and a weekday/weekend
// multiplier. All generators share this shaping so temporal correlation
// across metric types stays realistic.
func Seasonal(ts time.Time, base, amplitude float64) float64 {
	hour := float64(ts.Hour())
	daily := 1 + amplitude*math.Sin((hour-6)*math.Pi/12)

	weekly := 1.0
	switch ts.Weekday() {
	case time.Saturday, time.Sunday:
		weekly = weekendFactor
	}

	return base * daily * weekly
}

// round2 rounds to two decimal places, matching the precision emitted
// for percentage and rate fields.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
