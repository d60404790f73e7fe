package service

import (
	"math"
	"time"
)

// Nights computes the whole-day stay length of [checkIn, checkOut).
// The result must be at least 1; a zero or negative span is an
// InvalidIntervalError naming both date fields.
func Nights(checkIn, checkOut time.Time) (int, error) {
	in, out := Day(checkIn), Day(checkOut)
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		return 0, &InvalidIntervalError{Fields: []string{"check_in", "check_out"}}
	}
	return n, nil
}

// ResolveNights accepts a caller-supplied duration when it is positive,
// otherwise derives it from the interval. Either way the interval
// itself must be well-formed.
func ResolveNights(checkIn, checkOut time.Time, explicit int) (int, error) {
	derived, err := Nights(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	if explicit > 0 {
		return explicit, nil
	}
	return derived, nil
}

// TotalPrice computes nights * nightly rate, rounded half-up to two
// decimal places. A zero rate (incomplete category data) yields 0.00
// rather than an error so listings stay resilient.
func TotalPrice(nights int, nightlyRate float64) float64 {
	return Round2(float64(nights) * nightlyRate)
}

// Round2 rounds half-up to 2 decimal places. Monetary values stay
// decimal end to end; nothing in the engine coerces them to integers.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
