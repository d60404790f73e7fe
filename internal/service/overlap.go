package service

import (
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Day truncates t to a calendar date at UTC midnight. All interval
// arithmetic in the engine happens on Day-normalized times; there is no
// time-of-day semantics.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open intervals [aIn, aOut) and
// [bIn, bOut) intersect: aIn < bOut && bIn < aOut. Touching boundaries
// do not conflict, which is what permits same-day turnover.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return Day(aIn).Before(Day(bOut)) && Day(bIn).Before(Day(aOut))
}

// FindConflicts returns the blocking intervals among active bookings
// for a proposed [checkIn, checkOut) stay. Callers are expected to have
// filtered to active statuses already; inactive rows are skipped anyway
// as a second line of defense.
func FindConflicts(checkIn, checkOut time.Time, active []model.Booking) []BlockedInterval {
	var blocking []BlockedInterval
	for _, b := range active {
		if !b.Status.Active() {
			continue
		}
		if Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			blocking = append(blocking, BlockedInterval{
				BookingID: b.ID,
				CheckIn:   Day(b.CheckIn),
				CheckOut:  Day(b.CheckOut),
			})
		}
	}
	return blocking
}
