package model

import "time"

// BookingStatus enumerates the five booking lifecycle states. The
// string values are stored verbatim in booking_table.status and appear
// verbatim on the wire, including the lower-case checked_in spelling
// the existing clients depend on.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusApproved  BookingStatus = "Approved"
	StatusReject    BookingStatus = "Reject"
	StatusCancelled BookingStatus = "Cancelled"
	StatusCheckedIn BookingStatus = "checked_in"
)

// ParseBookingStatus returns the status matching s exactly. The enum is
// closed; anything else is rejected so typos never reach the database.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusApproved, StatusReject, StatusCancelled, StatusCheckedIn:
		return BookingStatus(s), true
	}
	return "", false
}

// Active reports whether a booking in this status occupies its room for
// conflict purposes. Rejected and cancelled bookings never block.
func (s BookingStatus) Active() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusReject || s == StatusCancelled
}

// ActiveStatuses is the subset participating in overlap checks, in the
// order used by SQL IN clauses.
var ActiveStatuses = []BookingStatus{StatusPending, StatusApproved, StatusCheckedIn}

// Booking is the central entity, mirroring booking_table. CheckIn and
// CheckOut are calendar dates at UTC midnight; the interval is
// half-open so a checkout day may coincide with another booking's
// check-in day on the same room. Bookings are never deleted; rejection
// and cancellation are status transitions.
//
// Fields:
//  ID        – primary key (booking_table.book_id).
//  RoomID    – booked room (booking_table.room_id).
//  UserID    – owning client (booking_table.userid).
//  Contact   – contact string captured at booking time.
//  CheckIn   – arrival date, inclusive.
//  CheckOut  – departure date, exclusive.
//  Nights    – derived whole-day stay length (booking_table.no_of_days).
//  Status    – lifecycle state.
//  CreatedAt – creation timestamp (booking_table.datetime).
type Booking struct {
	ID        uint64        `json:"book_id"`    // booking_table.book_id
	RoomID    uint64        `json:"room_id"`    // booking_table.room_id
	UserID    uint64        `json:"userid"`     // booking_table.userid
	Contact   string        `json:"contact"`    // booking_table.contact
	CheckIn   time.Time     `json:"check_in"`   // booking_table.check_in (DATE)
	CheckOut  time.Time     `json:"check_out"`  // booking_table.check_out (DATE)
	Nights    int           `json:"no_of_days"` // booking_table.no_of_days
	Status    BookingStatus `json:"status"`     // booking_table.status
	CreatedAt time.Time     `json:"datetime"`   // booking_table.datetime
}
