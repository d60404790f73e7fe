package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomStore is the room lookup surface the engine needs.
type RoomStore interface {
	GetByID(ctx context.Context, roomID uint64) (model.Room, error)
	// NightlyRate returns the room's category rate, 0 when the category
	// carries no price.
	NightlyRate(ctx context.Context, roomID uint64) (float64, error)
}

// UserStore resolves booking owners.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// ConflictCheck inspects the active bookings of a room and returns a
// SlotUnavailableError when the proposed stay cannot be accepted.
type ConflictCheck func(active []model.Booking) error

// TransitionFunc decides the status to persist given the current row,
// or returns a taxonomy error. Returning the current status means an
// accepted no-op: the store must not write anything.
type TransitionFunc func(current model.Booking) (model.BookingStatus, error)

// BookingFilter narrows booking listings. Zero values mean "no filter";
// UserID is forced to the actor for client-scoped reads.
type BookingFilter struct {
	UserID uint64
	Status model.BookingStatus
	Search string
	Limit  int
	Offset int
}

// BookingDetail is a booking joined with its owner and room category
// for display, including the derived total price.
type BookingDetail struct {
	model.Booking
	FirstName    string  `json:"fname"`
	LastName     string  `json:"lname"`
	Email        string  `json:"email"`
	CategoryName string  `json:"category_name"`
	NightlyRate  float64 `json:"price"`
	TotalPrice   float64 `json:"total_price"`
}

// BookingStore is the persistence surface of the lifecycle manager.
//
// CreateIfAvailable must run check and the insert as one serializable
// unit per room: lock the room scope, load its active bookings, call
// check, and insert only when check returns nil. Two concurrent calls
// for the same room must not both observe the slot as free.
//
// ChangeStatus must lock the booking row, call decide on it, and
// persist the returned status unless it equals the current one.
type BookingStore interface {
	CreateIfAvailable(ctx context.Context, b *model.Booking, check ConflictCheck) error
	ChangeStatus(ctx context.Context, bookingID uint64, decide TransitionFunc) (model.Booking, error)
	ActiveForRoom(ctx context.Context, roomID uint64) ([]model.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]BookingDetail, int, error)
}

// EventPublisher receives lifecycle notifications after a successful
// write. Implementations must be best-effort; the engine ignores their
// failures.
type EventPublisher interface {
	BookingCreated(ctx context.Context, b model.Booking, total float64)
	BookingStatusChanged(ctx context.Context, b model.Booking, from model.BookingStatus)
}

// Reservations owns the booking state machine and orchestrates
// creation and status changes. It never touches SQL directly; the
// stores define the transaction boundaries described in their docs.
type Reservations struct {
	rooms    RoomStore
	users    UserStore
	bookings BookingStore
	events   EventPublisher // may be nil
}

// NewReservations wires the lifecycle manager. events may be nil when
// no broker is configured.
func NewReservations(rooms RoomStore, users UserStore, bookings BookingStore, events EventPublisher) *Reservations {
	if rooms == nil || users == nil || bookings == nil {
		panic("nil store passed to NewReservations")
	}
	return &Reservations{rooms: rooms, users: users, bookings: bookings, events: events}
}

// CreateBookingInput carries the caller-supplied parts of a creation
// request. ForUserID and InitialStatus are staff-only: clients book for
// themselves and always start Pending.
type CreateBookingInput struct {
	RoomID         uint64
	CheckIn        time.Time
	CheckOut       time.Time
	Contact        string
	ExplicitNights int
	InitialStatus  model.BookingStatus
	ForUserID      uint64
}

// Create runs the creation protocol: authorize, validate the interval,
// check the room and user exist, evaluate the overlap detector inside
// the room-scoped insert transaction, and persist with derived nights.
// The returned total price is nights times the category rate, rounded
// half-up to 2 decimals. On conflict nothing is written and the error
// is a SlotUnavailableError carrying only the blocking intervals.
func (s *Reservations) Create(ctx context.Context, actor Identity, in CreateBookingInput) (model.Booking, float64, error) {
	ownerID := in.ForUserID
	if ownerID == 0 {
		ownerID = actor.UserID
	}
	status := in.InitialStatus
	if ownerID != actor.UserID || status != "" {
		// Booking on behalf of someone else, or picking the initial
		// status, is a staff capability.
		if err := Require(actor.Role, CapWriteBookings); err != nil {
			return model.Booking{}, 0, err
		}
	}
	if status == "" {
		if actor.Role.Staff() {
			status = model.StatusApproved // walk-in default
		} else {
			status = model.StatusPending
		}
	}
	if _, ok := model.ParseBookingStatus(string(status)); !ok {
		return model.Booking{}, 0, &InvalidIntervalError{Fields: []string{"status"}}
	}

	var missing []string
	if in.RoomID == 0 {
		missing = append(missing, "room_id")
	}
	if in.CheckIn.IsZero() {
		missing = append(missing, "check_in")
	}
	if in.CheckOut.IsZero() {
		missing = append(missing, "check_out")
	}
	if len(missing) > 0 {
		return model.Booking{}, 0, &InvalidIntervalError{Fields: missing}
	}
	nights, err := ResolveNights(in.CheckIn, in.CheckOut, in.ExplicitNights)
	if err != nil {
		return model.Booking{}, 0, err
	}

	if _, err := s.rooms.GetByID(ctx, in.RoomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, 0, &NotFoundError{Resource: "room"}
		}
		return model.Booking{}, 0, storageErr("load room", err)
	}
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, 0, &NotFoundError{Resource: "user"}
		}
		return model.Booking{}, 0, storageErr("load user", err)
	}
	contact := in.Contact
	if contact == "" {
		contact = owner.Contact
	}
	rate, err := s.rooms.NightlyRate(ctx, in.RoomID)
	if err != nil {
		return model.Booking{}, 0, storageErr("load rate", err)
	}

	b := model.Booking{
		RoomID:    in.RoomID,
		UserID:    ownerID,
		Contact:   contact,
		CheckIn:   Day(in.CheckIn),
		CheckOut:  Day(in.CheckOut),
		Nights:    nights,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	err = s.bookings.CreateIfAvailable(ctx, &b, func(active []model.Booking) error {
		if blocking := FindConflicts(b.CheckIn, b.CheckOut, active); len(blocking) > 0 {
			return &SlotUnavailableError{RoomID: b.RoomID, Blocking: blocking}
		}
		return nil
	})
	if err != nil {
		return model.Booking{}, 0, storageErr("create booking", err)
	}

	total := TotalPrice(nights, rate)
	if s.events != nil {
		s.events.BookingCreated(ctx, b, total)
	}
	return b, total, nil
}

// ChangeStatus applies the state machine for the given actor. The store
// locks the row, so two staff members racing on the same booking
// serialize and the loser sees the winner's state.
func (s *Reservations) ChangeStatus(ctx context.Context, actor Identity, bookingID uint64, requested model.BookingStatus) (model.Booking, error) {
	if _, ok := model.ParseBookingStatus(string(requested)); !ok {
		return model.Booking{}, &InvalidIntervalError{Fields: []string{"status"}}
	}
	prev := model.BookingStatus("")
	b, err := s.bookings.ChangeStatus(ctx, bookingID, func(current model.Booking) (model.BookingStatus, error) {
		prev = current.Status
		return decideTransition(actor, current, requested)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, &NotFoundError{Resource: "booking"}
		}
		return model.Booking{}, storageErr("change status", err)
	}
	if s.events != nil && prev != b.Status {
		s.events.BookingStatusChanged(ctx, b, prev)
	}
	return b, nil
}

// CheckAvailability reports whether [checkIn, checkOut) is free on the
// room, plus the blocking intervals when it is not. This is the
// unauthenticated pre-filter; the authoritative check re-runs inside
// the insert transaction.
func (s *Reservations) CheckAvailability(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, []BlockedInterval, error) {
	if roomID == 0 || checkIn.IsZero() || checkOut.IsZero() {
		return false, nil, &InvalidIntervalError{Fields: []string{"room_id", "check_in", "check_out"}}
	}
	if _, err := Nights(checkIn, checkOut); err != nil {
		return false, nil, err
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil, &NotFoundError{Resource: "room"}
		}
		return false, nil, storageErr("load room", err)
	}
	active, err := s.bookings.ActiveForRoom(ctx, roomID)
	if err != nil {
		return false, nil, storageErr("load active bookings", err)
	}
	blocking := FindConflicts(Day(checkIn), Day(checkOut), active)
	return len(blocking) == 0, blocking, nil
}

// ListBookings returns bookings visible to the actor. Staff see all;
// clients are pinned to their own rows. Asking for another user's
// bookings without the capability is a ForbiddenError, never a silently
// narrowed result.
func (s *Reservations) ListBookings(ctx context.Context, actor Identity, f BookingFilter) ([]BookingDetail, int, error) {
	if !actor.Role.Staff() {
		if f.UserID != 0 && f.UserID != actor.UserID {
			return nil, 0, &ForbiddenError{Capability: CapReadAllBookings}
		}
		f.UserID = actor.UserID
	}
	out, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, 0, storageErr("list bookings", err)
	}
	return out, total, nil
}
