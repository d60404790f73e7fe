// Package service implements the reservation core: session resolution,
// role authorization, the interval overlap detector, pricing, and the
// booking lifecycle manager. Handlers translate the error taxonomy
// defined here into HTTP responses; nothing in this package knows about
// HTTP.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ErrUnauthenticated is returned when a bearer credential is missing,
// malformed, expired or superseded. It deliberately carries no detail
// about which check failed.
var ErrUnauthenticated = errors.New("unauthenticated")

// ForbiddenError is returned when the acting role lacks a capability.
// The violated capability is named so callers can report it; the scope
// is never silently narrowed instead.
type ForbiddenError struct {
	Capability Capability
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: missing capability %s", e.Capability)
}

// NotFoundError is returned when a referenced room, user or booking
// does not exist.
type NotFoundError struct {
	Resource string // "room", "user", "booking", "category"
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// InvalidIntervalError is returned when a proposed stay fails
// validation. Fields names the offending inputs.
type InvalidIntervalError struct {
	Fields []string
}

func (e *InvalidIntervalError) Error() string {
	return "invalid interval: " + strings.Join(e.Fields, ", ")
}

// BlockedInterval describes one booking that blocks a proposed stay.
// It exposes the blocking dates for diagnostics but never the owning
// user.
type BlockedInterval struct {
	BookingID uint64    `json:"booking_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
}

// SlotUnavailableError is returned when the overlap detector finds one
// or more active bookings intersecting the proposed stay.
type SlotUnavailableError struct {
	RoomID   uint64
	Blocking []BlockedInterval
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("room %d is not available for the selected dates (%d blocking bookings)",
		e.RoomID, len(e.Blocking))
}

// InvalidTransitionError is returned for illegal state changes. Both
// the current and the requested state are surfaced.
type InvalidTransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// StorageError wraps any failure from the persistence layer. The engine
// never retries these; retry policy belongs to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// storageErr wraps err unless it already belongs to the taxonomy above.
func storageErr(op string, err error) error {
	var nf *NotFoundError
	var fb *ForbiddenError
	var iv *InvalidIntervalError
	var su *SlotUnavailableError
	var it *InvalidTransitionError
	if errors.Is(err, ErrUnauthenticated) ||
		errors.As(err, &nf) || errors.As(err, &fb) || errors.As(err, &iv) ||
		errors.As(err, &su) || errors.As(err, &it) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
