package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func TestLegalTransition(t *testing.T) {
	all := []model.BookingStatus{
		model.StatusPending, model.StatusApproved, model.StatusReject,
		model.StatusCancelled, model.StatusCheckedIn,
	}
	allowed := map[[2]model.BookingStatus]bool{
		{model.StatusPending, model.StatusApproved}:    true,
		{model.StatusPending, model.StatusReject}:      true,
		{model.StatusPending, model.StatusCancelled}:   true,
		{model.StatusApproved, model.StatusCheckedIn}:  true,
		{model.StatusApproved, model.StatusCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			want := from == to || allowed[[2]model.BookingStatus{from, to}]
			assert.Equalf(t, want, legalTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestDecideTransitionStaff(t *testing.T) {
	staff := Identity{UserID: 9, Role: RoleIncharge}
	booking := model.Booking{ID: 1, UserID: 42, Status: model.StatusPending}

	got, err := decideTransition(staff, booking, model.StatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got)

	// Illegal for anyone, even staff.
	_, err = decideTransition(staff, model.Booking{Status: model.StatusCancelled}, model.StatusApproved)
	var it *InvalidTransitionError
	assert.ErrorAs(t, err, &it)
	assert.Equal(t, model.StatusCancelled, it.From)
	assert.Equal(t, model.StatusApproved, it.To)
}

func TestDecideTransitionClient(t *testing.T) {
	owner := Identity{UserID: 42, Role: RoleClient}
	stranger := Identity{UserID: 7, Role: RoleClient}
	booking := model.Booking{ID: 1, UserID: 42, Status: model.StatusApproved}

	// Owner may cancel their own pending or approved booking.
	got, err := decideTransition(owner, booking, model.StatusCancelled)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got)

	// Owner may not approve or check in their own booking.
	_, err = decideTransition(owner, model.Booking{UserID: 42, Status: model.StatusPending}, model.StatusApproved)
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)

	// A stranger cancelling someone else's booking gets forbidden, not
	// a transition error, regardless of the booking's state.
	_, err = decideTransition(stranger, model.Booking{UserID: 42, Status: model.StatusCancelled}, model.StatusCancelled)
	assert.ErrorAs(t, err, &fb)
}

func TestDecideTransitionNoOp(t *testing.T) {
	staff := Identity{UserID: 9, Role: RoleAdmin}
	booking := model.Booking{ID: 1, UserID: 42, Status: model.StatusApproved}

	got, err := decideTransition(staff, booking, model.StatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got)
}
