package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ----- in-memory fakes -----

type fakeRooms struct {
	rooms map[uint64]model.Room
	rates map[uint64]float64
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (model.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return model.Room{}, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeRooms) NightlyRate(_ context.Context, id uint64) (float64, error) {
	if _, ok := f.rooms[id]; !ok {
		return 0, sql.ErrNoRows
	}
	return f.rates[id], nil
}

type fakeUsers struct {
	users map[uint64]model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// fakeBookings serializes CreateIfAvailable and ChangeStatus with one
// mutex, mirroring the row locks the SQL implementation takes.
type fakeBookings struct {
	mu       sync.Mutex
	nextID   uint64
	bookings []model.Booking
}

func (f *fakeBookings) CreateIfAvailable(_ context.Context, b *model.Booking, check ConflictCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []model.Booking
	for _, ex := range f.bookings {
		if ex.RoomID == b.RoomID && ex.Status.Active() {
			active = append(active, ex)
		}
	}
	if err := check(active); err != nil {
		return err
	}
	f.nextID++
	b.ID = f.nextID
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookings) ChangeStatus(_ context.Context, id uint64, decide TransitionFunc) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, ex := range f.bookings {
		if ex.ID == id {
			target, err := decide(ex)
			if err != nil {
				return model.Booking{}, err
			}
			f.bookings[i].Status = target
			return f.bookings[i], nil
		}
	}
	return model.Booking{}, sql.ErrNoRows
}

func (f *fakeBookings) ActiveForRoom(_ context.Context, roomID uint64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Booking
	for _, ex := range f.bookings {
		if ex.RoomID == roomID && ex.Status.Active() {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (f *fakeBookings) List(_ context.Context, flt BookingFilter) ([]BookingDetail, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []BookingDetail
	for _, ex := range f.bookings {
		if flt.UserID != 0 && ex.UserID != flt.UserID {
			continue
		}
		if flt.Status != "" && ex.Status != flt.Status {
			continue
		}
		out = append(out, BookingDetail{Booking: ex})
	}
	return out, len(out), nil
}

type fakeEvents struct {
	mu      sync.Mutex
	created []model.Booking
	changed [][2]model.BookingStatus // from, to
}

func (f *fakeEvents) BookingCreated(_ context.Context, b model.Booking, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, b)
}

func (f *fakeEvents) BookingStatusChanged(_ context.Context, b model.Booking, from model.BookingStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, [2]model.BookingStatus{from, b.Status})
}

func newFixture() (*Reservations, *fakeBookings, *fakeEvents) {
	rooms := &fakeRooms{
		rooms: map[uint64]model.Room{101: {ID: 101, CategoryID: 1, Status: model.RoomAvailable}},
		rates: map[uint64]float64{101: 150.50},
	}
	users := &fakeUsers{users: map[uint64]model.User{
		42: {ID: 42, UserType: "Client", Contact: "555-0042"},
		7:  {ID: 7, UserType: "Incharge"},
	}}
	bookings := &fakeBookings{}
	events := &fakeEvents{}
	return NewReservations(rooms, users, bookings, events), bookings, events
}

var (
	client = Identity{UserID: 42, Role: RoleClient}
	staff  = Identity{UserID: 7, Role: RoleIncharge}
)

// ----- creation -----

func TestCreateClientBooking(t *testing.T) {
	svc, _, events := newFixture()

	b, total, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID:   101,
		CheckIn:  date(2026, 4, 1),
		CheckOut: date(2026, 4, 4),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, uint64(42), b.UserID)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, "555-0042", b.Contact) // defaulted from the owner
	assert.InDelta(t, 451.50, total, 1e-9)
	assert.Len(t, events.created, 1)
}

func TestCreateWalkInDefaultsApproved(t *testing.T) {
	svc, _, _ := newFixture()

	b, _, err := svc.Create(context.Background(), staff, CreateBookingInput{
		RoomID:    101,
		CheckIn:   date(2026, 4, 1),
		CheckOut:  date(2026, 4, 2),
		ForUserID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, b.Status)
	assert.Equal(t, uint64(42), b.UserID)
}

func TestCreateForOtherUserRequiresStaff(t *testing.T) {
	svc, bookings, _ := newFixture()

	_, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID:    101,
		CheckIn:   date(2026, 4, 1),
		CheckOut:  date(2026, 4, 2),
		ForUserID: 7,
	})
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)
	assert.Empty(t, bookings.bookings)
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc, bookings, events := newFixture()

	_, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 5),
	})
	require.NoError(t, err)

	_, _, err = svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 4), CheckOut: date(2026, 4, 7),
	})
	var su *SlotUnavailableError
	require.ErrorAs(t, err, &su)
	assert.Equal(t, uint64(101), su.RoomID)
	require.Len(t, su.Blocking, 1)
	assert.Equal(t, date(2026, 4, 1), su.Blocking[0].CheckIn)

	assert.Len(t, bookings.bookings, 1, "conflicting booking must not be written")
	assert.Len(t, events.created, 1)
}

func TestCreateBackToBackAccepted(t *testing.T) {
	svc, _, _ := newFixture()

	_, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 5),
	})
	require.NoError(t, err)

	// Checkout day equals the next check-in day: same-day turnover.
	_, _, err = svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 5), CheckOut: date(2026, 4, 8),
	})
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newFixture()

	_, _, err := svc.Create(context.Background(), client, CreateBookingInput{})
	var iv *InvalidIntervalError
	require.ErrorAs(t, err, &iv)
	assert.ElementsMatch(t, []string{"room_id", "check_in", "check_out"}, iv.Fields)

	_, _, err = svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 5), CheckOut: date(2026, 4, 5),
	})
	assert.ErrorAs(t, err, &iv)

	_, _, err = svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 999, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 2),
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "room", nf.Resource)
}

// Many racing requests for one room and one window: exactly one wins.
func TestCreateConcurrentOneWinner(t *testing.T) {
	svc, bookings, _ := newFixture()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Create(context.Background(), client, CreateBookingInput{
				RoomID: 101, CheckIn: date(2026, 5, 1), CheckOut: date(2026, 5, 3),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			var su *SlotUnavailableError
			assert.ErrorAs(t, err, &su)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Len(t, bookings.bookings, 1)
}

// ----- status changes -----

func TestChangeStatusPublishesOnRealChange(t *testing.T) {
	svc, _, events := newFixture()

	b, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 2),
	})
	require.NoError(t, err)

	got, err := svc.ChangeStatus(context.Background(), staff, b.ID, model.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	require.Len(t, events.changed, 1)
	assert.Equal(t, [2]model.BookingStatus{model.StatusPending, model.StatusApproved}, events.changed[0])

	// Repeating the same request is an accepted no-op and publishes
	// nothing.
	got, err = svc.ChangeStatus(context.Background(), staff, b.ID, model.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Len(t, events.changed, 1)
}

func TestChangeStatusErrors(t *testing.T) {
	svc, _, _ := newFixture()

	b, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 2),
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), staff, b.ID, model.BookingStatus("Teleported"))
	var iv *InvalidIntervalError
	assert.ErrorAs(t, err, &iv)

	_, err = svc.ChangeStatus(context.Background(), staff, 9999, model.StatusApproved)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "booking", nf.Resource)

	// Cancelled is terminal.
	_, err = svc.ChangeStatus(context.Background(), staff, b.ID, model.StatusCancelled)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(context.Background(), staff, b.ID, model.StatusApproved)
	var it *InvalidTransitionError
	assert.ErrorAs(t, err, &it)
}

func TestClientCancelOwnBooking(t *testing.T) {
	svc, _, _ := newFixture()

	b, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 2),
	})
	require.NoError(t, err)

	got, err := svc.ChangeStatus(context.Background(), client, b.ID, model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// After cancellation the slot frees up immediately.
	available, _, err := svc.CheckAvailability(context.Background(), 101, date(2026, 4, 1), date(2026, 4, 2))
	require.NoError(t, err)
	assert.True(t, available)
}

// ----- availability and listing -----

func TestCheckAvailability(t *testing.T) {
	svc, _, _ := newFixture()

	available, blocking, err := svc.CheckAvailability(context.Background(), 101, date(2026, 4, 1), date(2026, 4, 3))
	require.NoError(t, err)
	assert.True(t, available)
	assert.Empty(t, blocking)

	_, _, err = svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 5),
	})
	require.NoError(t, err)

	available, blocking, err = svc.CheckAvailability(context.Background(), 101, date(2026, 4, 2), date(2026, 4, 3))
	require.NoError(t, err)
	assert.False(t, available)
	assert.Len(t, blocking, 1)

	_, _, err = svc.CheckAvailability(context.Background(), 404, date(2026, 4, 1), date(2026, 4, 3))
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListBookingsScoping(t *testing.T) {
	svc, _, _ := newFixture()

	_, _, err := svc.Create(context.Background(), client, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 1), CheckOut: date(2026, 4, 2),
	})
	require.NoError(t, err)
	_, _, err = svc.Create(context.Background(), staff, CreateBookingInput{
		RoomID: 101, CheckIn: date(2026, 4, 10), CheckOut: date(2026, 4, 12), ForUserID: 7,
	})
	require.NoError(t, err)

	// Clients see only their own rows even with no filter.
	out, total, err := svc.ListBookings(context.Background(), client, BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, uint64(42), out[0].UserID)

	// Asking for someone else's rows is refused, not narrowed.
	_, _, err = svc.ListBookings(context.Background(), client, BookingFilter{UserID: 7})
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)

	// Staff see everything.
	_, total, err = svc.ListBookings(context.Background(), staff, BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
