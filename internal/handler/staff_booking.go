package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// StaffBookingHandler serves the management surface for bookings: the
// dashboard, the full booking list, walk-in creation and status
// changes. Routes are gated to Admin and Incharge by the router.
type StaffBookingHandler struct {
	Reservations *service.Reservations
	Stats        *repository.StatsRepo
}

func NewStaffBookingHandler(reservations *service.Reservations, stats *repository.StatsRepo) *StaffBookingHandler {
	return &StaffBookingHandler{Reservations: reservations, Stats: stats}
}

// Dashboard returns the occupancy and workload counters.
func (h *StaffBookingHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Stats.Dashboard(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// List returns bookings across all users, filterable by status, user
// and free text over guest name, email and room number.
func (h *StaffBookingHandler) List(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	userID, _ := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	f := service.BookingFilter{
		UserID: userID,
		Search: c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	}
	if s := c.QueryParam("status"); s != "" {
		status, ok := model.ParseBookingStatus(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		f.Status = status
	}
	out, total, err := h.Reservations.ListBookings(ctx, ident, f)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: out, Total: total})
}

type walkInReq struct {
	RoomID   uint64 `json:"room_id"`
	UserID   uint64 `json:"user_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Contact  string `json:"contact"`
	Nights   int    `json:"no_of_days"`
	Status   string `json:"status"`
}

// Create books on behalf of a client, the front-desk walk-in flow.
// When no status is given the booking starts Approved; the guest is
// standing at the counter.
func (h *StaffBookingHandler) Create(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	var req walkInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	checkIn, inOK := parseDate(req.CheckIn)
	checkOut, outOK := parseDate(req.CheckOut)
	if !inOK || !outOK {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out required (YYYY-MM-DD)"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, total, err := h.Reservations.Create(ctx, ident, service.CreateBookingInput{
		RoomID:         req.RoomID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Contact:        req.Contact,
		ExplicitNights: req.Nights,
		InitialStatus:  model.BookingStatus(req.Status),
		ForUserID:      req.UserID,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, bookingResp{Booking: b, Total: total})
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus runs a lifecycle transition: approve, reject, check in
// or cancel. Illegal transitions come back as 422 with both states.
func (h *StaffBookingHandler) UpdateStatus(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Reservations.ChangeStatus(ctx, ident, id, model.BookingStatus(req.Status))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
