package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// ClientReservationHandler serves the authenticated client surface:
// booking a stay, listing own bookings and cancelling.
type ClientReservationHandler struct {
	Reservations *service.Reservations
}

func NewClientReservationHandler(reservations *service.Reservations) *ClientReservationHandler {
	return &ClientReservationHandler{Reservations: reservations}
}

type createBookingReq struct {
	RoomID   uint64 `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Contact  string `json:"contact"`
	Nights   int    `json:"no_of_days"`
}

type bookingResp struct {
	Booking model.Booking `json:"booking"`
	Total   float64       `json:"total_price"`
}

// Create books a room for the caller. The booking starts Pending and
// waits for staff approval.
func (h *ClientReservationHandler) Create(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
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
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, bookingResp{Booking: b, Total: total})
}

// List returns the caller's own bookings, newest first within each
// status group.
func (h *ClientReservationHandler) List(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	f := service.BookingFilter{Limit: limit, Offset: offset}
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

// Cancel moves the caller's own booking to Cancelled. The lifecycle
// manager enforces both ownership and the state machine.
func (h *ClientReservationHandler) Cancel(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Reservations.ChangeStatus(ctx, ident, id, model.StatusCancelled)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
