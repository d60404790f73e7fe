package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// PublicHandler serves the unauthenticated browsing endpoints: room
// categories, the room list and per-room details with availability.
// The browsing routes sit behind the Redis response cache; the
// availability check does not, so it always reflects committed
// bookings.
type PublicHandler struct {
	Rooms        *repository.RoomRepo
	Categories   *repository.CategoryRepo
	Reservations *service.Reservations
}

func NewPublicHandler(rooms *repository.RoomRepo, categories *repository.CategoryRepo, reservations *service.Reservations) *PublicHandler {
	return &PublicHandler{Rooms: rooms, Categories: categories, Reservations: reservations}
}

// RoomTypes lists the room categories with prices.
func (h *PublicHandler) RoomTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	cats, total, err := h.Categories.List(ctx, c.QueryParam("search"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: cats, Total: total})
}

// Rooms lists rooms joined with their category. Supports filtering by
// category and status plus free-text search.
func (h *PublicHandler) RoomList(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	catID, _ := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
	rooms, total, err := h.Rooms.List(ctx, repository.RoomFilter{
		CategoryID: catID,
		Status:     c.QueryParam("status"),
		Search:     c.QueryParam("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: rooms, Total: total})
}

// RoomDetails returns one room with its category fields.
func (h *PublicHandler) RoomDetails(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	cat, err := h.Categories.GetByID(ctx, room.CategoryID)
	if err != nil {
		// A room whose category was removed still renders, with the
		// category block absent.
		return c.JSON(http.StatusOK, echo.Map{"room": room})
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room, "category": cat})
}

// Availability reports whether a room is free for [check_in,
// check_out), including the blocking intervals when it is not. This is
// a courtesy pre-check; creation re-verifies inside its transaction.
func (h *PublicHandler) Availability(c echo.Context) error {
	roomID, _ := strconv.ParseUint(c.QueryParam("room_id"), 10, 64)
	checkIn, inOK := parseDate(c.QueryParam("check_in"))
	checkOut, outOK := parseDate(c.QueryParam("check_out"))
	if roomID == 0 || !inOK || !outOK {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, check_in and check_out required (YYYY-MM-DD)"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	available, blocking, err := h.Reservations.CheckAvailability(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   roomID,
		"available": available,
		"blocking":  blocking,
	})
}
