package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// StaffRoomHandler serves room management. Invalidate, when set, is
// called after every successful write so the public listing cache
// never serves stale rooms.
type StaffRoomHandler struct {
	Rooms      *repository.RoomRepo
	Invalidate func(ctx context.Context)
}

func NewStaffRoomHandler(rooms *repository.RoomRepo, invalidate func(ctx context.Context)) *StaffRoomHandler {
	return &StaffRoomHandler{Rooms: rooms, Invalidate: invalidate}
}

func (h *StaffRoomHandler) invalidate(c echo.Context) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context())
	}
}

// List returns rooms with their category for the management table.
func (h *StaffRoomHandler) List(c echo.Context) error {
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

// NextID suggests the next free room number for the creation form.
func (h *StaffRoomHandler) NextID(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	next, err := h.Rooms.NextID(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"next_room_id": next})
}

type roomReq struct {
	RoomID     uint64 `json:"room_id"`
	CategoryID uint64 `json:"category_id"`
	Status     string `json:"status"`
}

// Create adds a room under an explicit room number.
func (h *StaffRoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and category_id required"})
	}
	status := model.RoomAvailable
	if req.Status != "" {
		s, ok := model.ValidRoomStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown room status"})
		}
		status = s
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	room := model.Room{ID: req.RoomID, CategoryID: req.CategoryID, Status: status}
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return serviceError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"room": room})
}

type roomUpdateReq struct {
	RoomID     *uint64 `json:"room_id"`
	CategoryID *uint64 `json:"category_id"`
	Status     *string `json:"status"`
}

// Update applies a partial update, including renumbering the room.
func (h *StaffRoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil {
		s, ok := model.ValidRoomStatus(*req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown room status"})
		}
		req.Status = &s
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Rooms.Update(ctx, id, repository.RoomUpdate{
		NewID:      req.RoomID,
		CategoryID: req.CategoryID,
		Status:     req.Status,
	})
	if err != nil {
		return serviceError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "room updated"})
}

// Delete removes a room. Rooms with bookings in a blocking status are
// refused with 409.
func (h *StaffRoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		return serviceError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}
