package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// StaffCategoryHandler serves room category management.
type StaffCategoryHandler struct {
	Categories *repository.CategoryRepo
	Invalidate func(ctx context.Context)
}

func NewStaffCategoryHandler(categories *repository.CategoryRepo, invalidate func(ctx context.Context)) *StaffCategoryHandler {
	return &StaffCategoryHandler{Categories: categories, Invalidate: invalidate}
}

func (h *StaffCategoryHandler) invalidate(c echo.Context) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context())
	}
}

// List returns categories for the management table.
func (h *StaffCategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	cats, total, err := h.Categories.List(ctx, c.QueryParam("search"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: cats, Total: total})
}

// Get returns one category.
func (h *StaffCategoryHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"category": cat})
}

type categoryReq struct {
	Name        string  `json:"category_name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	Bed         string  `json:"bed"`
	Services    string  `json:"services"`
	Image       string  `json:"image"`
}

// Create adds a category. Names are unique.
func (h *StaffCategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_name required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := model.RoomCategory{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Bed:         req.Bed,
		Services:    req.Services,
		Image:       req.Image,
	}
	id, err := h.Categories.Create(ctx, &cat)
	if err != nil {
		return serviceError(c, err)
	}
	cat.ID = id
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"category": cat})
}

type categoryUpdateReq struct {
	Name        *string  `json:"category_name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
	Bed         *string  `json:"bed"`
	Services    *string  `json:"services"`
	Image       *string  `json:"image"`
}

// Update applies a partial update. Price changes affect future
// bookings only; stored totals are derived at read time from nights
// and the current rate.
func (h *StaffCategoryHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req categoryUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Categories.Update(ctx, id, repository.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Bed:         req.Bed,
		Services:    req.Services,
		Image:       req.Image,
	})
	if err != nil {
		return serviceError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "category updated"})
}

// Delete removes a category. Categories still referenced by rooms are
// refused with 409.
func (h *StaffCategoryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		return serviceError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
