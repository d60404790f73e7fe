// Package handler contains the HTTP endpoints. Handlers bind and
// validate request bodies, call into the service layer, and translate
// the service error taxonomy into HTTP status codes. No SQL lives
// here.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// reqTimeout bounds every database round trip issued from a handler.
const reqTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), reqTimeout)
}

// identity pulls the authenticated identity placed by the session
// middleware. Routes reaching a handler without one are miswired, so
// this fails closed with 401 rather than panicking.
func identity(c echo.Context) (service.Identity, error) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return service.Identity{}, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	return ident, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// pageParams reads page/limit query parameters with sane bounds.
func pageParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// parseDate accepts the YYYY-MM-DD wire format used for check-in and
// check-out dates.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// listEnvelope is the standard shape of paginated collection
// responses.
type listEnvelope struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

// serviceError maps the service and repository error taxonomy onto
// HTTP responses. Unknown errors become opaque 500s; their detail goes
// to the log, not the client.
func serviceError(c echo.Context, err error) error {
	var fb *service.ForbiddenError
	var nf *service.NotFoundError
	var iv *service.InvalidIntervalError
	var su *service.SlotUnavailableError
	var it *service.InvalidTransitionError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	case errors.As(err, &fb):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "capability": string(fb.Capability)})
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Resource + " not found"})
	case errors.As(err, &iv):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid input", "fields": iv.Fields})
	case errors.As(err, &su):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "room not available for the selected dates",
			"room_id":  su.RoomID,
			"blocking": su.Blocking,
		})
	case errors.As(err, &it):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "invalid status transition",
			"from":  string(it.From),
			"to":    string(it.To),
		})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting records exist"})
	case errors.Is(err, repository.ErrLastAdmin):
		return c.JSON(http.StatusConflict, echo.Map{"error": "at least one admin must remain"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	case errors.Is(err, repository.ErrRoomExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room id already exists"})
	case errors.Is(err, repository.ErrCategoryExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
	}

	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
