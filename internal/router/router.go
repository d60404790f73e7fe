// Package router registers HTTP routes and binds them to middleware
// groups. The surface splits four ways: open endpoints (health, auth,
// public browsing), the authenticated client group, the staff group
// shared by Admin and Incharge, and the Admin-only management group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Public   *handler.PublicHandler
	Client   *handler.ClientReservationHandler
	Booking  *handler.StaffBookingHandler
	Room     *handler.StaffRoomHandler
	Category *handler.StaffCategoryHandler
	User     *handler.StaffUserHandler
}

// Register wires all routes. sessions drives the auth middleware;
// cache, when non-nil, wraps only the public browsing routes.
func Register(e *echo.Echo, h Handlers, sessions *service.Sessions, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Open auth operations.
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	// Session-bound auth operations.
	sessionAuth := middleware.SessionAuth(sessions)
	authed := e.Group("/api/auth", sessionAuth)
	authed.POST("/logout", h.Auth.Logout)
	authed.GET("/verify", h.Auth.Verify)

	// Public browsing, cached when Redis is up. Availability stays
	// uncached: its answer changes with every booking commit, and only
	// room and category writes invalidate the cache.
	e.GET("/api/pages/availability", h.Public.Availability)
	pages := e.Group("/api/pages")
	if cache != nil {
		pages.Use(cache)
	}
	pages.GET("/room-types", h.Public.RoomTypes)
	pages.GET("/rooms", h.Public.RoomList)
	pages.GET("/rooms/:id", h.Public.RoomDetails)

	// Authenticated client surface. Any role may hold bookings; staff
	// booking for themselves go through the same flow.
	me := e.Group("/api", sessionAuth)
	me.GET("/profile", h.Profile.Get)
	me.PUT("/profile", h.Profile.Update)
	me.PUT("/profile/password", h.Profile.UpdatePassword)
	me.GET("/reservations", h.Client.List)
	me.POST("/reservations", h.Client.Create)
	me.PUT("/reservations/:id/cancel", h.Client.Cancel)

	// Staff surface: Admin and Incharge.
	staff := e.Group("/api/admin", sessionAuth, middleware.RequireStaff())
	staff.GET("/dashboard", h.Booking.Dashboard)
	staff.GET("/bookings", h.Booking.List)
	staff.POST("/bookings", h.Booking.Create)
	staff.PUT("/bookings/:id/status", h.Booking.UpdateStatus)
	staff.GET("/clients", h.User.Clients)
	staff.GET("/room-types", h.Category.List)
	staff.GET("/room-types/:id", h.Category.Get)
	staff.GET("/rooms", h.Room.List)
	staff.GET("/rooms/next-id", h.Room.NextID)

	// Admin-only management.
	admin := e.Group("/api/admin", sessionAuth, middleware.RequireRole(service.RoleAdmin))
	admin.POST("/rooms", h.Room.Create)
	admin.PUT("/rooms/:id", h.Room.Update)
	admin.DELETE("/rooms/:id", h.Room.Delete)
	admin.POST("/room-types", h.Category.Create)
	admin.PUT("/room-types/:id", h.Category.Update)
	admin.DELETE("/room-types/:id", h.Category.Delete)
	admin.GET("/users", h.User.List)
	admin.POST("/users", h.User.Create)
	admin.PUT("/users/:id", h.User.Update)
	admin.DELETE("/users/:id", h.User.Delete)
}
