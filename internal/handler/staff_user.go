package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// StaffUserHandler serves account management. The clients listing is
// open to Incharge for the walk-in flow; everything else is routed
// Admin-only.
type StaffUserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewStaffUserHandler(users *repository.UserRepo, bcryptCost int) *StaffUserHandler {
	return &StaffUserHandler{Users: users, BcryptCost: bcryptCost}
}

// Clients lists Client accounts, searchable by name, username or
// email. Used by the front desk to pick the guest for a walk-in.
func (h *StaffUserHandler) Clients(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	users, total, err := h.Users.List(ctx, repository.UserFilter{
		UserType: "Client",
		Search:   c.QueryParam("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: users, Total: total})
}

// List returns all accounts regardless of role.
func (h *StaffUserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, offset := pageParams(c)
	users, total, err := h.Users.List(ctx, repository.UserFilter{
		UserType: c.QueryParam("role"),
		Search:   c.QueryParam("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listEnvelope{Data: users, Total: total})
}

type staffUserReq struct {
	registerReq
	Role string `json:"role"`
}

// Create adds an account with an explicit role, the admin path for
// provisioning staff.
func (h *StaffUserHandler) Create(c echo.Context) error {
	var req staffUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Password == "" || req.Username == "" || req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fname/username/email/password required"})
	}
	role := req.Role
	if role == "" {
		role = "Client"
	}
	if _, ok := service.ParseRole(role); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := model.User{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Username:   req.Username,
		Email:      req.Email,
		Password:   hash,
		UserType:   role,
		Contact:    req.Contact,
		Gender:     req.Gender,
	}
	uid, err := h.Users.Create(ctx, &u)
	if err != nil {
		return serviceError(c, err)
	}
	u.ID = uid
	u.Password = ""
	return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

type staffUserUpdateReq struct {
	profileUpdateReq
	Role *string `json:"role"`
}

// Update applies a partial update to any account, including the role.
// Demoting the last Admin is refused with 409.
func (h *StaffUserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req staffUserUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != nil {
		if _, ok := service.ParseRole(*req.Role); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Users.Update(ctx, id, repository.UserUpdate{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Username:   req.Username,
		Email:      req.Email,
		UserType:   req.Role,
		Contact:    req.Contact,
		Gender:     req.Gender,
		Image:      req.Image,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

// Delete removes an account and its sessions. Deleting the last Admin
// is refused with 409. Admins cannot delete themselves by the same
// rule once they are the only Admin left.
func (h *StaffUserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
