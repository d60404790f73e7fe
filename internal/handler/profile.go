package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// ProfileHandler serves the authenticated user's own record.
type ProfileHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewProfileHandler(users *repository.UserRepo, bcryptCost int) *ProfileHandler {
	return &ProfileHandler{Users: users, BcryptCost: bcryptCost}
}

type profileResp struct {
	ID         uint64 `json:"id"`
	FirstName  string `json:"fname"`
	MiddleName string `json:"mname"`
	LastName   string `json:"lname"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Contact    string `json:"contact"`
	Gender     string `json:"gender"`
	Image      string `json:"image"`
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: u.ID, FirstName: u.FirstName, MiddleName: u.MiddleName,
		LastName: u.LastName, Username: u.Username, Email: u.Email,
		Role: u.UserType, Contact: u.Contact, Gender: u.Gender, Image: u.Image,
	})
}

type profileUpdateReq struct {
	FirstName  *string `json:"fname"`
	MiddleName *string `json:"mname"`
	LastName   *string `json:"lname"`
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	Contact    *string `json:"contact"`
	Gender     *string `json:"gender"`
	Image      *string `json:"image"`
}

// Update applies a partial update to the caller's own profile. The
// role field is deliberately absent; self-service promotion is not a
// thing.
func (h *ProfileHandler) Update(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Users.Update(ctx, ident.UserID, repository.UserUpdate{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Username:   req.Username,
		Email:      req.Email,
		Contact:    req.Contact,
		Gender:     req.Gender,
		Image:      req.Image,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

type passwordUpdateReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword verifies the current password before storing the new
// bcrypt hash.
func (h *ProfileHandler) UpdatePassword(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	var req passwordUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	if ok, _ := utils.VerifyPassword(u.Password, req.CurrentPassword); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, ident.UserID, hash); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
