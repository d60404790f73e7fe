package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users      *repository.UserRepo
	Sessions   *service.Sessions
	BcryptCost int
}

func NewAuthHandler(users *repository.UserRepo, sessions *service.Sessions, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type registerReq struct {
	FirstName  string `json:"fname"`
	MiddleName string `json:"mname"`
	LastName   string `json:"lname"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Contact    string `json:"contact"`
	Gender     string `json:"gender"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

func userToPart(u model.User) userPart {
	return userPart{
		ID: u.ID, FirstName: u.FirstName, LastName: u.LastName,
		Username: u.Username, Email: u.Email, Role: u.UserType,
	}
}

// Register creates a Client account and signs it in immediately.
// Public registration never accepts a role; staff accounts come from
// the admin user management endpoints.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Password == "" || req.Username == "" || req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fname/username/email/password required"})
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
		UserType:   "Client",
		Contact:    req.Contact,
		Gender:     req.Gender,
	}
	uid, err := h.Users.Create(ctx, &u)
	if err != nil {
		return serviceError(c, err)
	}
	u.ID = uid

	token, exp, err := h.Sessions.Issue(ctx, u)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, authResp{User: userToPart(u), Token: token, Expires: exp})
}

// Login verifies the password and issues a fresh session, replacing
// any previous one for the user. Legacy password hashes that still
// verify are upgraded to bcrypt in the background of the same request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return serviceError(c, err)
	}

	ok, needsUpgrade := utils.VerifyPassword(u.Password, req.Password)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if needsUpgrade {
		if hash, err := utils.HashPassword(req.Password, h.BcryptCost); err == nil {
			if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
				c.Logger().Warnf("password upgrade failed for user %d: %v", u.ID, err)
			}
		}
	}

	token, exp, err := h.Sessions.Issue(ctx, u)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, authResp{User: userToPart(u), Token: token, Expires: exp})
}

// Logout revokes the presented session. Always succeeds for an
// authenticated caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, _ := c.Get(middleware.CredentialKey).(string)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Revoke(ctx, raw); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Verify echoes the identity bound to the presented session, letting
// clients validate a stored token on startup.
func (h *AuthHandler) Verify(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"user": userToPart(u)})
}
