package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harshk49/notes-app-backend/internal/auth"
	"github.com/harshk49/notes-app-backend/internal/config"
	"github.com/harshk49/notes-app-backend/internal/repository"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type createAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userSummary struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"createdOn"`
}

// CreateAccount handles POST /create-account: validate, create the user
// unless the email is taken, and return a fresh access token.
func (h *AuthHandler) CreateAccount(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" {
		return badRequest(c, "Full Name is required")
	}
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}
	if req.Password == "" {
		return badRequest(c, "Password is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			// Reference surface: duplicate registration answers 200 with the
			// error flag set, not a 4xx.
			return respond(c, http.StatusOK, true, "User Already Exists", nil)
		}
		return internalError(c)
	}

	token, err := auth.IssueToken(h.Cfg.JWTSecret, uid, req.Email)
	if err != nil {
		return internalError(c)
	}

	return respond(c, http.StatusOK, false, "Registration Successful", echo.Map{
		"user": echo.Map{
			"fullName": req.FullName,
			"email":    req.Email,
		},
		"accessToken": token.Token,
	})
}

// Login handles POST /login. Unknown email and wrong password produce the
// same response so the caller cannot tell which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}
	if req.Password == "" {
		return badRequest(c, "Password is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return badRequest(c, "Invalid email or password")
		}
		return internalError(c)
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return badRequest(c, "Invalid email or password")
	}

	token, err := auth.IssueToken(h.Cfg.JWTSecret, u.ID, u.Email)
	if err != nil {
		return internalError(c)
	}

	return respond(c, http.StatusOK, false, "Login Successful", echo.Map{
		"email":       u.Email,
		"accessToken": token.Token,
	})
}

// GetUser handles GET /get-user (protected). Tokens outlive account
// deletion, so a verified token whose subject no longer exists still ends
// up unauthorized here.
func (h *AuthHandler) GetUser(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
		}
		return internalError(c)
	}

	return respond(c, http.StatusOK, false, "", echo.Map{
		"user": userSummary{
			ID:        u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			CreatedOn: u.CreatedOn,
		},
	})
}
