package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/advice-forum/internal/repository"
	"github.com/iliyamo/advice-forum/internal/utils"
)

// AuthHandler bundles dependencies for the account and session endpoints.
//
// Success responses carry the bare session token (or username) as a JSON
// string; failures carry JSON null with the status code doing the talking.
// The browser client decodes both as Option<String>.
type AuthHandler struct {
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
}

func NewAuthHandler(u *repository.UserRepo, s *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{Users: u, Sessions: s}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAccount registers a user and returns a fresh session token.
func (h *AuthHandler) CreateAccount(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, nil)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Create(ctx, req.Username, req.Password); err != nil {
		if err == repository.ErrUsernameTaken {
			return c.JSON(http.StatusConflict, nil)
		}
		return c.JSON(http.StatusInternalServerError, nil)
	}
	return h.issueSession(c, ctx, req.Username)
}

// Login verifies credentials and returns a fresh session token, replacing
// any previous one for the user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, nil)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, nil)
		}
		return c.JSON(http.StatusInternalServerError, nil)
	}
	if !utils.VerifyPassword(u.HashedPassword, req.Password) {
		return c.JSON(http.StatusUnauthorized, nil)
	}
	return h.issueSession(c, ctx, u.Username)
}

// issueSession mints an opaque token, stores it as the user's only live
// session and writes the 200 response.
func (h *AuthHandler) issueSession(c echo.Context, ctx context.Context, username string) error {
	token, err := utils.NewSessionToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, nil)
	}
	if err := h.Sessions.Replace(ctx, username, token); err != nil {
		return c.JSON(http.StatusInternalServerError, nil)
	}
	return c.JSON(http.StatusOK, token)
}

// ValidateSession resolves the bearer token to its username. Read-only and
// idempotent; the client polls it to refresh the signed-in banner.
func (h *AuthHandler) ValidateSession(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Sessions.Verify(ctx, strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, nil)
	}
	return c.JSON(http.StatusOK, s.Username)
}
