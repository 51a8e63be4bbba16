package handlers

import (
	"amiigo/internal/security"
	"amiigo/internal/services/api/store"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type ServerHandler interface {
	Root(echo.Context) error
	CheckHealth(echo.Context) error
	Ready(echo.Context) error

	// Login
	Login(echo.Context) error
	TestToken(echo.Context) error
	Logout(echo.Context) error

	// Users
	CreateUser(echo.Context) error
	ReadUserMe(echo.Context) error
	UpdateUserMe(echo.Context) error
	DeleteUserMe(echo.Context) error

	// Profiles
	ReadProfileMe(echo.Context) error
	UpdateProfileMe(echo.Context) error
	ReadUserProfile(echo.Context) error

	// Middleware
	Authenticate(echo.HandlerFunc) echo.HandlerFunc
	RequireActive(echo.HandlerFunc) echo.HandlerFunc
	RequireVerified(echo.HandlerFunc) echo.HandlerFunc
}

type ServerHandle struct {
	Store   store.Store
	Tokens  store.TokenStore
	Issuer  *security.TokenIssuer
	Metrics *PromMetrics
	Logger  *zerolog.Logger
}

func (h *ServerHandle) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Amiigo API!"})
}

func (h *ServerHandle) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *ServerHandle) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Logger.Err(err).Msg("database is not reachable")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
