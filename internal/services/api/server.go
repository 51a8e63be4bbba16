package api

import (
	"amiigo/internal/services/api/handlers"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

type Server struct {
	addr     string
	prefix   string
	engine   *echo.Echo
	handlers handlers.ServerHandler
}

// NewServer wires handlers onto engine. Versioned routes live under prefix,
// e.g. "/api/v1".
func NewServer(addr string, prefix string, engine *echo.Echo, handlers handlers.ServerHandler) *Server {
	svc := &Server{
		addr:     addr,
		prefix:   strings.TrimSuffix(prefix, "/"),
		engine:   engine,
		handlers: handlers,
	}
	svc.routes()
	return svc
}

func (svc *Server) routes() {
	h := svc.handlers

	svc.engine.GET("/", h.Root)
	svc.engine.GET("/health", h.CheckHealth)
	svc.engine.GET("/ready", h.Ready)
	svc.engine.GET("/metrics", echoprometheus.NewHandler())

	v1 := svc.engine.Group(svc.prefix)

	v1.POST("/login/access-token", h.Login)
	v1.POST("/login/test-token", h.TestToken, h.Authenticate, h.RequireActive)
	v1.POST("/login/logout", h.Logout, h.Authenticate, h.RequireActive)

	v1.POST("/users", h.CreateUser)
	v1.POST("/users/", h.CreateUser)

	me := v1.Group("/users/me", h.Authenticate, h.RequireActive)
	me.GET("", h.ReadUserMe)
	me.PUT("", h.UpdateUserMe)
	me.DELETE("", h.DeleteUserMe)
	me.GET("/profile", h.ReadProfileMe)
	me.PUT("/profile", h.UpdateProfileMe)

	v1.GET("/users/:user_id/profile", h.ReadUserProfile, h.Authenticate, h.RequireActive, h.RequireVerified)
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (svc *Server) Run() error {
	if err := svc.engine.Start(svc.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
