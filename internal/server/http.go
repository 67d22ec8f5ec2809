// Package server exposes the authentication service over HTTP.
package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"user-auth-service/internal/auth/service"
)

// AuthUsecases is the slice of the auth service the HTTP layer needs.
type AuthUsecases interface {
	Register(ctx context.Context, email, password string, meta service.RequestMeta) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string, meta service.RequestMeta) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta service.RequestMeta) (*service.AuthResult, error)
	VerifyEmail(ctx context.Context, userID, token string, meta service.RequestMeta) error
	Logout(ctx context.Context, refreshToken string, meta service.RequestMeta) error
}

// New builds the Echo instance with all routes registered.
func New(auth AuthUsecases) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.ContextTimeout(30 * time.Second))

	h := NewAuthHandler(auth)

	e.GET("/healthz", Health)
	api := e.Group("/api/auth")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/refresh", h.Refresh)
	api.POST("/verify-email", h.VerifyEmail)
	api.POST("/logout", h.Logout)

	return e
}
