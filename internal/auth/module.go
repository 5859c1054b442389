// Package auth provides the authentication bounded context module.
package auth

import (
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/handler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/service"
	authvalidator "github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/validator"
	apphttp "github.com/BollineniRohith123/GharintoLeap-sub004/internal/http"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the auth module and registers its validation rules.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{handler: handler.New(svc, val)}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes. Login and refresh sit behind the
// stricter per-IP limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/users/me", m.handler.GetMe)

	ctx.Admin.POST("/users", m.handler.CreateUser)
	ctx.Admin.PATCH("/users/:id/active", m.handler.SetUserActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
