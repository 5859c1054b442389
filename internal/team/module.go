// Package team provides the designer roster bounded context. It owns the
// workload view over users and leads that drives auto-assignment.
package team

import (
	apphttp "github.com/BollineniRohith123/GharintoLeap-sub004/internal/http"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team/handler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the team bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the team module.
func NewModule(pool *pgxpool.Pool) *Module {
	svc := service.New(repository.New(pool))
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "team"
}

// Service returns the team service; the leads module uses it as the
// assignment candidate source.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts team routes under the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/team"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
