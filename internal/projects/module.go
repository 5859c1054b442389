// Package projects exposes delivery projects opened from converted leads.
package projects

import (
	apphttp "github.com/BollineniRohith123/GharintoLeap-sub004/internal/http"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/handler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "projects" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/projects"))
}

var _ apphttp.Module = (*Module)(nil)
