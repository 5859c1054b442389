// Package leads provides the lead lifecycle bounded context: intake,
// scoring, assignment, status transitions and conversion to a project.
package leads

import (
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/assign"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	apphttp "github.com/BollineniRohith123/GharintoLeap-sub004/internal/http"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/handler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/scoring"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/service"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the leads module. The staff source is owned by the team
// module; it is injected so assignment can rank designers by open workload
// without this package reaching into another context's tables.
func NewModule(pool *pgxpool.Pool, staff assign.Source, eventBus events.Bus, val *validator.Validator, cfg config.ScoringConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	table, err := scoring.LoadTable(cfg.GetScoringWeightsPath())
	if err != nil {
		return nil, err
	}

	svc := service.New(repo, assign.NewSelector(staff), scoring.NewScorer(table), eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for CLI tools and other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes. Intake is public so customer-facing
// sites can post inquiries; everything else requires a session, and rescoring
// is admin-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/leads"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
