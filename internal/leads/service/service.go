package service

import (
	"context"
	"errors"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/assign"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/roles"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/domain"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/scoring"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/phone"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound     = "lead not found"
	msgAlreadyConverted = "lead already converted"
	msgContactRequired  = "email or phone is required"
)

// Actor identifies who drives an operation, as established by the transport
// layer's authentication. A zero Actor marks an internal system process.
type Actor struct {
	ID    uuid.UUID
	Roles []string
}

// System returns the actor used by background processes.
func System() Actor {
	return Actor{}
}

func (a Actor) hasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// canManage reports whether the actor may drive lifecycle changes on the
// lead: the assigned staff member, a manager, or an admin. System actors
// always may.
func (a Actor) canManage(lead repository.Lead) bool {
	if a.ID == uuid.Nil {
		return true
	}
	if lead.AssignedTo != nil && *lead.AssignedTo == a.ID {
		return true
	}
	return a.hasRole(roles.Admin) || a.hasRole(roles.ProjectManager)
}

// Service is the lead lifecycle engine: intake with scoring and
// auto-assignment, the status state machine, conversion to projects and the
// audit trail around all of it.
type Service struct {
	repo     repository.LeadsRepository
	selector *assign.Selector
	scorer   *scoring.Scorer
	bus      events.Bus
	log      *logger.Logger
}

func New(repo repository.LeadsRepository, selector *assign.Selector, scorer *scoring.Scorer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, selector: selector, scorer: scorer, bus: bus, log: log}
}

// Create stores a new inquiry: sanitize, score, pick an assignee when the
// lead names a city, and persist everything as one row write. A failed
// candidate read never fails the create; the lead just stays unassigned.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	req.FirstName = sanitize.Text(req.FirstName)
	req.LastName = sanitize.Text(req.LastName)
	req.Description = sanitize.Text(req.Description)

	if req.Email == "" && req.Phone == "" {
		return transport.LeadResponse{}, apperr.Validation(msgContactRequired)
	}
	if req.Phone != "" {
		req.Phone = phone.NormalizeE164(req.Phone)
	}

	params := repository.CreateLeadParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        optional(req.Email),
		Phone:        optional(req.Phone),
		Source:       req.Source,
		City:         optional(req.City),
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		ProjectType:  optional(req.ProjectType),
		PropertyType: optional(req.PropertyType),
		Timeline:     optional(req.Timeline),
		Description:  optional(req.Description),
	}

	score, _ := s.scorer.Score(scoring.Input{
		BudgetMin:    params.BudgetMin,
		Timeline:     params.Timeline,
		ProjectType:  params.ProjectType,
		PropertyType: params.PropertyType,
		Source:       params.Source,
		Email:        params.Email,
		Phone:        params.Phone,
		Description:  params.Description,
	})
	params.Score = score

	candidate, err := s.selector.Select(ctx, params.City)
	if err != nil {
		s.log.Warn("auto-assignment skipped, candidate read failed", "error", err)
		candidate = nil
	}
	if candidate != nil {
		params.AssignedTo = &candidate.ID
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
		LeadID:    lead.ID,
		ActorType: repository.ActorTypeLead,
		ActorName: displayName(lead),
		EventType: repository.EventTypeCreated,
		Title:     repository.EventTitleLeadReceived,
		Summary:   repository.TruncateSummary(req.Description, repository.TimelineSummaryMaxLen),
		Metadata:  map[string]any{"source": lead.Source, "score": lead.Score},
	})
	if candidate != nil {
		s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
			LeadID:    lead.ID,
			ActorType: repository.ActorTypeSystem,
			ActorName: repository.ActorNameAutoAssigner,
			EventType: repository.EventTypeAssignment,
			Title:     repository.EventTitleAssigned,
			Metadata:  map[string]any{"assigneeId": candidate.ID, "openLeads": candidate.OpenCount},
		})
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		Name:       displayName(lead),
		Email:      req.Email,
		City:       req.City,
		Source:     lead.Source,
		Score:      lead.Score,
		AssigneeID: lead.AssignedTo,
	})
	if candidate != nil {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     lead.ID,
			LeadName:   displayName(lead),
			City:       lead.City,
			AssigneeID: candidate.ID,
			Auto:       true,
		})
	}

	return toLeadResponse(lead), nil
}

// Get returns one lead by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// ListQuery carries list filters and pagination from the transport layer.
type ListQuery struct {
	Status     string
	City       string
	Source     string
	AssignedTo *uuid.UUID
	MinScore   *int
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// List returns a filtered, paginated lead page, newest first by default.
func (s *Service) List(ctx context.Context, query ListQuery) (transport.LeadListResponse, error) {
	if query.Status != "" && !domain.IsKnownStatus(query.Status) {
		return transport.LeadListResponse{}, apperr.Validation("unknown status filter")
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := clampPageSize(query.PageSize)

	params := repository.ListParams{
		Status:     optional(query.Status),
		City:       optional(query.City),
		Source:     optional(query.Source),
		AssignedTo: query.AssignedTo,
		MinScore:   query.MinScore,
		Search:     query.Search,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead)
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Update edits contact and qualification details. Editing never recomputes
// the score; rescoring is an explicit operation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor Actor, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}
	if !actor.canManage(lead) {
		return transport.LeadResponse{}, apperr.Forbidden("not allowed to manage this lead")
	}
	if domain.IsTerminalStatus(lead.Status) {
		return transport.LeadResponse{}, apperr.Conflict("lead is closed and can no longer be edited")
	}

	if req.Phone != nil && *req.Phone != "" {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}

	updated, err := s.repo.Update(ctx, id, repository.UpdateLeadParams{
		FirstName:    sanitize.TextPtr(req.FirstName),
		LastName:     sanitize.TextPtr(req.LastName),
		Email:        req.Email,
		Phone:        req.Phone,
		City:         req.City,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		ProjectType:  req.ProjectType,
		PropertyType: req.PropertyType,
		Timeline:     req.Timeline,
		Description:  sanitize.TextPtr(req.Description),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}

	s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
		LeadID:    updated.ID,
		ActorType: repository.ActorTypeUser,
		ActorName: actor.ID.String(),
		EventType: repository.EventTypeDetailUpdate,
		Title:     repository.EventTitleDetailsUpdated,
	})

	return toLeadResponse(updated), nil
}

// Timeline returns the lead's audit trail, newest first.
func (s *Service) Timeline(ctx context.Context, id uuid.UUID) ([]transport.TimelineEntryResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgLeadNotFound)
		}
		return nil, err
	}

	entries, err := s.repo.ListTimeline(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]transport.TimelineEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = transport.TimelineEntryResponse{
			ID:        entry.ID,
			ActorType: entry.ActorType,
			ActorName: entry.ActorName,
			EventType: entry.EventType,
			Title:     entry.Title,
			Summary:   entry.Summary,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		}
	}
	return out, nil
}

// recordTimeline appends an audit entry. Best-effort: a failed audit write
// is logged and never fails the operation that produced it.
func (s *Service) recordTimeline(ctx context.Context, params repository.CreateTimelineEntryParams) {
	if _, err := s.repo.CreateTimelineEntry(ctx, params); err != nil {
		s.log.Error("timeline write failed", "leadId", params.LeadID, "eventType", params.EventType, "error", err)
	}
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:           lead.ID,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Source:       lead.Source,
		City:         lead.City,
		BudgetMin:    lead.BudgetMin,
		BudgetMax:    lead.BudgetMax,
		ProjectType:  lead.ProjectType,
		PropertyType: lead.PropertyType,
		Timeline:     lead.Timeline,
		Description:  lead.Description,
		Score:        lead.Score,
		Status:       lead.Status,
		AssignedTo:   lead.AssignedTo,
		ProjectID:    lead.ProjectID,
		LostReason:   lead.LostReason,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}

func displayName(lead repository.Lead) string {
	if lead.LastName == "" {
		return lead.FirstName
	}
	return lead.FirstName + " " + lead.LastName
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 50
	}
	return size
}
