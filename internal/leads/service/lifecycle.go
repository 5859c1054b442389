package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/domain"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/scoring"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/sanitize"

	"github.com/google/uuid"
)

// Transition moves a lead through the lifecycle state machine. converted is
// never reachable here; the conversion flow owns that status.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actor Actor, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
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

	to := req.Status
	reason := sanitize.Text(req.Reason)

	if !domain.IsKnownStatus(to) {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown status %q", to))
	}
	if to == domain.StatusConverted {
		return transport.LeadResponse{}, apperr.Validation("leads become converted through the conversion flow, not a status update")
	}
	if domain.IsTerminalStatus(lead.Status) {
		return transport.LeadResponse{}, apperr.Conflict(fmt.Sprintf("lead is %s; no further transitions are allowed", lead.Status))
	}
	if domain.RequiresLostReason(to) && reason == "" {
		return transport.LeadResponse{}, apperr.Validation("a reason is required when marking a lead lost")
	}
	if !domain.CanTransition(lead.Status, to) {
		return transport.LeadResponse{}, apperr.Conflict(fmt.Sprintf("cannot move lead from %s to %s", lead.Status, to))
	}

	var reasonPtr *string
	if domain.RequiresLostReason(to) {
		reasonPtr = &reason
	}

	updated, err := s.repo.UpdateStatus(ctx, id, lead.Status, to, reasonPtr)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		case errors.Is(err, repository.ErrStatusMoved):
			return transport.LeadResponse{}, apperr.Conflict("lead status changed concurrently; re-fetch and retry")
		default:
			return transport.LeadResponse{}, err
		}
	}

	title := repository.EventTitleStatusUpdated
	if to == domain.StatusLost {
		title = repository.EventTitleLeadLost
	}
	s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
		LeadID:    updated.ID,
		ActorType: repository.ActorTypeUser,
		ActorName: actor.ID.String(),
		EventType: repository.EventTypeStatusChange,
		Title:     title,
		Summary:   repository.TruncateSummary(reason, repository.TimelineSummaryMaxLen),
		Metadata:  map[string]any{"from": lead.Status, "to": to},
	})

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    updated.ID,
		OldStatus: lead.Status,
		NewStatus: to,
		Reason:    reason,
		ActorID:   actorIDPtr(actor),
	})

	return toLeadResponse(updated), nil
}

// Assign binds a lead to a staff member. Without an explicit assignee the
// workload selector picks one; an explicit null clears the assignment. A
// selector skip (no city, nobody eligible) leaves the lead untouched and is
// not an error.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, actor Actor, req transport.AssignLeadRequest) (transport.LeadResponse, error) {
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
		return transport.LeadResponse{}, apperr.Conflict(fmt.Sprintf("lead is %s and can no longer be assigned", lead.Status))
	}

	var assigneeID *uuid.UUID
	auto := false
	switch {
	case !req.AssigneeID.Set:
		candidate, err := s.selector.Select(ctx, lead.City)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if candidate == nil {
			return toLeadResponse(lead), nil
		}
		assigneeID = &candidate.ID
		auto = true
	default:
		assigneeID = req.AssigneeID.Value
	}

	updated, err := s.repo.UpdateAssignment(ctx, id, assigneeID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		case errors.Is(err, repository.ErrAssigneeInvalid):
			return transport.LeadResponse{}, apperr.Validation("assignee does not exist")
		default:
			return transport.LeadResponse{}, err
		}
	}

	actorType := repository.ActorTypeUser
	actorName := actor.ID.String()
	if auto {
		actorType = repository.ActorTypeSystem
		actorName = repository.ActorNameAutoAssigner
	}
	title := repository.EventTitleAssigned
	if assigneeID == nil {
		title = repository.EventTitleUnassigned
	}
	s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
		LeadID:    updated.ID,
		ActorType: actorType,
		ActorName: actorName,
		EventType: repository.EventTypeAssignment,
		Title:     title,
		Metadata:  assignmentMetadata(assigneeID, lead.AssignedTo, auto),
	})

	if assigneeID != nil {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:        events.NewBaseEvent(),
			LeadID:           updated.ID,
			LeadName:         displayName(updated),
			City:             updated.City,
			AssigneeID:       *assigneeID,
			PreviousAssignee: lead.AssignedTo,
			AssignedByID:     actorIDPtr(actor),
			Auto:             auto,
		})
	}

	return toLeadResponse(updated), nil
}

// Convert turns a qualified lead into a project. The store runs the whole
// operation in one transaction, so two concurrent attempts on the same lead
// end with exactly one project and one conflict.
func (s *Service) Convert(ctx context.Context, id uuid.UUID, actor Actor, req transport.ConvertLeadRequest) (transport.ConversionResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ConversionResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.ConversionResponse{}, err
	}
	if !actor.canManage(lead) {
		return transport.ConversionResponse{}, apperr.Forbidden("not allowed to manage this lead")
	}

	title := sanitize.Text(req.Title)
	if title == "" {
		return transport.ConversionResponse{}, apperr.Validation("project title is required")
	}

	result, err := s.repo.Convert(ctx, repository.ConvertParams{
		LeadID:      id,
		Title:       title,
		Description: sanitize.TextPtr(optional(req.Description)),
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AssigneeID:  lead.AssignedTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.ConversionResponse{}, apperr.NotFound(msgLeadNotFound)
		case errors.Is(err, repository.ErrAlreadyConverted):
			return transport.ConversionResponse{}, apperr.Conflict(msgAlreadyConverted)
		case errors.Is(err, repository.ErrNotConvertible):
			return transport.ConversionResponse{}, apperr.Conflict(fmt.Sprintf("only %s leads can be converted; this lead is %s", strings.Join(convertibleList(), " or "), lead.Status))
		default:
			return transport.ConversionResponse{}, err
		}
	}

	s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
		LeadID:    result.Lead.ID,
		ActorType: repository.ActorTypeUser,
		ActorName: actor.ID.String(),
		EventType: repository.EventTypeConversion,
		Title:     repository.EventTitleConverted,
		Summary:   repository.TruncateSummary(title, repository.TimelineSummaryMaxLen),
		Metadata:  map[string]any{"projectId": result.ProjectID, "title": title},
	})

	s.bus.Publish(ctx, events.LeadConverted{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        result.Lead.ID,
		ProjectID:     result.ProjectID,
		ProjectTitle:  title,
		AssigneeID:    result.Lead.AssignedTo,
		ConvertedByID: actorIDPtr(actor),
	})

	return transport.ConversionResponse{Lead: toLeadResponse(result.Lead), ProjectID: result.ProjectID}, nil
}

// Rescore recomputes the score from current qualification attributes and
// persists it. Scores are otherwise computed once at intake.
func (s *Service) Rescore(ctx context.Context, id uuid.UUID, actor Actor) (transport.RescoreResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.RescoreResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.RescoreResponse{}, err
	}
	if domain.IsTerminalStatus(lead.Status) {
		return transport.RescoreResponse{}, apperr.Conflict(fmt.Sprintf("lead is %s; the score is frozen", lead.Status))
	}

	score, factors := s.scorer.Score(scoring.Input{
		BudgetMin:    lead.BudgetMin,
		Timeline:     lead.Timeline,
		ProjectType:  lead.ProjectType,
		PropertyType: lead.PropertyType,
		Source:       lead.Source,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Description:  lead.Description,
	})

	updated, err := s.repo.SetScore(ctx, id, score)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.RescoreResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.RescoreResponse{}, err
	}

	actorType := repository.ActorTypeUser
	actorName := actor.ID.String()
	if actor.ID == uuid.Nil {
		actorType = repository.ActorTypeSystem
		actorName = repository.ActorNameRescorer
	}
	s.recordTimeline(ctx, repository.CreateTimelineEntryParams{
		LeadID:    updated.ID,
		ActorType: actorType,
		ActorName: actorName,
		EventType: repository.EventTypeScoreUpdate,
		Title:     repository.EventTitleScoreUpdated,
		Metadata:  map[string]any{"oldScore": lead.Score, "newScore": score, "factors": factors},
	})

	return transport.RescoreResponse{Lead: toLeadResponse(updated), Factors: factors}, nil
}

func actorIDPtr(actor Actor) *uuid.UUID {
	if actor.ID == uuid.Nil {
		return nil
	}
	id := actor.ID
	return &id
}

func assignmentMetadata(assigneeID, previous *uuid.UUID, auto bool) map[string]any {
	meta := map[string]any{"auto": auto}
	if assigneeID != nil {
		meta["assigneeId"] = *assigneeID
	}
	if previous != nil {
		meta["previousAssignee"] = *previous
	}
	return meta
}

func convertibleList() []string {
	return []string{domain.StatusQualified}
}
