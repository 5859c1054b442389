// Package service exposes the read side of projects. Projects are born
// inside the lead conversion transaction; everything here is lookups.
package service

import (
	"context"
	"errors"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type ListQuery struct {
	Status     string
	AssignedTo *uuid.UUID
	Page       int
	PageSize   int
}

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.ProjectResponse, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ProjectResponse{}, apperr.NotFound("project not found")
		}
		return transport.ProjectResponse{}, err
	}
	return toProjectResponse(project), nil
}

func (s *Service) List(ctx context.Context, query ListQuery) (transport.ProjectListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := repository.ListParams{
		AssignedTo: query.AssignedTo,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if query.Status != "" {
		params.Status = &query.Status
	}

	projects, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ProjectListResponse{}, err
	}

	items := make([]transport.ProjectResponse, len(projects))
	for i, project := range projects {
		items[i] = toProjectResponse(project)
	}

	return transport.ProjectListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func toProjectResponse(p repository.Project) transport.ProjectResponse {
	return transport.ProjectResponse{
		ID:                 p.ID,
		LeadID:             p.LeadID,
		Title:              p.Title,
		Description:        p.Description,
		Budget:             p.Budget,
		Status:             p.Status,
		Priority:           p.Priority,
		ProgressPercentage: p.ProgressPercentage,
		AssignedTo:         p.AssignedTo,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
