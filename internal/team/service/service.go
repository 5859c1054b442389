// Package service exposes designer rosters and feeds the assignment
// selector with live workload data.
package service

import (
	"context"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/assign"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team/transport"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// CandidatesByRegion satisfies the assignment selector's Source. Every call
// hits the database so the selector always ranks on current open counts.
func (s *Service) CandidatesByRegion(ctx context.Context, region string) ([]assign.Candidate, error) {
	workloads, err := s.repo.DesignerWorkloadsByRegion(ctx, region)
	if err != nil {
		return nil, err
	}

	candidates := make([]assign.Candidate, len(workloads))
	for i, w := range workloads {
		candidates[i] = assign.Candidate{
			ID:        w.ID,
			FullName:  w.FullName,
			Email:     w.Email,
			OpenCount: w.OpenLeads,
			CreatedAt: w.CreatedAt,
		}
	}
	return candidates, nil
}

// ListDesigners returns all active designers with their open caseloads.
func (s *Service) ListDesigners(ctx context.Context) (transport.DesignerListResponse, error) {
	workloads, err := s.repo.ListDesignerWorkloads(ctx)
	if err != nil {
		return transport.DesignerListResponse{}, err
	}

	items := make([]transport.DesignerResponse, len(workloads))
	for i, w := range workloads {
		items[i] = transport.DesignerResponse{
			ID:        w.ID,
			FullName:  w.FullName,
			Email:     w.Email,
			Regions:   w.Regions,
			OpenLeads: w.OpenLeads,
			CreatedAt: w.CreatedAt,
		}
	}

	return transport.DesignerListResponse{Items: items, Total: len(items)}, nil
}

// Compile-time check that Service feeds the assignment selector.
var _ assign.Source = (*Service)(nil)
