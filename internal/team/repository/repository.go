package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/roles"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DesignerWorkload is a designer together with a live count of the leads
// currently open under their name.
type DesignerWorkload struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Regions   []string
	OpenLeads int
	CreatedAt time.Time
}

// DesignerWorkloadsByRegion returns the active designers covering a region
// with their open lead counts. Counts are computed at read time so
// back-to-back assignment decisions observe each other's writes.
func (r *Repository) DesignerWorkloadsByRegion(ctx context.Context, region string) ([]DesignerWorkload, error) {
	query := `
		SELECT u.id, u.full_name, u.email, u.regions, u.created_at,
		       COUNT(l.id) AS open_leads
		FROM users u
		LEFT JOIN leads l ON l.assigned_to = u.id AND l.status = ANY($1)
		WHERE u.is_active
		  AND $2 = ANY(u.roles)
		  AND $3 = ANY(u.regions)
		GROUP BY u.id, u.full_name, u.email, u.regions, u.created_at
		ORDER BY open_leads ASC, u.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, domain.OpenStatuses(), roles.InteriorDesigner, region)
	if err != nil {
		return nil, fmt.Errorf("designer workload query failed: %w", err)
	}
	defer rows.Close()

	return scanWorkloads(rows)
}

// ListDesignerWorkloads returns every active designer with open lead counts,
// heaviest caseload last.
func (r *Repository) ListDesignerWorkloads(ctx context.Context) ([]DesignerWorkload, error) {
	query := `
		SELECT u.id, u.full_name, u.email, u.regions, u.created_at,
		       COUNT(l.id) AS open_leads
		FROM users u
		LEFT JOIN leads l ON l.assigned_to = u.id AND l.status = ANY($1)
		WHERE u.is_active
		  AND $2 = ANY(u.roles)
		GROUP BY u.id, u.full_name, u.email, u.regions, u.created_at
		ORDER BY open_leads ASC, u.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, domain.OpenStatuses(), roles.InteriorDesigner)
	if err != nil {
		return nil, fmt.Errorf("designer workload query failed: %w", err)
	}
	defer rows.Close()

	return scanWorkloads(rows)
}

type workloadRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanWorkloads(rows workloadRows) ([]DesignerWorkload, error) {
	items := make([]DesignerWorkload, 0)
	for rows.Next() {
		var item DesignerWorkload
		if err := rows.Scan(
			&item.ID,
			&item.FullName,
			&item.Email,
			&item.Regions,
			&item.CreatedAt,
			&item.OpenLeads,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
