package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ConvertParams struct {
	LeadID      uuid.UUID
	Title       string
	Description *string
	Budget      *int64
	StartDate   *time.Time
	EndDate     *time.Time
	AssigneeID  *uuid.UUID
}

type ConvertResult struct {
	Lead      Lead
	ProjectID uuid.UUID
}

// Convert turns a qualified lead into a project inside one transaction:
// insert the project row, link it on the lead and flip the status to
// converted. The row lock serializes concurrent attempts on the same lead,
// so exactly one succeeds and the rest see ErrAlreadyConverted. The project
// insert lives here rather than in the projects repository because the
// atomic boundary spans both tables.
func (r *Repository) Convert(ctx context.Context, params ConvertParams) (ConvertResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("begin convert transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	var projectID *uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT status, project_id FROM leads WHERE id = $1 FOR UPDATE
	`, params.LeadID).Scan(&status, &projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ConvertResult{}, ErrNotFound
	}
	if err != nil {
		return ConvertResult{}, err
	}

	if projectID != nil || status == domain.StatusConverted {
		return ConvertResult{}, ErrAlreadyConverted
	}
	if !domain.CanConvert(status) {
		return ConvertResult{}, fmt.Errorf("%w: status is %s", ErrNotConvertible, status)
	}

	var newProjectID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO projects (lead_id, title, description, budget, assigned_to, start_date, end_date)
		VALUES ($1, $2, $3, COALESCE($4, 0), $5, $6, $7)
		RETURNING id
	`, params.LeadID, params.Title, params.Description, params.Budget,
		params.AssigneeID, params.StartDate, params.EndDate,
	).Scan(&newProjectID)
	if err != nil {
		// uq_projects_lead_id also guards one-project-per-lead.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ConvertResult{}, ErrAlreadyConverted
		}
		return ConvertResult{}, fmt.Errorf("insert project: %w", err)
	}

	row := tx.QueryRow(ctx, `
		UPDATE leads SET status = $2, project_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING`+leadColumns+`
	`, params.LeadID, domain.StatusConverted, newProjectID)
	lead, err := scanLead(row)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("link project to lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ConvertResult{}, fmt.Errorf("commit convert transaction: %w", err)
	}

	return ConvertResult{Lead: lead, ProjectID: newProjectID}, nil
}
