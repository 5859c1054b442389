package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Project is a delivery engagement opened from a converted lead. Rows are
// created inside the lead conversion transaction; this repository only reads.
type Project struct {
	ID                 uuid.UUID
	LeadID             uuid.UUID
	Title              string
	Description        *string
	Budget             int64
	Status             string
	Priority           string
	ProgressPercentage int
	AssignedTo         *uuid.UUID
	StartDate          *time.Time
	EndDate            *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const projectColumns = `
	id, lead_id, title, description, budget, status, priority,
	progress_percentage, assigned_to, start_date, end_date,
	created_at, updated_at
`

type projectRowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row projectRowScanner) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID,
		&p.LeadID,
		&p.Title,
		&p.Description,
		&p.Budget,
		&p.Status,
		&p.Priority,
		&p.ProgressPercentage,
		&p.AssignedTo,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+projectColumns+`
		FROM projects
		WHERE id = $1
	`, id)

	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, err
	}
	return project, nil
}

type ListParams struct {
	Status     *string
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Project, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.AssignedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("assigned_to = $%d", argIdx))
		args = append(args, *params.AssignedTo)
		argIdx++
	}
	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM projects WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT`+projectColumns+`
		FROM projects
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, project)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return projects, total, nil
}
