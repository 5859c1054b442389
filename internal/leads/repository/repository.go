package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("lead not found")

	// ErrStatusMoved signals that a compare-and-set status update matched no
	// row because the lead's status changed since the caller read it.
	ErrStatusMoved = errors.New("lead status changed concurrently")

	// ErrAlreadyConverted signals a conversion attempt on a lead that
	// already carries a project.
	ErrAlreadyConverted = errors.New("lead already converted")

	// ErrNotConvertible signals a conversion attempt from a status outside
	// the convertible set.
	ErrNotConvertible = errors.New("lead status does not allow conversion")

	// ErrAssigneeInvalid signals an assignment to a user id that does not
	// exist.
	ErrAssigneeInvalid = errors.New("assignee does not exist")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	Source       string
	City         *string
	BudgetMin    *int64
	BudgetMax    *int64
	ProjectType  *string
	PropertyType *string
	Timeline     *string
	Description  *string
	Score        int
	Status       string
	AssignedTo   *uuid.UUID
	ProjectID    *uuid.UUID
	LostReason   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const leadColumns = `
	id, first_name, last_name, email, phone, source, city, budget_min, budget_max,
	project_type, property_type, timeline, description, score, status,
	assigned_to, project_id, lost_reason, created_at, updated_at`

// leadRowScanner is satisfied by pgx.Rows and pgx.Row so scanLead can be
// shared between single-row and multi-row queries.
type leadRowScanner interface {
	Scan(dest ...any) error
}

// scanLead populates a Lead from a row selected with leadColumns order.
func scanLead(s leadRowScanner) (Lead, error) {
	var lead Lead
	err := s.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone,
		&lead.Source, &lead.City, &lead.BudgetMin, &lead.BudgetMax,
		&lead.ProjectType, &lead.PropertyType, &lead.Timeline, &lead.Description,
		&lead.Score, &lead.Status, &lead.AssignedTo, &lead.ProjectID,
		&lead.LostReason, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

type CreateLeadParams struct {
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	Source       string
	City         *string
	BudgetMin    *int64
	BudgetMax    *int64
	ProjectType  *string
	PropertyType *string
	Timeline     *string
	Description  *string
	Score        int
	AssignedTo   *uuid.UUID
}

// Create inserts a lead with its initial score and, when auto-assignment
// picked someone, its assignee. Status always starts at new; the single
// INSERT keeps the lead row and its assignment observable only together.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, email, phone, source, city, budget_min, budget_max,
			project_type, property_type, timeline, description, score, assigned_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING`+leadColumns+`
	`,
		params.FirstName, params.LastName, params.Email, params.Phone, params.Source,
		params.City, params.BudgetMin, params.BudgetMax, params.ProjectType,
		params.PropertyType, params.Timeline, params.Description, params.Score,
		params.AssignedTo,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+leadColumns+`
		FROM leads WHERE id = $1
	`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type UpdateLeadParams struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	City         *string
	BudgetMin    *int64
	BudgetMax    *int64
	ProjectType  *string
	PropertyType *string
	Timeline     *string
	Description  *string
}

// Update applies the provided detail fields; nil fields are left untouched.
// Status, assignment and score have their own write paths.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.FirstName != nil, "first_name", params.FirstName},
		{params.LastName != nil, "last_name", params.LastName},
		{params.Email != nil, "email", params.Email},
		{params.Phone != nil, "phone", params.Phone},
		{params.City != nil, "city", params.City},
		{params.BudgetMin != nil, "budget_min", params.BudgetMin},
		{params.BudgetMax != nil, "budget_max", params.BudgetMax},
		{params.ProjectType != nil, "project_type", params.ProjectType},
		{params.PropertyType != nil, "property_type", params.PropertyType},
		{params.Timeline != nil, "timeline", params.Timeline},
		{params.Description != nil, "description", params.Description},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING`+leadColumns+`
	`, strings.Join(setClauses, ", "), argIdx)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateStatus moves a lead from one status to another as a compare-and-set
// write. The from guard keeps a racing transition from resurrecting a lead
// that reached a terminal status between the caller's read and this write:
// when no row matches, the caller gets ErrStatusMoved (or ErrNotFound if the
// lead does not exist) and must re-read before retrying.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, lostReason *string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, lost_reason = COALESCE($4, lost_reason), updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING`+leadColumns+`
	`, id, from, to, lostReason)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrNotFound) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, ErrStatusMoved
	}
	return lead, err
}

// UpdateAssignment sets or clears the lead's assignee. Assignment is
// orthogonal to status, so no status guard applies here; the service rejects
// assignment on terminal leads before calling this.
func (r *Repository) UpdateAssignment(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET assigned_to = $2, updated_at = now()
		WHERE id = $1
		RETURNING`+leadColumns+`
	`, id, assigneeID)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return Lead{}, ErrAssigneeInvalid
	}
	return lead, err
}

// SetScore persists a recomputed score.
func (r *Repository) SetScore(ctx context.Context, id uuid.UUID, score int) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET score = $2, updated_at = now()
		WHERE id = $1
		RETURNING`+leadColumns+`
	`, id, score)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// ListOpenIDs returns the ids of every lead still in the funnel, oldest
// first. Used by the rescore tool to fan work out over the task queue.
func (r *Repository) ListOpenIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM leads
		WHERE status = ANY($1)
		ORDER BY created_at ASC
	`, domain.OpenStatuses())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type ListParams struct {
	Status     *string
	City       *string
	Source     *string
	AssignedTo *uuid.UUID
	MinScore   *int
	Search     string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT`+leadColumns+`
		FROM leads
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addEquals("status", *params.Status)
	}
	if params.City != nil {
		addEquals("city", *params.City)
	}
	if params.Source != nil {
		addEquals("source", *params.Source)
	}
	if params.AssignedTo != nil {
		addEquals("assigned_to", *params.AssignedTo)
	}
	if params.MinScore != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("score >= $%d", argIdx))
		args = append(args, *params.MinScore)
		argIdx++
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

// mapLeadSortColumn whitelists sortable columns so user input never reaches
// the ORDER BY clause directly.
func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "score":
		return "score"
	case "updated_at":
		return "updated_at"
	case "status":
		return "status"
	default:
		return "created_at"
	}
}
