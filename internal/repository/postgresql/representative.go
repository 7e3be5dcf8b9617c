package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
)

// representativeRepository reads the sales_representatives roster. Rows
// are written by an external sync, never by this service, so there is
// no write path here.
type representativeRepository struct {
	db *database.DB
}

func NewRepresentativeRepository(db *database.DB) representative.RepresentativeRepository {
	return &representativeRepository{db: db}
}

func (r *representativeRepository) GetByID(ctx context.Context, id string) (*representative.Representative, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, email, office, status, hire_date, created_at, updated_at
		FROM sales_representatives
		WHERE id = $1 AND deleted_at IS NULL
	`

	var rep representative.Representative
	err := q.QueryRow(ctx, query, id).Scan(
		&rep.ID, &rep.FullName, &rep.Email, &rep.Office, &rep.Status,
		&rep.HireDate, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, representative.ErrRepresentativeNotFound
		}
		return nil, fmt.Errorf("failed to get representative: %w", err)
	}

	return &rep, nil
}

func (r *representativeRepository) ListActive(ctx context.Context) ([]representative.Representative, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, email, office, status, hire_date, created_at, updated_at
		FROM sales_representatives
		WHERE status = 'active' AND deleted_at IS NULL
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active representatives: %w", err)
	}
	defer rows.Close()

	var reps []representative.Representative
	for rows.Next() {
		var rep representative.Representative
		if err := rows.Scan(
			&rep.ID, &rep.FullName, &rep.Email, &rep.Office, &rep.Status,
			&rep.HireDate, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan representative: %w", err)
		}
		reps = append(reps, rep)
	}

	return reps, nil
}

func (r *representativeRepository) List(ctx context.Context, filter representative.RepresentativeFilter) ([]representative.Representative, int, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM sales_representatives
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Office != "" {
		baseQuery += fmt.Sprintf(" AND office = $%d", argIdx)
		args = append(args, filter.Office)
		argIdx++
	}
	if filter.Status != "" {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	// Count query
	var totalCount int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count representatives: %w", err)
	}

	// Sort
	sortColumn := "full_name"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"full_name":  "full_name",
			"office":     "office",
			"hire_date":  "hire_date",
			"created_at": "created_at",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT id, full_name, email, office, status, hire_date, created_at, updated_at
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list representatives: %w", err)
	}
	defer rows.Close()

	var reps []representative.Representative
	for rows.Next() {
		var rep representative.Representative
		if err := rows.Scan(
			&rep.ID, &rep.FullName, &rep.Email, &rep.Office, &rep.Status,
			&rep.HireDate, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan representative: %w", err)
		}
		reps = append(reps, rep)
	}

	return reps, totalCount, nil
}

func (r *representativeRepository) ListOffices(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT office
		FROM sales_representatives
		WHERE deleted_at IS NULL
		ORDER BY office
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	offices := []string{}
	for rows.Next() {
		var office string
		if err := rows.Scan(&office); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, office)
	}

	return offices, nil
}
