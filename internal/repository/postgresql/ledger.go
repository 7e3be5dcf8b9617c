package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
)

// ledgerLockClass scopes the advisory locks taken by generation runs so
// they never collide with other advisory lock users on the same database.
const ledgerLockClass = 1001

const ledgerEntryColumns = `
	id, representative_id, period_month, period_year,
	buildings_sold, total_order_amount, tier_bonus_amount, monthly_salary,
	commission_amount, plan_total, cancellation_deduction, adjustment,
	notes, status, reviewed_by, reviewed_by_name, reviewed_at,
	final_amount, generated_at, created_at, updated_at`

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.LedgerRepository {
	return &ledgerRepository{db: db}
}

// periodLockKey packs a period into one advisory lock key, e.g. 202603.
func periodLockKey(month, year int) int {
	return year*100 + month
}

func (r *ledgerRepository) GetEntriesForPeriodLocked(ctx context.Context, month, year int) (map[string]ledger.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	// Transaction scoped lock: a second run for the same period blocks
	// here until the first commits. Different periods do not contend.
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, ledgerLockClass, periodLockKey(month, year)); err != nil {
		return nil, fmt.Errorf("failed to lock ledger period: %w", err)
	}

	query := `
		SELECT` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE period_month = $1 AND period_year = $2
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries for period: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]ledger.LedgerEntry)
	for rows.Next() {
		var e ledger.LedgerEntry
		if err := scanLedgerEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries[e.RepresentativeID] = e
	}

	return entries, nil
}

func (r *ledgerRepository) UpsertEntry(ctx context.Context, entry ledger.LedgerEntry) (ledger.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ledger_entries (
			representative_id, period_month, period_year,
			buildings_sold, total_order_amount, tier_bonus_amount, monthly_salary,
			commission_amount, plan_total, cancellation_deduction, adjustment,
			notes, status, reviewed_by, reviewed_by_name, reviewed_at,
			final_amount, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (representative_id, period_month, period_year) DO UPDATE SET
			buildings_sold = EXCLUDED.buildings_sold,
			total_order_amount = EXCLUDED.total_order_amount,
			tier_bonus_amount = EXCLUDED.tier_bonus_amount,
			monthly_salary = EXCLUDED.monthly_salary,
			commission_amount = EXCLUDED.commission_amount,
			plan_total = EXCLUDED.plan_total,
			cancellation_deduction = EXCLUDED.cancellation_deduction,
			adjustment = EXCLUDED.adjustment,
			notes = EXCLUDED.notes,
			status = EXCLUDED.status,
			reviewed_by = EXCLUDED.reviewed_by,
			reviewed_by_name = EXCLUDED.reviewed_by_name,
			reviewed_at = EXCLUDED.reviewed_at,
			final_amount = EXCLUDED.final_amount,
			generated_at = EXCLUDED.generated_at,
			updated_at = NOW()
		RETURNING` + ledgerEntryColumns

	row := q.QueryRow(ctx, query,
		entry.RepresentativeID, entry.PeriodMonth, entry.PeriodYear,
		entry.BuildingsSold, entry.TotalOrderAmount, entry.TierBonusAmount, entry.MonthlySalary,
		entry.CommissionAmount, entry.PlanTotal, entry.CancellationDeduction, entry.Adjustment,
		entry.Notes, string(entry.Status), entry.ReviewedBy, entry.ReviewedByName, entry.ReviewedAt,
		entry.FinalAmount, entry.GeneratedAt,
	)

	var saved ledger.LedgerEntry
	if err := scanLedgerEntry(row, &saved); err != nil {
		return ledger.LedgerEntry{}, fmt.Errorf("failed to upsert ledger entry: %w", err)
	}

	return saved, nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id string) (ledger.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id, e.representative_id, e.period_month, e.period_year,
			e.buildings_sold, e.total_order_amount, e.tier_bonus_amount, e.monthly_salary,
			e.commission_amount, e.plan_total, e.cancellation_deduction, e.adjustment,
			e.notes, e.status, e.reviewed_by, e.reviewed_by_name, e.reviewed_at,
			e.final_amount, e.generated_at, e.created_at, e.updated_at,
			r.full_name, r.office
		FROM ledger_entries e
		JOIN sales_representatives r ON r.id = e.representative_id
		WHERE e.id = $1
	`

	var e ledger.LedgerEntry
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.RepresentativeID, &e.PeriodMonth, &e.PeriodYear,
		&e.BuildingsSold, &e.TotalOrderAmount, &e.TierBonusAmount, &e.MonthlySalary,
		&e.CommissionAmount, &e.PlanTotal, &e.CancellationDeduction, &e.Adjustment,
		&e.Notes, &e.Status, &e.ReviewedBy, &e.ReviewedByName, &e.ReviewedAt,
		&e.FinalAmount, &e.GeneratedAt, &e.CreatedAt, &e.UpdatedAt,
		&e.RepresentativeName, &e.Office,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ledger.LedgerEntry{}, ledger.ErrLedgerEntryNotFound
		}
		return ledger.LedgerEntry{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return e, nil
}

var ledgerSortColumns = map[string]string{
	"representative_name": "r.full_name",
	"office":              "r.office",
	"final_amount":        "e.final_amount",
	"buildings_sold":      "e.buildings_sold",
	"status":              "e.status",
	"updated_at":          "e.updated_at",
}

func (r *ledgerRepository) ListByPeriod(ctx context.Context, filter ledger.LedgerFilter) ([]ledger.LedgerEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := `WHERE e.period_month = $1 AND e.period_year = $2`
	args := []interface{}{filter.Month, filter.Year}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND e.status = $%d", len(args))
	}
	if filter.Office != "" {
		args = append(args, filter.Office)
		where += fmt.Sprintf(" AND r.office = $%d", len(args))
	}
	if filter.RepresentativeID != "" {
		args = append(args, filter.RepresentativeID)
		where += fmt.Sprintf(" AND e.representative_id = $%d", len(args))
	}

	countQuery := `
		SELECT COUNT(*)
		FROM ledger_entries e
		JOIN sales_representatives r ON r.id = e.representative_id
	` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	sortColumn, ok := ledgerSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "r.full_name"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT
			e.id, e.representative_id, e.period_month, e.period_year,
			e.buildings_sold, e.total_order_amount, e.tier_bonus_amount, e.monthly_salary,
			e.commission_amount, e.plan_total, e.cancellation_deduction, e.adjustment,
			e.notes, e.status, e.reviewed_by, e.reviewed_by_name, e.reviewed_at,
			e.final_amount, e.generated_at, e.created_at, e.updated_at,
			r.full_name, r.office
		FROM ledger_entries e
		JOIN sales_representatives r ON r.id = e.representative_id
		%s
		ORDER BY %s %s, e.id ASC
		LIMIT $%d OFFSET $%d
	`, where, sortColumn, sortOrder, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []ledger.LedgerEntry{}
	for rows.Next() {
		var e ledger.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.RepresentativeID, &e.PeriodMonth, &e.PeriodYear,
			&e.BuildingsSold, &e.TotalOrderAmount, &e.TierBonusAmount, &e.MonthlySalary,
			&e.CommissionAmount, &e.PlanTotal, &e.CancellationDeduction, &e.Adjustment,
			&e.Notes, &e.Status, &e.ReviewedBy, &e.ReviewedByName, &e.ReviewedAt,
			&e.FinalAmount, &e.GeneratedAt, &e.CreatedAt, &e.UpdatedAt,
			&e.RepresentativeName, &e.Office,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, total, nil
}

func (r *ledgerRepository) UpdateOverrides(ctx context.Context, id string, req ledger.UpdateLedgerEntryRequest) error {
	q := GetQuerier(ctx, r.db)

	// Any override edit drops the entry back to pending. Pending rows
	// already carry null reviewer fields, so clearing them is a no-op
	// there.
	query := `
		UPDATE ledger_entries SET
			cancellation_deduction = COALESCE($2, cancellation_deduction),
			adjustment = COALESCE($3, adjustment),
			notes = COALESCE($4, notes),
			final_amount = plan_total - COALESCE($2, cancellation_deduction) + COALESCE($3, adjustment),
			status = 'pending',
			reviewed_by = NULL,
			reviewed_by_name = NULL,
			reviewed_at = NULL,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, req.CancellationDeduction, req.Adjustment, req.Notes)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrLedgerEntryNotFound
	}

	return nil
}

func (r *ledgerRepository) ApproveEntries(ctx context.Context, ids []string, reviewerID, reviewerName string) (int64, int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH target AS (
			SELECT id, status
			FROM ledger_entries
			WHERE id = ANY($1)
			FOR UPDATE
		), updated AS (
			UPDATE ledger_entries e SET
				status = 'approved',
				reviewed_by = $2,
				reviewed_by_name = $3,
				reviewed_at = NOW(),
				updated_at = NOW()
			FROM target t
			WHERE e.id = t.id AND t.status = 'pending'
			RETURNING e.id
		)
		SELECT
			(SELECT COUNT(*) FROM updated),
			(SELECT COUNT(*) FROM target)
	`

	var approved, matched int64
	if err := q.QueryRow(ctx, query, ids, reviewerID, reviewerName).Scan(&approved, &matched); err != nil {
		return 0, 0, fmt.Errorf("failed to approve ledger entries: %w", err)
	}

	return approved, matched, nil
}

func (r *ledgerRepository) ReopenEntry(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE ledger_entries SET
			status = 'pending',
			reviewed_by = NULL,
			reviewed_by_name = NULL,
			reviewed_at = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status = 'approved'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reopen ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check ledger entry: %w", err)
		}
		if !exists {
			return ledger.ErrLedgerEntryNotFound
		}
		return ledger.ErrEntryNotApproved
	}

	return nil
}

func (r *ledgerRepository) GetSummary(ctx context.Context, month, year int) (ledger.SummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COALESCE(SUM(buildings_sold), 0),
			COALESCE(SUM(plan_total), 0),
			COALESCE(SUM(final_amount), 0),
			MAX(generated_at)
		FROM ledger_entries
		WHERE period_month = $1 AND period_year = $2
	`

	summary := ledger.SummaryResponse{PeriodMonth: month, PeriodYear: year}
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalRepresentatives,
		&summary.PendingCount,
		&summary.ApprovedCount,
		&summary.TotalBuildingsSold,
		&summary.TotalPlanAmount,
		&summary.TotalFinalAmount,
		&summary.GeneratedAt,
	)
	if err != nil {
		return ledger.SummaryResponse{}, fmt.Errorf("failed to get ledger summary: %w", err)
	}

	return summary, nil
}

func scanLedgerEntry(row pgx.Row, e *ledger.LedgerEntry) error {
	return row.Scan(
		&e.ID, &e.RepresentativeID, &e.PeriodMonth, &e.PeriodYear,
		&e.BuildingsSold, &e.TotalOrderAmount, &e.TierBonusAmount, &e.MonthlySalary,
		&e.CommissionAmount, &e.PlanTotal, &e.CancellationDeduction, &e.Adjustment,
		&e.Notes, &e.Status, &e.ReviewedBy, &e.ReviewedByName, &e.ReviewedAt,
		&e.FinalAmount, &e.GeneratedAt, &e.CreatedAt, &e.UpdatedAt,
	)
}
