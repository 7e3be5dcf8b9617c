package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
)

// payPlanRepository reads and writes pay_plans and their ordered
// pay_plan_items child rows. Item order is the stored position.
type payPlanRepository struct {
	db *database.DB
}

func NewPayPlanRepository(db *database.DB) payplan.PayPlanRepository {
	return &payPlanRepository{db: db}
}

func (r *payPlanRepository) GetByRepresentativeAndPeriod(ctx context.Context, representativeID string, month, year int) (*payplan.PayPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, representative_id, period_month, period_year, base_salary, created_at, updated_at
		FROM pay_plans
		WHERE representative_id = $1 AND period_month = $2 AND period_year = $3
	`

	var plan payplan.PayPlan
	err := q.QueryRow(ctx, query, representativeID, month, year).Scan(
		&plan.ID, &plan.RepresentativeID, &plan.PeriodMonth, &plan.PeriodYear,
		&plan.BaseSalary, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payplan.ErrPayPlanNotFound
		}
		return nil, fmt.Errorf("failed to get pay plan: %w", err)
	}

	items, err := r.loadItems(ctx, []string{plan.ID})
	if err != nil {
		return nil, err
	}
	plan.LineItems = items[plan.ID]
	if plan.LineItems == nil {
		plan.LineItems = []payplan.LineItem{}
	}

	return &plan, nil
}

func (r *payPlanRepository) ListByPeriod(ctx context.Context, month, year int) (map[string]payplan.PayPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, representative_id, period_month, period_year, base_salary, created_at, updated_at
		FROM pay_plans
		WHERE period_month = $1 AND period_year = $2
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay plans: %w", err)
	}
	defer rows.Close()

	plans := make(map[string]payplan.PayPlan)
	planIDs := []string{}
	for rows.Next() {
		var plan payplan.PayPlan
		if err := rows.Scan(
			&plan.ID, &plan.RepresentativeID, &plan.PeriodMonth, &plan.PeriodYear,
			&plan.BaseSalary, &plan.CreatedAt, &plan.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay plan: %w", err)
		}
		plan.LineItems = []payplan.LineItem{}
		plans[plan.RepresentativeID] = plan
		planIDs = append(planIDs, plan.ID)
	}
	rows.Close()

	items, err := r.loadItems(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	for repID, plan := range plans {
		if list, ok := items[plan.ID]; ok {
			plan.LineItems = list
			plans[repID] = plan
		}
	}

	return plans, nil
}

// Upsert replaces the plan and its items. Callers run it inside a
// transaction so the parent update and the item rewrite land together.
func (r *payPlanRepository) Upsert(ctx context.Context, plan *payplan.PayPlan) (*payplan.PayPlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_plans (representative_id, period_month, period_year, base_salary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (representative_id, period_month, period_year) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			updated_at = NOW()
		RETURNING id, representative_id, period_month, period_year, base_salary, created_at, updated_at
	`

	var saved payplan.PayPlan
	err := q.QueryRow(ctx, query,
		plan.RepresentativeID, plan.PeriodMonth, plan.PeriodYear, plan.BaseSalary,
	).Scan(
		&saved.ID, &saved.RepresentativeID, &saved.PeriodMonth, &saved.PeriodYear,
		&saved.BaseSalary, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pay plan: %w", err)
	}

	if _, err := q.Exec(ctx, `DELETE FROM pay_plan_items WHERE pay_plan_id = $1`, saved.ID); err != nil {
		return nil, fmt.Errorf("failed to clear pay plan items: %w", err)
	}

	saved.LineItems = make([]payplan.LineItem, 0, len(plan.LineItems))
	for i, item := range plan.LineItems {
		_, err := q.Exec(ctx,
			`INSERT INTO pay_plan_items (pay_plan_id, position, label, amount) VALUES ($1, $2, $3, $4)`,
			saved.ID, i, item.Label, item.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert pay plan item: %w", err)
		}
		saved.LineItems = append(saved.LineItems, item)
	}

	return &saved, nil
}

// loadItems fetches the items of many plans in one query, keyed by
// plan id and ordered by stored position.
func (r *payPlanRepository) loadItems(ctx context.Context, planIDs []string) (map[string][]payplan.LineItem, error) {
	items := make(map[string][]payplan.LineItem)
	if len(planIDs) == 0 {
		return items, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pay_plan_id, label, amount
		FROM pay_plan_items
		WHERE pay_plan_id = ANY($1)
		ORDER BY pay_plan_id, position
	`

	rows, err := q.Query(ctx, query, planIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load pay plan items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var planID string
		var item payplan.LineItem
		if err := rows.Scan(&planID, &item.Label, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan pay plan item: %w", err)
		}
		items[planID] = append(items[planID], item)
	}

	return items, nil
}
