package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
)

// officePlanRepository reads and writes office_pay_plans and their
// ordered office_plan_tiers child rows.
type officePlanRepository struct {
	db *database.DB
}

func NewOfficePlanRepository(db *database.DB) payplan.OfficePlanRepository {
	return &officePlanRepository{db: db}
}

func (r *officePlanRepository) GetTiers(ctx context.Context, office string, month, year int) ([]payplan.Tier, error) {
	q := GetQuerier(ctx, r.db)

	var planID string
	err := q.QueryRow(ctx,
		`SELECT id FROM office_pay_plans WHERE office = $1 AND period_month = $2 AND period_year = $3`,
		office, month, year,
	).Scan(&planID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payplan.ErrOfficePlanNotFound
		}
		return nil, fmt.Errorf("failed to get office plan: %w", err)
	}

	query := `
		SELECT tier_type, min_value, max_value, bonus_amount, bonus_type
		FROM office_plan_tiers
		WHERE office_plan_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load office plan tiers: %w", err)
	}
	defer rows.Close()

	tiers := []payplan.Tier{}
	for rows.Next() {
		var tier payplan.Tier
		if err := rows.Scan(&tier.Type, &tier.MinValue, &tier.MaxValue, &tier.BonusAmount, &tier.BonusType); err != nil {
			return nil, fmt.Errorf("failed to scan office plan tier: %w", err)
		}
		tiers = append(tiers, tier)
	}

	return tiers, nil
}

func (r *officePlanRepository) ListByPeriod(ctx context.Context, month, year int) (map[string][]payplan.Tier, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.office, t.tier_type, t.min_value, t.max_value, t.bonus_amount, t.bonus_type
		FROM office_pay_plans p
		JOIN office_plan_tiers t ON t.office_plan_id = p.id
		WHERE p.period_month = $1 AND p.period_year = $2
		ORDER BY p.office, t.position
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list office plans: %w", err)
	}
	defer rows.Close()

	plans := make(map[string][]payplan.Tier)
	for rows.Next() {
		var office string
		var tier payplan.Tier
		if err := rows.Scan(&office, &tier.Type, &tier.MinValue, &tier.MaxValue, &tier.BonusAmount, &tier.BonusType); err != nil {
			return nil, fmt.Errorf("failed to scan office plan tier: %w", err)
		}
		plans[office] = append(plans[office], tier)
	}

	return plans, nil
}

// Upsert replaces the office plan and its tiers. Callers run it inside
// a transaction so the parent update and the tier rewrite land together.
func (r *officePlanRepository) Upsert(ctx context.Context, plan *payplan.OfficePlan) (*payplan.OfficePlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO office_pay_plans (office, period_month, period_year)
		VALUES ($1, $2, $3)
		ON CONFLICT (office, period_month, period_year) DO UPDATE SET
			updated_at = NOW()
		RETURNING id, office, period_month, period_year, created_at, updated_at
	`

	var saved payplan.OfficePlan
	err := q.QueryRow(ctx, query, plan.Office, plan.PeriodMonth, plan.PeriodYear).Scan(
		&saved.ID, &saved.Office, &saved.PeriodMonth, &saved.PeriodYear,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert office plan: %w", err)
	}

	if _, err := q.Exec(ctx, `DELETE FROM office_plan_tiers WHERE office_plan_id = $1`, saved.ID); err != nil {
		return nil, fmt.Errorf("failed to clear office plan tiers: %w", err)
	}

	saved.Tiers = make([]payplan.Tier, 0, len(plan.Tiers))
	for i, tier := range plan.Tiers {
		_, err := q.Exec(ctx,
			`INSERT INTO office_plan_tiers (office_plan_id, position, tier_type, min_value, max_value, bonus_amount, bonus_type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			saved.ID, i, tier.Type, tier.MinValue, tier.MaxValue, tier.BonusAmount, tier.BonusType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert office plan tier: %w", err)
		}
		saved.Tiers = append(saved.Tiers, tier)
	}

	return &saved, nil
}
