package payplan

import "context"

type PayPlanRepository interface {
	GetByRepresentativeAndPeriod(ctx context.Context, representativeID string, month, year int) (*PayPlan, error)
	// ListByPeriod loads every plan configured for the period in one
	// query, keyed by representative. Representatives without a plan
	// are simply absent from the result.
	ListByPeriod(ctx context.Context, month, year int) (map[string]PayPlan, error)
	Upsert(ctx context.Context, plan *PayPlan) (*PayPlan, error)
}

type OfficePlanRepository interface {
	// GetTiers returns the configured tier table for one office and
	// period, ordered by stored position. ErrOfficePlanNotFound when
	// the office has no plan for the period.
	GetTiers(ctx context.Context, office string, month, year int) ([]Tier, error)
	ListByPeriod(ctx context.Context, month, year int) (map[string][]Tier, error)
	Upsert(ctx context.Context, plan *OfficePlan) (*OfficePlan, error)
}
