package payplan

import "context"

// PayPlanService manages per representative pay plans and per office
// tier plans, both scoped to a (month, year) period. Reads fall back
// to zero defaults; only writes validate their payloads.
type PayPlanService interface {
	GetPayPlan(ctx context.Context, representativeID string, month, year int) (*PayPlanResponse, error)
	UpsertPayPlan(ctx context.Context, representativeID string, month, year int, req UpsertPayPlanRequest) (*PayPlanResponse, error)
	GetOfficePlan(ctx context.Context, office string, month, year int) (*OfficePlanResponse, error)
	UpsertOfficePlan(ctx context.Context, office string, month, year int, req UpsertOfficePlanRequest) (*OfficePlanResponse, error)
}
