package payplan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

type PayPlanResponse struct {
	RepresentativeID string          `json:"representative_id"`
	PeriodMonth      int             `json:"month"`
	PeriodYear       int             `json:"year"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	LineItems        []LineItem      `json:"line_items"`
	IsDefault        bool            `json:"is_default"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
}

type UpsertPayPlanRequest struct {
	BaseSalary decimal.Decimal `json:"base_salary"`
	LineItems  []LineItem      `json:"line_items"`
}

func (r *UpsertPayPlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "Base salary must not be negative",
		})
	}

	for i, item := range r.LineItems {
		if validator.IsEmpty(item.Label) {
			errs = append(errs, validator.ValidationError{
				Field:   "line_items[" + validator.Itoa(i) + "].label",
				Message: "Label is required",
			})
		}
		if len(item.Label) > 200 {
			errs = append(errs, validator.ValidationError{
				Field:   "line_items[" + validator.Itoa(i) + "].label",
				Message: "Label must not exceed 200 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OfficePlanResponse struct {
	Office      string     `json:"office"`
	PeriodMonth int        `json:"month"`
	PeriodYear  int        `json:"year"`
	Tiers       []Tier     `json:"tiers"`
	IsDefault   bool       `json:"is_default"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type UpsertOfficePlanRequest struct {
	Tiers []Tier `json:"tiers"`
}

func (r *UpsertOfficePlanRequest) Validate() error {
	return ValidateTiers(r.Tiers)
}
