package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

type GenerateLedgerRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *GenerateLedgerRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "Month must be between 1 and 12",
		})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "Year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LedgerEntryResponse struct {
	ID                    string             `json:"id"`
	RepresentativeID      string             `json:"representative_id"`
	RepresentativeName    *string            `json:"representative_name,omitempty"`
	Office                *string            `json:"office,omitempty"`
	PeriodMonth           int                `json:"period_month"`
	PeriodYear            int                `json:"period_year"`
	BuildingsSold         int                `json:"buildings_sold"`
	TotalOrderAmount      decimal.Decimal    `json:"total_order_amount"`
	TierBonusAmount       decimal.Decimal    `json:"tier_bonus_amount"`
	MonthlySalary         decimal.Decimal    `json:"monthly_salary"`
	CommissionAmount      decimal.Decimal    `json:"commission_amount"`
	PlanTotal             decimal.Decimal    `json:"plan_total"`
	CancellationDeduction decimal.Decimal    `json:"cancellation_deduction"`
	Adjustment            decimal.Decimal    `json:"adjustment"`
	FinalAmount           decimal.Decimal    `json:"final_amount"`
	Notes                 *string            `json:"notes,omitempty"`
	Status                string             `json:"status"`
	ReviewedBy            *string            `json:"reviewed_by,omitempty"`
	ReviewedByName        *string            `json:"reviewed_by_name,omitempty"`
	ReviewedAt            *time.Time         `json:"reviewed_at,omitempty"`
	LineItems             []payplan.LineItem `json:"line_items,omitempty"`
	GeneratedAt           time.Time          `json:"generated_at"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// UpdateLedgerEntryRequest carries the reviewer owned fields. Nil
// pointers mean "leave as is".
type UpdateLedgerEntryRequest struct {
	CancellationDeduction *decimal.Decimal `json:"cancellation_deduction,omitempty"`
	Adjustment            *decimal.Decimal `json:"adjustment,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
}

func (r *UpdateLedgerEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CancellationDeduction == nil && r.Adjustment == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "At least one field must be provided",
		})
	}
	if r.CancellationDeduction != nil && r.CancellationDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "cancellation_deduction",
			Message: "Cancellation deduction must not be negative",
		})
	}
	if r.Notes != nil && len(*r.Notes) > 2000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "Notes must not exceed 2000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveLedgerRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

func (r *ApproveLedgerRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EntryIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_ids",
			Message: "At least one entry id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LedgerFilter holds list filters and pagination. Month and year are
// mandatory: the review UI always works one period at a time.
type LedgerFilter struct {
	Month            int
	Year             int
	RepresentativeID string
	Office           string
	Status           string
	Page             int
	Limit            int
	SortBy           string
	SortOrder        string
}

func (f *LedgerFilter) Validate() error {
	if !validator.IsValidPeriod(f.Month, f.Year) {
		return ErrInvalidPeriod
	}

	var errs validator.ValidationErrors

	if f.Status != "" && !validator.IsInSlice(f.Status, []string{string(StatusPending), string(StatusApproved)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "Status must be one of: pending, approved",
		})
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"representative_name", "office", "final_amount", "buildings_sold", "status", "updated_at"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "Sort by must be one of: representative_name, office, final_amount, buildings_sold, status, updated_at",
		})
	}
	if f.SortOrder != "" && !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "Sort order must be asc or desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApprovedDrift reports an approved entry whose recomputed final
// amount no longer matches what was approved. The entry keeps its
// approved status; the drift is for reviewers to act on.
type ApprovedDrift struct {
	EntryID             string          `json:"entry_id"`
	RepresentativeID    string          `json:"representative_id"`
	PreviousFinalAmount decimal.Decimal `json:"previous_final_amount"`
	NewFinalAmount      decimal.Decimal `json:"new_final_amount"`
}

type GenerateLedgerResponse struct {
	RunID          string                `json:"run_id"`
	PeriodMonth    int                   `json:"month"`
	PeriodYear     int                   `json:"year"`
	Entries        []LedgerEntryResponse `json:"entries"`
	UnmatchedNames []string              `json:"unmatched_names"`
	ApprovedDrift  []ApprovedDrift       `json:"approved_drift"`
}

// SSETokenResponse carries the short lived token the event stream
// endpoint accepts as a query parameter.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type SummaryResponse struct {
	PeriodMonth          int             `json:"month"`
	PeriodYear           int             `json:"year"`
	TotalRepresentatives int             `json:"total_representatives"`
	PendingCount         int             `json:"pending_count"`
	ApprovedCount        int             `json:"approved_count"`
	TotalBuildingsSold   int             `json:"total_buildings_sold"`
	TotalPlanAmount      decimal.Decimal `json:"total_plan_amount"`
	TotalFinalAmount     decimal.Decimal `json:"total_final_amount"`
	GeneratedAt          *time.Time      `json:"generated_at,omitempty"`
}
