package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one representative's compensation for one calendar
// period. There is at most one entry per (representative, month, year).
//
// Generation owns the computed fields (buildings sold through plan
// total). The review fields in the middle belong to reviewers and
// survive regeneration untouched; FinalAmount is derived from both.
type LedgerEntry struct {
	ID               string
	RepresentativeID string
	PeriodMonth      int
	PeriodYear       int

	// Computed by generation.
	BuildingsSold    int
	TotalOrderAmount decimal.Decimal
	TierBonusAmount  decimal.Decimal
	MonthlySalary    decimal.Decimal
	CommissionAmount decimal.Decimal
	PlanTotal        decimal.Decimal

	// Owned by reviewers, preserved across regeneration.
	CancellationDeduction decimal.Decimal
	Adjustment            decimal.Decimal
	Notes                 *string
	Status                Status
	ReviewedBy            *string
	ReviewedByName        *string
	ReviewedAt            *time.Time

	// FinalAmount = PlanTotal - CancellationDeduction + Adjustment.
	FinalAmount decimal.Decimal

	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for responses.
	RepresentativeName *string
	Office             *string
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)
