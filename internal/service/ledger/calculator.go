package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Calculator holds the compensation arithmetic. Everything is pure
// decimal math; rounding is half away from zero at two decimal places,
// matching the NUMERIC(14,2) ledger columns. DivRound carries that
// mode, so 2550.30 / 12 comes out 212.53, never 212.52.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Figures are the generation owned numbers for one entry.
type Figures struct {
	BuildingsSold    int
	TotalOrderAmount decimal.Decimal
	TierBonusAmount  decimal.Decimal
	MonthlySalary    decimal.Decimal
	CommissionAmount decimal.Decimal
	PlanTotal        decimal.Decimal
}

// Compute derives one representative's figures for a period.
//
//	tier bonus      = buildings sold x matched BUILDINGS_SOLD bracket's amount per building
//	monthly salary  = annual base salary / 12, zero when no salary is set
//	commission      = matched ORDER_TOTAL bracket: percentage of the order total, or the flat amount
//	plan total      = tier bonus + monthly salary + commission
//
// A representative with no orders, no matching bracket or no plan
// simply computes to zero; generation never fails on missing inputs.
func (c *Calculator) Compute(buildingsSold int, totalOrderAmount, salary decimal.Decimal, tiers []payplan.Tier) Figures {
	sold := decimal.NewFromInt(int64(buildingsSold))

	tierBonus := decimal.Zero
	if tier := payplan.MatchTier(sold, payplan.FilterTiers(tiers, payplan.TierTypeBuildingsSold)); tier != nil {
		tierBonus = tier.BonusAmount.Mul(sold)
	}

	monthlySalary := decimal.Zero
	if salary.IsPositive() {
		monthlySalary = salary.DivRound(twelve, 2)
	}

	commission := decimal.Zero
	if tier := payplan.MatchTier(totalOrderAmount, payplan.FilterTiers(tiers, payplan.TierTypeOrderTotal)); tier != nil {
		if tier.BonusType == payplan.BonusTypePercentage {
			commission = totalOrderAmount.Mul(tier.BonusAmount).DivRound(hundred, 2)
		} else {
			commission = tier.BonusAmount
		}
	}

	return Figures{
		BuildingsSold:    buildingsSold,
		TotalOrderAmount: totalOrderAmount,
		TierBonusAmount:  tierBonus,
		MonthlySalary:    monthlySalary,
		CommissionAmount: commission,
		PlanTotal:        tierBonus.Add(monthlySalary).Add(commission),
	}
}

// Merge folds fresh figures into the stored entry. Reviewer owned
// fields ride through untouched; a representative seen for the first
// time gets a pending entry with zero deduction and adjustment. The
// final amount is always recomputed from the merged values:
//
//	final = plan total - cancellation deduction + adjustment
func (c *Calculator) Merge(existing *ledger.LedgerEntry, representativeID string, month, year int, f Figures) ledger.LedgerEntry {
	entry := ledger.LedgerEntry{
		RepresentativeID:      representativeID,
		PeriodMonth:           month,
		PeriodYear:            year,
		BuildingsSold:         f.BuildingsSold,
		TotalOrderAmount:      f.TotalOrderAmount,
		TierBonusAmount:       f.TierBonusAmount,
		MonthlySalary:         f.MonthlySalary,
		CommissionAmount:      f.CommissionAmount,
		PlanTotal:             f.PlanTotal,
		CancellationDeduction: decimal.Zero,
		Adjustment:            decimal.Zero,
		Status:                ledger.StatusPending,
	}

	if existing != nil {
		entry.ID = existing.ID
		entry.CancellationDeduction = existing.CancellationDeduction
		entry.Adjustment = existing.Adjustment
		entry.Notes = existing.Notes
		entry.Status = existing.Status
		entry.ReviewedBy = existing.ReviewedBy
		entry.ReviewedByName = existing.ReviewedByName
		entry.ReviewedAt = existing.ReviewedAt
	}

	entry.FinalAmount = f.PlanTotal.Sub(entry.CancellationDeduction).Add(entry.Adjustment)

	return entry
}
