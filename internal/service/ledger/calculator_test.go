package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
)

func strPtr(v string) *string {
	return &v
}

func maxVal(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func officeTiers() []payplan.Tier {
	return []payplan.Tier{
		{Type: payplan.TierTypeBuildingsSold, MinValue: decimal.Zero, MaxValue: maxVal(4), BonusAmount: decimal.NewFromInt(150), BonusType: payplan.BonusTypeFlat},
		{Type: payplan.TierTypeBuildingsSold, MinValue: decimal.NewFromInt(5), MaxValue: nil, BonusAmount: decimal.NewFromInt(200), BonusType: payplan.BonusTypeFlat},
		{Type: payplan.TierTypeOrderTotal, MinValue: decimal.Zero, MaxValue: nil, BonusAmount: decimal.NewFromInt(5), BonusType: payplan.BonusTypePercentage},
	}
}

func TestCompute_PercentageCommission(t *testing.T) {
	calc := NewCalculator()

	f := calc.Compute(3, decimal.RequireFromString("120000"), decimal.RequireFromString("60000"), officeTiers())

	assert.Equal(t, "450.00", f.TierBonusAmount.StringFixed(2))
	assert.Equal(t, "5000.00", f.MonthlySalary.StringFixed(2))
	assert.Equal(t, "6000.00", f.CommissionAmount.StringFixed(2))
	assert.Equal(t, "11450.00", f.PlanTotal.StringFixed(2))
}

func TestCompute_TierBonusPerBuilding(t *testing.T) {
	calc := NewCalculator()

	// Five buildings land in the open ended bracket at 200 each.
	f := calc.Compute(5, decimal.Zero, decimal.Zero, officeTiers())

	assert.Equal(t, "1000.00", f.TierBonusAmount.StringFixed(2))
}

func TestCompute_FlatCommission(t *testing.T) {
	calc := NewCalculator()

	tiers := []payplan.Tier{
		{Type: payplan.TierTypeOrderTotal, MinValue: decimal.Zero, MaxValue: nil, BonusAmount: decimal.RequireFromString("750.25"), BonusType: payplan.BonusTypeFlat},
	}

	f := calc.Compute(12, decimal.RequireFromString("999999.99"), decimal.RequireFromString("48000"), tiers)

	// Flat commission ignores order volume entirely.
	assert.Equal(t, "750.25", f.CommissionAmount.StringFixed(2))
	assert.Equal(t, "0.00", f.TierBonusAmount.StringFixed(2))
	assert.Equal(t, "4750.25", f.PlanTotal.StringFixed(2))
}

func TestCompute_NoMatchingTier(t *testing.T) {
	calc := NewCalculator()

	tiers := []payplan.Tier{
		{Type: payplan.TierTypeBuildingsSold, MinValue: decimal.NewFromInt(5), MaxValue: maxVal(9), BonusAmount: decimal.NewFromInt(200), BonusType: payplan.BonusTypeFlat},
	}

	f := calc.Compute(3, decimal.RequireFromString("45000"), decimal.RequireFromString("24000"), tiers)

	assert.Equal(t, "0.00", f.TierBonusAmount.StringFixed(2))
	assert.Equal(t, "0.00", f.CommissionAmount.StringFixed(2))
	assert.Equal(t, "2000.00", f.PlanTotal.StringFixed(2))
}

func TestCompute_DefaultPlanIsZero(t *testing.T) {
	calc := NewCalculator()

	plan := payplan.DefaultPayPlan("rep-1", 3, 2025)
	f := calc.Compute(7, decimal.RequireFromString("88000"), plan.BaseSalary, nil)

	assert.Equal(t, "0.00", f.PlanTotal.StringFixed(2))
	assert.Equal(t, 7, f.BuildingsSold)
	assert.Equal(t, "88000.00", f.TotalOrderAmount.StringFixed(2))
}

func TestCompute_Rounding(t *testing.T) {
	calc := NewCalculator()

	tiers := []payplan.Tier{
		{Type: payplan.TierTypeOrderTotal, MinValue: decimal.Zero, MaxValue: nil, BonusAmount: decimal.NewFromInt(5), BonusType: payplan.BonusTypePercentage},
	}

	// 2550.30 / 12 = 212.525, rounds half away from zero to 212.53.
	// 110.30 x 5 / 100 = 5.515, rounds to 5.52.
	f := calc.Compute(0, decimal.RequireFromString("110.30"), decimal.RequireFromString("2550.30"), tiers)

	assert.Equal(t, "212.53", f.MonthlySalary.StringFixed(2))
	assert.Equal(t, "5.52", f.CommissionAmount.StringFixed(2))
}

func TestMerge_NewEntry(t *testing.T) {
	calc := NewCalculator()

	f := Figures{
		BuildingsSold:    4,
		TotalOrderAmount: decimal.RequireFromString("52000"),
		TierBonusAmount:  decimal.RequireFromString("600"),
		MonthlySalary:    decimal.RequireFromString("4000"),
		CommissionAmount: decimal.RequireFromString("2600"),
		PlanTotal:        decimal.RequireFromString("7200"),
	}

	entry := calc.Merge(nil, "rep-1", 3, 2025, f)

	assert.Equal(t, "rep-1", entry.RepresentativeID)
	assert.Equal(t, 3, entry.PeriodMonth)
	assert.Equal(t, 2025, entry.PeriodYear)
	assert.Equal(t, ledger.StatusPending, entry.Status)
	assert.True(t, entry.CancellationDeduction.IsZero())
	assert.True(t, entry.Adjustment.IsZero())
	assert.Nil(t, entry.ReviewedBy)
	assert.Equal(t, "7200.00", entry.FinalAmount.StringFixed(2))
}

func TestMerge_PreservesReviewFields(t *testing.T) {
	calc := NewCalculator()

	reviewedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	existing := &ledger.LedgerEntry{
		ID:                    "entry-1",
		RepresentativeID:      "rep-1",
		PeriodMonth:           3,
		PeriodYear:            2025,
		PlanTotal:             decimal.RequireFromString("9000"),
		CancellationDeduction: decimal.RequireFromString("1000"),
		Adjustment:            decimal.RequireFromString("-200"),
		Notes:                 strPtr("two cancellations in week 2"),
		Status:                ledger.StatusApproved,
		ReviewedBy:            strPtr("user-9"),
		ReviewedByName:        strPtr("Dana Reed"),
		ReviewedAt:            &reviewedAt,
		FinalAmount:           decimal.RequireFromString("7800"),
	}

	f := Figures{
		BuildingsSold:    3,
		TotalOrderAmount: decimal.RequireFromString("120000"),
		TierBonusAmount:  decimal.RequireFromString("450"),
		MonthlySalary:    decimal.RequireFromString("5000"),
		CommissionAmount: decimal.RequireFromString("6000"),
		PlanTotal:        decimal.RequireFromString("11450"),
	}

	entry := calc.Merge(existing, "rep-1", 3, 2025, f)

	assert.Equal(t, "entry-1", entry.ID)
	assert.Equal(t, ledger.StatusApproved, entry.Status)
	assert.Equal(t, "1000.00", entry.CancellationDeduction.StringFixed(2))
	assert.Equal(t, "-200.00", entry.Adjustment.StringFixed(2))
	assert.Equal(t, "two cancellations in week 2", *entry.Notes)
	assert.Equal(t, "user-9", *entry.ReviewedBy)
	assert.Equal(t, "Dana Reed", *entry.ReviewedByName)
	assert.Equal(t, reviewedAt, *entry.ReviewedAt)

	// 11450 - 1000 + (-200)
	assert.Equal(t, "10250.00", entry.FinalAmount.StringFixed(2))
}

func TestMerge_SmallAdjustmentSurvives(t *testing.T) {
	calc := NewCalculator()

	existing := &ledger.LedgerEntry{
		ID:                    "entry-2",
		CancellationDeduction: decimal.Zero,
		Adjustment:            decimal.RequireFromString("50"),
		Status:                ledger.StatusPending,
	}

	f := Figures{PlanTotal: decimal.RequireFromString("6000")}

	entry := calc.Merge(existing, "rep-2", 4, 2025, f)

	assert.Equal(t, "50.00", entry.Adjustment.StringFixed(2))
	assert.Equal(t, "6050.00", entry.FinalAmount.StringFixed(2))
}
