package payplan

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

// MatchTier returns the first tier whose range contains value, walking
// the slice in supplied order. It never reorders the slice; callers
// pass tiers of a single type, already sorted by stored position.
// Returns nil when no bracket matches.
func MatchTier(value decimal.Decimal, tiers []Tier) *Tier {
	for i := range tiers {
		t := &tiers[i]
		if value.LessThan(t.MinValue) {
			continue
		}
		if t.MaxValue != nil && value.GreaterThan(*t.MaxValue) {
			continue
		}
		return t
	}
	return nil
}

// FilterTiers keeps the tiers of one type, preserving order.
func FilterTiers(tiers []Tier, tierType TierType) []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.Type == tierType {
			out = append(out, t)
		}
	}
	return out
}

// ValidateTiers checks a tier table before it is persisted. Field
// problems are collected and reported together; range discipline is
// checked per type afterwards: brackets must ascend by min_value, must
// not overlap, and only the last bracket of a type may be open ended.
// Rows that predate validation are still matched first-match-wins.
func ValidateTiers(tiers []Tier) error {
	var errs validator.ValidationErrors

	for i, t := range tiers {
		field := "tiers[" + validator.Itoa(i) + "]"

		switch t.Type {
		case TierTypeBuildingsSold, TierTypeOrderTotal:
		default:
			errs = append(errs, validator.ValidationError{
				Field:   field + ".type",
				Message: "Tier type must be BUILDINGS_SOLD or ORDER_TOTAL",
			})
		}

		switch t.BonusType {
		case BonusTypeFlat:
		case BonusTypePercentage:
			if t.Type == TierTypeBuildingsSold {
				errs = append(errs, validator.ValidationError{
					Field:   field + ".bonus_type",
					Message: "Percentage bonuses are only valid on ORDER_TOTAL tiers",
				})
			} else if t.BonusAmount.GreaterThan(decimal.NewFromInt(100)) {
				errs = append(errs, validator.ValidationError{
					Field:   field + ".bonus_amount",
					Message: "Percentage bonus must be between 0 and 100",
				})
			}
		default:
			errs = append(errs, validator.ValidationError{
				Field:   field + ".bonus_type",
				Message: "Bonus type must be FLAT or PERCENTAGE",
			})
		}

		if t.MinValue.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".min_value",
				Message: "Minimum value must not be negative",
			})
		}
		if t.MaxValue != nil && t.MaxValue.LessThan(t.MinValue) {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".max_value",
				Message: "Maximum value must be greater than or equal to minimum",
			})
		}
		if t.BonusAmount.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".bonus_amount",
				Message: "Bonus amount must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	for _, tierType := range []TierType{TierTypeBuildingsSold, TierTypeOrderTotal} {
		subset := FilterTiers(tiers, tierType)
		for i := 1; i < len(subset); i++ {
			prev, cur := subset[i-1], subset[i]
			if cur.MinValue.LessThan(prev.MinValue) {
				return fmt.Errorf("%s tiers: %w", tierType, ErrTierOrder)
			}
			if prev.MaxValue == nil {
				return fmt.Errorf("%s tiers: open ended bracket must be last: %w", tierType, ErrTierRangeOverlap)
			}
			if cur.MinValue.LessThanOrEqual(*prev.MaxValue) {
				return fmt.Errorf("%s tiers: %w", tierType, ErrTierRangeOverlap)
			}
		}
	}

	return nil
}
