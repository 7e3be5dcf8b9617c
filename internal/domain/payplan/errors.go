package payplan

import "errors"

var (
	ErrPayPlanNotFound    = errors.New("pay plan not found")
	ErrOfficePlanNotFound = errors.New("office plan not found")

	// Tier table discipline, rejected at plan write time.
	ErrTierOrder        = errors.New("tiers must ascend by min_value")
	ErrTierRangeOverlap = errors.New("tier ranges overlap")
)
