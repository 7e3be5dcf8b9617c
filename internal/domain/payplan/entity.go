package payplan

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayPlan holds one representative's compensation settings for one
// period. BaseSalary is annual; the ledger pays one twelfth of it each
// month. LineItems are free form annotations (label + amount) shown to
// reviewers next to the generated entry; they do not enter the formula.
type PayPlan struct {
	ID               string
	RepresentativeID string
	PeriodMonth      int
	PeriodYear       int
	BaseSalary       decimal.Decimal
	LineItems        []LineItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineItem order is the order items were configured in.
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type TierType string

const (
	TierTypeBuildingsSold TierType = "BUILDINGS_SOLD"
	TierTypeOrderTotal    TierType = "ORDER_TOTAL"
)

type BonusType string

const (
	BonusTypeFlat       BonusType = "FLAT"
	BonusTypePercentage BonusType = "PERCENTAGE"
)

// Tier is one bonus bracket of an office plan. A value matches the
// bracket when MinValue <= value <= MaxValue; a nil MaxValue means the
// bracket is open ended.
//
// BUILDINGS_SOLD tiers are matched against the number of buildings a
// representative sold and pay BonusAmount per building; their BonusType
// must be FLAT. ORDER_TOTAL tiers are matched against the total order
// amount and pay BonusAmount exactly (FLAT) or as a percentage of the
// total (PERCENTAGE).
type Tier struct {
	Type        TierType         `json:"type"`
	MinValue    decimal.Decimal  `json:"min_value"`
	MaxValue    *decimal.Decimal `json:"max_value"`
	BonusAmount decimal.Decimal  `json:"bonus_amount"`
	BonusType   BonusType        `json:"bonus_type"`
}

// OfficePlan is the tier table configured for one sales office and
// period. Tier order is the order brackets were configured in and is
// significant: matching walks the slice front to back.
type OfficePlan struct {
	ID          string
	Office      string
	PeriodMonth int
	PeriodYear  int
	Tiers       []Tier
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultPayPlan is used when a representative has no plan configured
// for the period. Everything computes to zero so generation never fails
// on a missing plan.
func DefaultPayPlan(representativeID string, month, year int) *PayPlan {
	return &PayPlan{
		RepresentativeID: representativeID,
		PeriodMonth:      month,
		PeriodYear:       year,
		BaseSalary:       decimal.Zero,
		LineItems:        []LineItem{},
	}
}

// DefaultOfficePlan has no tiers, so no bracket ever matches and every
// bonus is zero.
func DefaultOfficePlan(office string, month, year int) *OfficePlan {
	return &OfficePlan{
		Office:      office,
		PeriodMonth: month,
		PeriodYear:  year,
		Tiers:       []Tier{},
	}
}
