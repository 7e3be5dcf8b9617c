package orders

import (
	"github.com/shopspring/decimal"
)

// OrderStats is the per representative aggregate for one period:
// how many buildings were sold and the summed order amount, with
// cancelled orders excluded.
type OrderStats struct {
	RepresentativeID string          `json:"representative_id"`
	BuildingsSold    int             `json:"buildings_sold"`
	TotalOrderAmount decimal.Decimal `json:"total_order_amount"`
}

// StatsResult is what an order statistics source produces for a
// period. Stats is keyed by representative ID. UnmatchedNames lists
// the sales person names whose orders matched nobody on the roster;
// only external sources populate it, the direct source joins on IDs
// and cannot mismatch.
type StatsResult struct {
	Stats          map[string]OrderStats
	UnmatchedNames []string
}

// ExternalOrder is one raw order row fetched from an external order
// source. SalesPerson is free text typed by whoever entered the order.
type ExternalOrder struct {
	OrderID     string
	SalesPerson string
	Status      string
	TotalAmount decimal.Decimal
}

const StatusCancelled = "cancelled"

// RosterMember is the slice of a representative that reconciliation
// needs. The caller builds it from the roster so this package stays
// independent of the representative domain.
type RosterMember struct {
	RepresentativeID string
	FullName         string
}

// SourceMode selects where order statistics come from.
type SourceMode string

const (
	// SourceModeLocal aggregates from the orders table in this
	// database, which references representatives by ID.
	SourceModeLocal SourceMode = "local"
	// SourceModeShedSuite pulls orders from the ShedSuite API and
	// reconciles free text sales person names against the roster.
	SourceModeShedSuite SourceMode = "shedsuite"
)
