package orders

import "context"

// StatsSource produces order statistics for one calendar period.
// Implementations exist for the local orders table and for the
// ShedSuite API; ledger generation does not care which one it got.
type StatsSource interface {
	AggregateForPeriod(ctx context.Context, month, year int) (*StatsResult, error)
}
