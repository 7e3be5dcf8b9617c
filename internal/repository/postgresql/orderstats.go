package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
)

// orderStatsRepository aggregates the local orders table. It is the
// direct mode orders.StatsSource: generation plugs it in when no
// external order platform is configured.
type orderStatsRepository struct {
	db *database.DB
}

func NewOrderStatsRepository(db *database.DB) orders.StatsSource {
	return &orderStatsRepository{db: db}
}

// AggregateForPeriod aggregates completed orders for one calendar month.
// sold_at can be missing on older rows, which fall back to created_at.
// Cancelled orders never count. Direct mode joins on representative
// ids, so there is never anything to reconcile and UnmatchedNames
// stays empty.
func (r *orderStatsRepository) AggregateForPeriod(ctx context.Context, month, year int) (*orders.StatsResult, error) {
	q := GetQuerier(ctx, r.db)

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `
		SELECT representative_id,
			   COUNT(*) AS buildings_sold,
			   COALESCE(SUM(total_amount), 0) AS total_order_amount
		FROM orders
		WHERE representative_id IS NOT NULL
		  AND status <> 'cancelled'
		  AND COALESCE(sold_at, created_at) >= $1
		  AND COALESCE(sold_at, created_at) < $2
		GROUP BY representative_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order statistics: %w", err)
	}
	defer rows.Close()

	result := &orders.StatsResult{Stats: make(map[string]orders.OrderStats)}
	for rows.Next() {
		var s orders.OrderStats
		if err := rows.Scan(&s.RepresentativeID, &s.BuildingsSold, &s.TotalOrderAmount); err != nil {
			return nil, fmt.Errorf("failed to scan order statistics: %w", err)
		}
		result.Stats[s.RepresentativeID] = s
	}

	return result, nil
}
