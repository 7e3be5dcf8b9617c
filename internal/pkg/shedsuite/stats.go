package shedsuite

import (
	"context"
	"fmt"
	"time"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
)

// StatsSource turns raw ShedSuite orders into per representative
// statistics. ShedSuite only knows sales people by the free text name
// typed on the order, so rows are reconciled against the active roster
// and the ones that match nobody are reported, not dropped silently.
type StatsSource struct {
	client  *Client
	repRepo representative.RepresentativeRepository
}

func NewStatsSource(client *Client, repRepo representative.RepresentativeRepository) *StatsSource {
	return &StatsSource{
		client:  client,
		repRepo: repRepo,
	}
}

func (s *StatsSource) AggregateForPeriod(ctx context.Context, month, year int) (*orders.StatsResult, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.client.FetchOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	reps, err := s.repRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for reconciliation: %w", err)
	}

	roster := make([]orders.RosterMember, 0, len(reps))
	for _, rep := range reps {
		roster = append(roster, orders.RosterMember{
			RepresentativeID: rep.ID,
			FullName:         rep.FullName,
		})
	}

	return orders.Reconcile(rows, roster), nil
}

var _ orders.StatsSource = (*StatsSource)(nil)
