package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/auth"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/cache"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/sse"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

const (
	summaryCachePrefix = "ledger:summary:"
	summaryCacheTTL    = 15 * time.Minute

	// Actor recorded when generation runs without a signed in user,
	// which happens on scheduled refreshes.
	systemActorID   = "system"
	systemActorName = "System"
)

type LedgerServiceImpl struct {
	txManager      ledger.TransactionManager
	ledgerRepo     ledger.LedgerRepository
	repRepo        representative.RepresentativeRepository
	payPlanRepo    payplan.PayPlanRepository
	officePlanRepo payplan.OfficePlanRepository
	statsSource    orders.StatsSource
	sourceMode     orders.SourceMode
	calculator     *Calculator
	cache          cache.Store
	hub            *sse.Hub
}

func NewLedgerService(
	txManager ledger.TransactionManager,
	ledgerRepo ledger.LedgerRepository,
	repRepo representative.RepresentativeRepository,
	payPlanRepo payplan.PayPlanRepository,
	officePlanRepo payplan.OfficePlanRepository,
	statsSource orders.StatsSource,
	sourceMode orders.SourceMode,
	calculator *Calculator,
	cacheStore cache.Store,
	hub *sse.Hub,
) ledger.LedgerService {
	return &LedgerServiceImpl{
		txManager:      txManager,
		ledgerRepo:     ledgerRepo,
		repRepo:        repRepo,
		payPlanRepo:    payPlanRepo,
		officePlanRepo: officePlanRepo,
		statsSource:    statsSource,
		sourceMode:     sourceMode,
		calculator:     calculator,
		cache:          cacheStore,
		hub:            hub,
	}
}

// getReviewerFromContext extracts the authenticated user from JWT claims.
func getReviewerFromContext(ctx context.Context) (string, string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}

	reviewerID, _ := claims["user_id"].(string)
	if reviewerID == "" {
		return "", "", auth.ErrInvalidToken
	}

	reviewerName, _ := claims["name"].(string)
	if reviewerName == "" {
		reviewerName, _ = claims["email"].(string)
	}

	return reviewerID, reviewerName, nil
}

// getActorFromContext is the lenient variant for operations the
// scheduler also triggers. No claims means the system actor.
func getActorFromContext(ctx context.Context) (string, string) {
	actorID, actorName, err := getReviewerFromContext(ctx)
	if err != nil {
		return systemActorID, systemActorName
	}
	return actorID, actorName
}

// ========== Generation ==========

// Generate builds or refreshes the ledger for one period. The roster,
// order stats, pay plans and office plans are loaded up front; if any
// of them fails, nothing is written. All entry writes happen in a
// single transaction behind a per period advisory lock, so a run
// racing another for the same month simply waits its turn, and a
// failed run leaves the previous ledger intact.
func (s *LedgerServiceImpl) Generate(ctx context.Context, req ledger.GenerateLedgerRequest) (*ledger.GenerateLedgerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	actorID, _ := getActorFromContext(ctx)
	runTime := time.Now().UTC()

	var (
		roster        []representative.Representative
		stats         *orders.StatsResult
		plans         map[string]payplan.PayPlan
		tiersByOffice map[string][]payplan.Tier
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.repRepo.ListActive(gctx)
		if err != nil {
			return fmt.Errorf("failed to load representative roster: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.statsSource.AggregateForPeriod(gctx, req.Month, req.Year)
		return err
	})
	g.Go(func() error {
		var err error
		plans, err = s.payPlanRepo.ListByPeriod(gctx, req.Month, req.Year)
		if err != nil {
			return fmt.Errorf("failed to load pay plans: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tiersByOffice, err = s.officePlanRepo.ListByPeriod(gctx, req.Month, req.Year)
		if err != nil {
			return fmt.Errorf("failed to load office plans: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unmatched := stats.UnmatchedNames
	if unmatched == nil {
		unmatched = []string{}
	}

	resp := &ledger.GenerateLedgerResponse{
		RunID:          uuid.NewString(),
		PeriodMonth:    req.Month,
		PeriodYear:     req.Year,
		Entries:        make([]ledger.LedgerEntryResponse, 0, len(roster)),
		UnmatchedNames: unmatched,
		ApprovedDrift:  []ledger.ApprovedDrift{},
	}

	var created, updated, approvedKept int

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.ledgerRepo.GetEntriesForPeriodLocked(txCtx, req.Month, req.Year)
		if err != nil {
			return err
		}

		for _, rep := range roster {
			plan, ok := plans[rep.ID]
			if !ok {
				plan = *payplan.DefaultPayPlan(rep.ID, req.Month, req.Year)
			}

			repStats := stats.Stats[rep.ID]
			figures := s.calculator.Compute(repStats.BuildingsSold, repStats.TotalOrderAmount, plan.BaseSalary, tiersByOffice[rep.Office])

			var prior *ledger.LedgerEntry
			if e, ok := existing[rep.ID]; ok {
				prior = &e
			}

			entry := s.calculator.Merge(prior, rep.ID, req.Month, req.Year, figures)
			entry.GeneratedAt = runTime

			if prior != nil && prior.Status == ledger.StatusApproved && !prior.FinalAmount.Equal(entry.FinalAmount) {
				resp.ApprovedDrift = append(resp.ApprovedDrift, ledger.ApprovedDrift{
					EntryID:             prior.ID,
					RepresentativeID:    rep.ID,
					PreviousFinalAmount: prior.FinalAmount,
					NewFinalAmount:      entry.FinalAmount,
				})
			}

			saved, err := s.ledgerRepo.UpsertEntry(txCtx, entry)
			if err != nil {
				return fmt.Errorf("failed to write ledger entry for representative %s: %w", rep.ID, err)
			}

			entryResp := mapToEntryResponse(saved)
			name, office := rep.FullName, rep.Office
			entryResp.RepresentativeName = &name
			entryResp.Office = &office
			entryResp.LineItems = plan.LineItems
			resp.Entries = append(resp.Entries, entryResp)

			switch {
			case prior == nil:
				created++
			case prior.Status == ledger.StatusApproved:
				approvedKept++
			default:
				updated++
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		slog.Warn("Failed to invalidate summary cache", "error", err)
	}

	if len(resp.UnmatchedNames) > 0 {
		slog.Warn("Order groups without a matching representative",
			"run_id", resp.RunID,
			"period_month", req.Month,
			"period_year", req.Year,
			"names", resp.UnmatchedNames,
		)
	}
	if len(resp.ApprovedDrift) > 0 {
		slog.Warn("Approved entries drifted after regeneration",
			"run_id", resp.RunID,
			"period_month", req.Month,
			"period_year", req.Year,
			"count", len(resp.ApprovedDrift),
		)
	}

	s.hub.Publish(sse.TopicLedger, sse.Event{
		Event: "ledger.generated",
		Data: map[string]interface{}{
			"month":       req.Month,
			"year":        req.Year,
			"run_id":      resp.RunID,
			"entry_count": len(resp.Entries),
		},
	})

	slog.Info("Ledger generation completed",
		"run_id", resp.RunID,
		"period_month", req.Month,
		"period_year", req.Year,
		"source", string(s.sourceMode),
		"roster_size", len(roster),
		"created", created,
		"updated", updated,
		"approved_kept", approvedKept,
		"unmatched", len(resp.UnmatchedNames),
		"approved_drift", len(resp.ApprovedDrift),
		"actor_id", actorID,
	)

	return resp, nil
}

// ========== Review ==========

func (s *LedgerServiceImpl) List(ctx context.Context, filter ledger.LedgerFilter) ([]ledger.LedgerEntryResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.ledgerRepo.ListByPeriod(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// One batch read covers every entry's line items; the filter
	// always pins a single period.
	plans, err := s.payPlanRepo.ListByPeriod(ctx, filter.Month, filter.Year)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ledger.LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := mapToEntryResponse(entry)
		if plan, ok := plans[entry.RepresentativeID]; ok {
			resp.LineItems = plan.LineItems
		}
		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (s *LedgerServiceImpl) GetByID(ctx context.Context, id string) (*ledger.LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := mapToEntryResponse(entry)
	s.attachLineItems(ctx, &resp)
	return &resp, nil
}

func (s *LedgerServiceImpl) Update(ctx context.Context, id string, req ledger.UpdateLedgerEntryRequest) (*ledger.LedgerEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.UpdateOverrides(ctx, id, req); err != nil {
		return nil, err
	}

	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		slog.Warn("Failed to invalidate summary cache", "error", err)
	}

	s.hub.Publish(sse.TopicLedger, sse.Event{
		Event: "entry.updated",
		Data: map[string]interface{}{
			"entry_id":     entry.ID,
			"final_amount": entry.FinalAmount,
		},
	})

	resp := mapToEntryResponse(entry)
	s.attachLineItems(ctx, &resp)
	return &resp, nil
}

func (s *LedgerServiceImpl) Approve(ctx context.Context, req ledger.ApproveLedgerRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	reviewerID, reviewerName, err := getReviewerFromContext(ctx)
	if err != nil {
		return 0, err
	}

	approved, matched, err := s.ledgerRepo.ApproveEntries(ctx, req.EntryIDs, reviewerID, reviewerName)
	if err != nil {
		return 0, err
	}
	if approved == 0 {
		if matched > 0 {
			return 0, ledger.ErrLedgerEntryAlreadyApproved
		}
		return 0, ledger.ErrNoEntriesApproved
	}

	if err := s.cache.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		slog.Warn("Failed to invalidate summary cache", "error", err)
	}

	s.hub.Publish(sse.TopicLedger, sse.Event{
		Event: "entries.approved",
		Data: map[string]interface{}{
			"approved_count": approved,
			"reviewed_by":    reviewerName,
		},
	})

	return approved, nil
}

func (s *LedgerServiceImpl) Reopen(ctx context.Context, id string) (*ledger.LedgerEntryResponse, error) {
	if err := s.ledgerRepo.ReopenEntry(ctx, id); err != nil {
		return nil, err
	}

	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		slog.Warn("Failed to invalidate summary cache", "error", err)
	}

	s.hub.Publish(sse.TopicLedger, sse.Event{
		Event: "entry.reopened",
		Data: map[string]interface{}{
			"entry_id": entry.ID,
		},
	})

	resp := mapToEntryResponse(entry)
	s.attachLineItems(ctx, &resp)
	return &resp, nil
}

// ========== Aggregations ==========

func (s *LedgerServiceImpl) Summary(ctx context.Context, month, year int) (*ledger.SummaryResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return nil, ledger.ErrInvalidPeriod
	}

	key := fmt.Sprintf("%s%d:%d", summaryCachePrefix, year, month)

	var cached ledger.SummaryResponse
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		slog.Warn("Failed to read summary cache", "key", key, "error", err)
	}
	if hit {
		return &cached, nil
	}

	summary, err := s.ledgerRepo.GetSummary(ctx, month, year)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, summary, summaryCacheTTL); err != nil {
		slog.Warn("Failed to write summary cache", "key", key, "error", err)
	}

	return &summary, nil
}

// ========== Helpers ==========

// attachLineItems decorates a single entry response with its pay plan
// line items. Missing plans mean no items; other read failures only
// cost the decoration, never the entry.
func (s *LedgerServiceImpl) attachLineItems(ctx context.Context, resp *ledger.LedgerEntryResponse) {
	plan, err := s.payPlanRepo.GetByRepresentativeAndPeriod(ctx, resp.RepresentativeID, resp.PeriodMonth, resp.PeriodYear)
	if err != nil {
		if !errors.Is(err, payplan.ErrPayPlanNotFound) {
			slog.Warn("Failed to load pay plan line items", "entry_id", resp.ID, "error", err)
		}
		return
	}
	resp.LineItems = plan.LineItems
}

func mapToEntryResponse(entry ledger.LedgerEntry) ledger.LedgerEntryResponse {
	return ledger.LedgerEntryResponse{
		ID:                    entry.ID,
		RepresentativeID:      entry.RepresentativeID,
		RepresentativeName:    entry.RepresentativeName,
		Office:                entry.Office,
		PeriodMonth:           entry.PeriodMonth,
		PeriodYear:            entry.PeriodYear,
		BuildingsSold:         entry.BuildingsSold,
		TotalOrderAmount:      entry.TotalOrderAmount,
		TierBonusAmount:       entry.TierBonusAmount,
		MonthlySalary:         entry.MonthlySalary,
		CommissionAmount:      entry.CommissionAmount,
		PlanTotal:             entry.PlanTotal,
		CancellationDeduction: entry.CancellationDeduction,
		Adjustment:            entry.Adjustment,
		FinalAmount:           entry.FinalAmount,
		Notes:                 entry.Notes,
		Status:                string(entry.Status),
		ReviewedBy:            entry.ReviewedBy,
		ReviewedByName:        entry.ReviewedByName,
		ReviewedAt:            entry.ReviewedAt,
		GeneratedAt:           entry.GeneratedAt,
		CreatedAt:             entry.CreatedAt,
		UpdatedAt:             entry.UpdatedAt,
	}
}
