package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
)

// LedgerJobs keeps the current period's ledger close to live order
// data between manual generation runs. Regeneration is idempotent and
// the period lock serializes it against manual runs, so running it on
// a timer is safe.
type LedgerJobs struct {
	ledgerService ledger.LedgerService
	auditService  audit.AuditService
}

func NewLedgerJobs(ledgerService ledger.LedgerService, auditService audit.AuditService) *LedgerJobs {
	return &LedgerJobs{
		ledgerService: ledgerService,
		auditService:  auditService,
	}
}

func (j *LedgerJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("refresh_current_period_ledger", interval, j.RefreshCurrentPeriod)
}

func (j *LedgerJobs) RefreshCurrentPeriod(ctx context.Context) error {
	now := time.Now().UTC()
	req := ledger.GenerateLedgerRequest{
		Month: int(now.Month()),
		Year:  now.Year(),
	}

	result, err := j.ledgerService.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to refresh current period ledger: %w", err)
	}

	j.auditService.Record(ctx, audit.AuditEntry{
		RunID:       &result.RunID,
		ActorID:     "system",
		ActorName:   "System",
		Action:      audit.ActionLedgerGenerate,
		PeriodMonth: &req.Month,
		PeriodYear:  &req.Year,
		Detail: map[string]interface{}{
			"entry_count":    len(result.Entries),
			"unmatched":      len(result.UnmatchedNames),
			"approved_drift": len(result.ApprovedDrift),
		},
	})

	slog.Info("Cron: refreshed current period ledger",
		"month", req.Month,
		"year", req.Year,
		"run_id", result.RunID,
		"entry_count", len(result.Entries),
		"unmatched", len(result.UnmatchedNames),
		"approved_drift", len(result.ApprovedDrift))
	return nil
}
