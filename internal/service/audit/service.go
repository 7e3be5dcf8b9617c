package audit

import (
	"context"
	"log/slog"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
)

type AuditServiceImpl struct {
	auditRepo audit.AuditRepository
}

func NewAuditService(auditRepo audit.AuditRepository) audit.AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

// Record writes one audit entry. It is best effort: a failed write is
// logged and swallowed so the operation being audited still succeeds.
func (s *AuditServiceImpl) Record(ctx context.Context, entry audit.AuditEntry) {
	if _, err := s.auditRepo.Insert(ctx, entry); err != nil {
		slog.Error("Failed to write audit entry",
			"action", entry.Action,
			"actor_id", entry.ActorID,
			"error", err,
		)
	}
}

// ListByPeriod returns the newest entries, optionally narrowed to one
// period. Zero month and year mean the whole trail.
func (s *AuditServiceImpl) ListByPeriod(ctx context.Context, month, year, limit int) ([]audit.AuditEntryResponse, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	entries, err := s.auditRepo.ListByPeriod(ctx, month, year, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]audit.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, audit.AuditEntryResponse{
			ID:          entry.ID,
			RunID:       entry.RunID,
			ActorID:     entry.ActorID,
			ActorName:   entry.ActorName,
			Action:      string(entry.Action),
			EntityID:    entry.EntityID,
			PeriodMonth: entry.PeriodMonth,
			PeriodYear:  entry.PeriodYear,
			Detail:      entry.Detail,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return responses, nil
}
