package audit

import "context"

type AuditRepository interface {
	Insert(ctx context.Context, entry AuditEntry) (AuditEntry, error)
	// ListByPeriod returns the newest entries first. A zero month or
	// year leaves that part of the period unfiltered.
	ListByPeriod(ctx context.Context, month, year, limit int) ([]AuditEntry, error)
}
