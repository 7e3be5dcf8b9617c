package audit

import "context"

// AuditService records and lists audit trail entries. Recording is
// done by the callers of ledger and plan operations, never by the
// operations themselves, so reads stay side effect free.
type AuditService interface {
	Record(ctx context.Context, entry AuditEntry)
	ListByPeriod(ctx context.Context, month, year, limit int) ([]AuditEntryResponse, error)
}
