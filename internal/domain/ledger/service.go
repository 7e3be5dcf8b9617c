package ledger

import "context"

// LedgerService is the compensation ledger engine. Generate is
// idempotent: rerunning a period recomputes order derived figures and
// leaves reviewer owned fields alone.
type LedgerService interface {
	Generate(ctx context.Context, req GenerateLedgerRequest) (*GenerateLedgerResponse, error)
	List(ctx context.Context, filter LedgerFilter) ([]LedgerEntryResponse, int64, error)
	GetByID(ctx context.Context, id string) (*LedgerEntryResponse, error)
	Update(ctx context.Context, id string, req UpdateLedgerEntryRequest) (*LedgerEntryResponse, error)
	Approve(ctx context.Context, req ApproveLedgerRequest) (int64, error)
	Reopen(ctx context.Context, id string) (*LedgerEntryResponse, error)
	Summary(ctx context.Context, month, year int) (*SummaryResponse, error)
}
