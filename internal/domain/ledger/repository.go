package ledger

import "context"

// LedgerRepository defines data access for compensation ledger entries.
type LedgerRepository interface {
	// Generation
	//
	// GetEntriesForPeriodLocked loads every existing entry for the
	// period in one query, keyed by representative. It must be called
	// inside a transaction: it first takes a transaction scoped
	// advisory lock on the period, so concurrent generation runs for
	// the same month serialize, then selects the rows FOR UPDATE so
	// review edits block until the run commits.
	GetEntriesForPeriodLocked(ctx context.Context, month, year int) (map[string]LedgerEntry, error)
	UpsertEntry(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)

	// Review
	GetByID(ctx context.Context, id string) (LedgerEntry, error)
	ListByPeriod(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error)
	// UpdateOverrides applies the reviewer owned fields and recomputes
	// final_amount from the stored plan_total. Editing an approved
	// entry reopens it: status drops back to pending and the reviewer
	// fields clear.
	UpdateOverrides(ctx context.Context, id string, req UpdateLedgerEntryRequest) error
	// ApproveEntries marks pending entries approved. It reports how
	// many ids matched any entry at all and how many were actually
	// approved, so callers can tell stale ids from already approved
	// ones.
	ApproveEntries(ctx context.Context, ids []string, reviewerID, reviewerName string) (approved, matched int64, err error)
	ReopenEntry(ctx context.Context, id string) error

	// Aggregations
	GetSummary(ctx context.Context, month, year int) (SummaryResponse, error)
}

// TransactionManager runs fn inside a database transaction. Repository
// calls made with the ctx passed to fn join that transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
