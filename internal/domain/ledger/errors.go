package ledger

import "errors"

var (
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrInvalidPeriod       = errors.New("month must be between 1 and 12 and year between 2000 and 2100")

	// Approving an entry twice is a conflict, not a silent no-op, so a
	// stale review UI finds out it is stale.
	ErrLedgerEntryAlreadyApproved = errors.New("ledger entry is already approved")
	ErrEntryNotApproved           = errors.New("ledger entry is not approved")
	ErrNoEntriesApproved          = errors.New("no entries matched the given ids")
)
