package orders

import "errors"

// ErrSourceUnavailable aborts ledger generation before anything is
// written. Better no ledger than a ledger computed from zeros.
var ErrSourceUnavailable = errors.New("order statistics source unavailable")
