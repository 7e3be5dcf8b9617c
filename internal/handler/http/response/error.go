package response

import (
	"errors"
	"net/http"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/auth"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrManagerAccessRequired):
		Forbidden(w, "Admin or manager access required")

	// Representative domain errors
	case errors.Is(err, representative.ErrRepresentativeNotFound):
		NotFound(w, "Representative not found")

	// Plan domain errors
	case errors.Is(err, payplan.ErrPayPlanNotFound):
		NotFound(w, "Pay plan not found")
	case errors.Is(err, payplan.ErrOfficePlanNotFound):
		NotFound(w, "Office plan not found")
	case errors.Is(err, payplan.ErrTierOrder), errors.Is(err, payplan.ErrTierRangeOverlap):
		ValidationError(w, map[string]string{"tiers": err.Error()})

	// Ledger domain errors
	case errors.Is(err, ledger.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, ledger.ErrLedgerEntryNotFound):
		NotFound(w, "Ledger entry not found")
	case errors.Is(err, ledger.ErrLedgerEntryAlreadyApproved):
		Conflict(w, "Ledger entry is already approved")
	case errors.Is(err, ledger.ErrEntryNotApproved):
		Conflict(w, "Entry is not approved")
	case errors.Is(err, ledger.ErrNoEntriesApproved):
		Conflict(w, "No entries matched the given ids")

	// Order source errors
	case errors.Is(err, orders.ErrSourceUnavailable):
		BadGateway(w, "Order statistics source is unavailable; ledger was not generated")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
