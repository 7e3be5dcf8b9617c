package audit

import "time"

// AuditEntry is one row of the compensation audit trail. Generation
// runs, reviews and plan changes all leave one. Detail holds action
// specific context and is stored as JSONB.
type AuditEntry struct {
	ID          string
	RunID       *string
	ActorID     string
	ActorName   string
	Action      Action
	EntityID    *string
	PeriodMonth *int
	PeriodYear  *int
	Detail      map[string]interface{}
	CreatedAt   time.Time
}

type Action string

const (
	ActionLedgerGenerate Action = "ledger.generate"
	ActionLedgerOverride Action = "ledger.override"
	ActionLedgerApprove  Action = "ledger.approve"
	ActionLedgerReopen   Action = "ledger.reopen"
	ActionPayPlanSave    Action = "payplan.save"
	ActionOfficePlanSave Action = "officeplan.save"
)
