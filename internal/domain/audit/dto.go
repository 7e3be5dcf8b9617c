package audit

import "time"

type AuditEntryResponse struct {
	ID          string                 `json:"id"`
	RunID       *string                `json:"run_id,omitempty"`
	ActorID     string                 `json:"actor_id"`
	ActorName   string                 `json:"actor_name"`
	Action      string                 `json:"action"`
	EntityID    *string                `json:"entity_id,omitempty"`
	PeriodMonth *int                   `json:"period_month,omitempty"`
	PeriodYear  *int                   `json:"period_year,omitempty"`
	Detail      map[string]interface{} `json:"detail,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
