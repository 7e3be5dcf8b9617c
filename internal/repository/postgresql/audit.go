package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, entry audit.AuditEntry) (audit.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	var detailJSON []byte
	if entry.Detail != nil {
		var err error
		detailJSON, err = json.Marshal(entry.Detail)
		if err != nil {
			return audit.AuditEntry{}, fmt.Errorf("failed to encode audit detail: %w", err)
		}
	}

	query := `
		INSERT INTO audit_entries (run_id, actor_id, actor_name, action, entity_id, period_month, period_year, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	saved := entry
	err := q.QueryRow(ctx, query,
		entry.RunID, entry.ActorID, entry.ActorName, string(entry.Action),
		entry.EntityID, entry.PeriodMonth, entry.PeriodYear, detailJSON,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return audit.AuditEntry{}, fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return saved, nil
}

// ListByPeriod returns entries newest first. Zero month and year mean
// no period filter.
func (r *auditRepository) ListByPeriod(ctx context.Context, month, year, limit int) ([]audit.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, run_id, actor_id, actor_name, action, entity_id, period_month, period_year, detail, created_at
		FROM audit_entries
		WHERE ($1 = 0 OR period_month = $1)
		  AND ($2 = 0 OR period_year = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, month, year, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.AuditEntry
	for rows.Next() {
		var e audit.AuditEntry
		var detailBytes []byte
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.ActorID, &e.ActorName, &e.Action,
			&e.EntityID, &e.PeriodMonth, &e.PeriodYear, &detailBytes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(detailBytes) > 0 {
			_ = json.Unmarshal(detailBytes, &e.Detail)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
