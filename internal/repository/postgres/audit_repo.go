package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"tedred-internship-api/pkg/audit"
)

type AuditRepo struct {
	db DBTX
}

// NewAuditRepository stores audit events; its Insert is an audit.PersistFunc
func NewAuditRepository(db DBTX) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e audit.Event) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `
		INSERT INTO wizard_audit_events (
			event, level, session_id, reference_number, subject, request_id, details, created_at
		)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)`

	_, err = r.db.Exec(ctx, query,
		string(e.Event),
		e.Level,
		e.SessionID,
		e.Reference,
		e.Subject,
		e.RequestID,
		details,
		e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}
