package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/supporthub/support-desk/internal/model"
)

// CHAuditRepository reads the audit trail from ClickHouse (final view,
// populated from the Kafka audit topic by the analytics pipeline). It is
// the read-side counterpart of the Kafka publisher in the recorder; rows
// here may lag the MySQL trail by ingestion delay.
type chAuditRepository struct {
	ch *sqlx.DB
}

func NewCHAuditRepository(ch *sqlx.DB) AuditReader {
	return &chAuditRepository{ch: ch}
}

func (r *chAuditRepository) List(ctx context.Context, f AuditFilter, limit, offset int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, kind, description, customer_id, actor, source_ip, metadata, created_at
		FROM supdesk.audit_log_latest
		WHERE 1 = 1
	`
	args := []any{}
	if f.Kind != "" {
		q += " AND kind = ?"
		args = append(args, f.Kind.String())
	}
	if f.CustomerID > 0 {
		q += " AND customer_id = ?"
		args = append(args, f.CustomerID)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.AuditEntry
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chAuditRepository) GetByID(ctx context.Context, id int64) (*model.AuditEntry, error) {
	var rows []model.AuditEntry
	err := r.ch.SelectContext(ctx, &rows, `
		SELECT id, kind, description, customer_id, actor, source_ip, metadata, created_at
		FROM supdesk.audit_log_latest
		WHERE id = ? LIMIT 1
	`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
