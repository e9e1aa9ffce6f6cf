package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/supporthub/support-desk/internal/model"
)

// AuditFilter narrows audit listings. Zero values mean "no filter".
type AuditFilter struct {
	Kind       model.AuditKind
	CustomerID int64
}

// AuditWriter is the append-only write half used by the recorder.
type AuditWriter interface {
	Insert(ctx context.Context, e *model.AuditEntry) error
}

// AuditReader is the read half; the ClickHouse repository implements it
// too, so the list endpoint can be pointed at the analytics store.
type AuditReader interface {
	List(ctx context.Context, f AuditFilter, limit, offset int) ([]model.AuditEntry, error)
	GetByID(ctx context.Context, id int64) (*model.AuditEntry, error)
}

// AuditRepository is intentionally insert-and-read only. The trail is
// immutable: there are no update or delete methods to misuse.
type AuditRepository interface {
	AuditWriter
	AuditReader
}

type AuditRepositoryImpl struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepositoryImpl {
	return &AuditRepositoryImpl{db: db}
}

var _ AuditRepository = (*AuditRepositoryImpl)(nil)

const auditCols = `id, kind, description, customer_id, actor, source_ip, metadata, created_at`

func (r *AuditRepositoryImpl) Insert(ctx context.Context, e *model.AuditEntry) error {
	metadata := e.Metadata
	if len(metadata) == 0 {
		metadata = []byte(`{}`)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log
		    (kind, description, customer_id, actor, source_ip, metadata, created_at)
		VALUES
		    (?, ?, ?, ?, ?, ?, ?)
	`, e.Kind.String(), e.Description, e.CustomerID, e.Actor, e.SourceIP, []byte(metadata), e.CreatedAt)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (r *AuditRepositoryImpl) List(ctx context.Context, f AuditFilter, limit, offset int) ([]model.AuditEntry, error) {
	q := `SELECT ` + auditCols + ` FROM audit_log`
	args := []any{}
	where := ""
	if f.Kind != "" {
		where = ` WHERE kind = ?`
		args = append(args, f.Kind.String())
	}
	if f.CustomerID > 0 {
		if where == "" {
			where = ` WHERE customer_id = ?`
		} else {
			where += ` AND customer_id = ?`
		}
		args = append(args, f.CustomerID)
	}
	q += where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []model.AuditEntry
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

func (r *AuditRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.AuditEntry, error) {
	var e model.AuditEntry
	err := r.db.GetContext(ctx, &e, `
		SELECT `+auditCols+` FROM audit_log WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
