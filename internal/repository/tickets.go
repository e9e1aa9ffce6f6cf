package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/supporthub/support-desk/internal/model"
)

// TicketsRepository defines persistence for the tickets table.
type TicketsRepository interface {
	Insert(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id int64) (*model.Ticket, error)
	List(ctx context.Context, status model.TicketStatus, limit, offset int) ([]model.Ticket, error)
	Update(ctx context.Context, t *model.Ticket) error
	SetStatus(ctx context.Context, id int64, status model.TicketStatus) error
	BulkResolve(ctx context.Context, ids []int64) (int64, error)
	BulkMarkInProgress(ctx context.Context, ids []int64) (int64, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type TicketsRepositoryImpl struct {
	db *sqlx.DB
}

func NewTicketsRepository(db *sqlx.DB) *TicketsRepositoryImpl {
	return &TicketsRepositoryImpl{db: db}
}

var _ TicketsRepository = (*TicketsRepositoryImpl)(nil)

const ticketCols = `id, customer_id, title, description, status, priority, assignee, created_at, updated_at, resolved_at`

func (r *TicketsRepositoryImpl) Insert(ctx context.Context, t *model.Ticket) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets
		    (customer_id, title, description, status, priority, assignee, created_at, updated_at)
		VALUES
		    (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.CustomerID, t.Title, t.Description, t.Status.String(), t.Priority.String(), t.Assignee, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

func (r *TicketsRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.GetContext(ctx, &t, `
		SELECT `+ticketCols+` FROM tickets WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List serves the admin collection; empty status means no filter.
func (r *TicketsRepositoryImpl) List(ctx context.Context, status model.TicketStatus, limit, offset int) ([]model.Ticket, error) {
	q := `SELECT ` + ticketCols + ` FROM tickets`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status.String())
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []model.Ticket
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

func (r *TicketsRepositoryImpl) Update(ctx context.Context, t *model.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		   SET title = ?, description = ?, priority = ?, assignee = ?, updated_at = NOW()
		 WHERE id = ?
	`, t.Title, t.Description, t.Priority.String(), t.Assignee, t.ID)
	return err
}

// SetStatus overwrites the status. The resolution timestamp is set only
// on the first transition into resolved and never touched otherwise; the
// CASE keeps that rule inside one statement so it holds under concurrency.
func (r *TicketsRepositoryImpl) SetStatus(ctx context.Context, id int64, status model.TicketStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		   SET status = ?,
		       resolved_at = CASE WHEN ? AND resolved_at IS NULL THEN NOW() ELSE resolved_at END,
		       updated_at = NOW()
		 WHERE id = ?
	`, status.String(), status == model.TicketResolved, id)
	return err
}

// BulkResolve resolves tickets that are currently open or in_progress and
// stamps their resolution time; anything else in ids is silently skipped.
func (r *TicketsRepositoryImpl) BulkResolve(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE tickets
		   SET status = 'resolved', resolved_at = NOW(), updated_at = NOW()
		 WHERE id IN (?) AND status IN ('open', 'in_progress')
	`, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BulkMarkInProgress moves open tickets to in_progress, skipping the rest.
func (r *TicketsRepositoryImpl) BulkMarkInProgress(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE tickets
		   SET status = 'in_progress', updated_at = NOW()
		 WHERE id IN (?) AND status = 'open'
	`, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TicketsRepositoryImpl) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tickets WHERE customer_id = ?`, customerID)
	return n, err
}

func (r *TicketsRepositoryImpl) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	return err
}
