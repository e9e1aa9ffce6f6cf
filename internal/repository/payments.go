package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/supporthub/support-desk/internal/model"
)

// PaymentsRepository defines persistence for the payments table.
// There are no update or delete methods: payments are append-only and a
// persisted row has already been reflected in its customer's balance.
type PaymentsRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, p *model.Payment) error
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	ListRecent(ctx context.Context, customerID int64, limit int) ([]model.Payment, error)
	List(ctx context.Context, customerID int64, limit, offset int) ([]model.Payment, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}

type PaymentsRepositoryImpl struct {
	db *sqlx.DB
}

func NewPaymentsRepository(db *sqlx.DB) *PaymentsRepositoryImpl {
	return &PaymentsRepositoryImpl{db: db}
}

var _ PaymentsRepository = (*PaymentsRepositoryImpl)(nil)

const paymentCols = `id, reference, customer_id, amount, description, method, processed_by, created_at`

func (r *PaymentsRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

// Insert writes a payment row and backfills p.ID.
func (r *PaymentsRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, p *model.Payment) error {
	const q = `
		INSERT INTO payments
		    (reference, customer_id, amount, description, method, processed_by, created_at)
		VALUES
		    (?, ?, ?, ?, ?, ?, ?)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q,
			p.Reference, p.CustomerID, p.Amount, p.Description, p.Method.String(), p.ProcessedBy, p.CreatedAt,
		)
		if err != nil {
			return err
		}
		p.ID, err = res.LastInsertId()
		return err
	})
}

func (r *PaymentsRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	err := r.db.GetContext(ctx, &p, `
		SELECT `+paymentCols+` FROM payments WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListRecent returns the newest payments for a customer, newest first.
func (r *PaymentsRepositoryImpl) ListRecent(ctx context.Context, customerID int64, limit int) ([]model.Payment, error) {
	var out []model.Payment
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+paymentCols+`
		  FROM payments
		 WHERE customer_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?
	`, customerID, limit)
	return out, err
}

// List serves the admin collection; customerID = 0 means no filter.
func (r *PaymentsRepositoryImpl) List(ctx context.Context, customerID int64, limit, offset int) ([]model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments`
	args := []any{}
	if customerID > 0 {
		q += ` WHERE customer_id = ?`
		args = append(args, customerID)
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []model.Payment
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

func (r *PaymentsRepositoryImpl) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM payments WHERE customer_id = ?`, customerID)
	return n, err
}
