package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/model"
)

// CustomersRepository defines persistence for the customers table.
// Methods that may participate in a caller-owned transaction take a tx.
type CustomersRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetActive(ctx context.Context, id int64) (*model.Customer, error)
	GetActiveForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Customer, error)
	AddToBalance(ctx context.Context, tx *sqlx.Tx, id int64, amount decimal.Decimal) error
	Search(ctx context.Context, term string, limit int) ([]model.Customer, error)
	List(ctx context.Context, nameFilter string, limit, offset int) ([]model.Customer, error)
	Insert(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	SetActive(ctx context.Context, ids []int64, active bool) (int64, error)
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

const customerCols = `id, name, email, phone, balance, active, registered_at, updated_at`

// GetByID returns the customer regardless of active flag, or nil when absent.
func (r *CustomersRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.GetContext(ctx, &c, `
		SELECT `+customerCols+`
		  FROM customers
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActive returns the customer only when active, or nil.
func (r *CustomersRepositoryImpl) GetActive(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.GetContext(ctx, &c, `
		SELECT `+customerCols+`
		  FROM customers
		 WHERE id = ? AND active = 1 LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveForUpdate locks the customer row for the duration of tx so that
// concurrent balance increments serialize instead of losing updates.
// Returns nil when there is no active customer with that id.
func (r *CustomersRepositoryImpl) GetActiveForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Customer, error) {
	var c model.Customer
	err := tx.GetContext(ctx, &c, `
		SELECT `+customerCols+`
		  FROM customers
		 WHERE id = ? AND active = 1
		 FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddToBalance applies an unconditional balance increment inside tx.
// There is no floor: a negative amount would be accepted at this layer,
// the positive-amount rule lives in the payment service.
func (r *CustomersRepositoryImpl) AddToBalance(ctx context.Context, tx *sqlx.Tx, id int64, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE customers
		   SET balance = balance + ?, updated_at = NOW()
		 WHERE id = ?
	`, amount, id)
	return err
}

// likeEscape guards LIKE metacharacters in user-supplied search terms.
func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search does a case-insensitive substring match on name or email over
// active customers, ordered by name.
func (r *CustomersRepositoryImpl) Search(ctx context.Context, term string, limit int) ([]model.Customer, error) {
	pattern := "%" + likeEscape(strings.ToLower(term)) + "%"
	var out []model.Customer
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+customerCols+`
		  FROM customers
		 WHERE active = 1
		   AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ?)
		 ORDER BY name ASC
		 LIMIT ?
	`, pattern, pattern, limit)
	return out, err
}

func (r *CustomersRepositoryImpl) List(ctx context.Context, nameFilter string, limit, offset int) ([]model.Customer, error) {
	q := `SELECT ` + customerCols + ` FROM customers WHERE active = 1`
	args := []any{}
	if nameFilter != "" {
		q += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+likeEscape(strings.ToLower(nameFilter))+"%")
	}
	q += ` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []model.Customer
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

func (r *CustomersRepositoryImpl) Insert(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (name, email, phone, balance, active, registered_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.Email, c.Phone, c.Balance, c.Active, c.RegisteredAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r *CustomersRepositoryImpl) Update(ctx context.Context, c *model.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers
		   SET name = ?, email = ?, phone = ?, updated_at = NOW()
		 WHERE id = ?
	`, c.Name, c.Email, c.Phone, c.ID)
	return err
}

// SetActive bulk-flips the active flag and reports how many rows changed.
// It never deletes anything.
func (r *CustomersRepositoryImpl) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE customers SET active = ?, updated_at = NOW() WHERE id IN (?)
	`, active, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
