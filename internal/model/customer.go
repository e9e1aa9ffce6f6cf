package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the DB entity persisted in the customers table.
// Balance is mutated only by the payment service; everything else is
// plain CRUD. Customers are soft-deactivated, never hard-deleted.
type Customer struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Email        string          `db:"email" json:"email"`
	Phone        *string         `db:"phone" json:"phone,omitempty"`
	Balance      decimal.Decimal `db:"balance" json:"balance"`
	Active       bool            `db:"active" json:"active"`
	RegisteredAt time.Time       `db:"registered_at" json:"registered_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
