package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodCheck    PaymentMethod = "check"
)

func (m PaymentMethod) String() string { return string(m) }

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodCheck:
		return true
	}
	return false
}

// ParsePaymentMethod normalizes input; empty or unknown => transfer.
// Same leniency rule as ticket priority: the method is advisory metadata,
// a bad value must not block the payment.
func ParsePaymentMethod(s string) PaymentMethod {
	v := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v
	}
	return MethodTransfer
}

// Payment is the DB entity persisted in the payments table. Rows are
// append-only: once written, neither the row nor the balance credit it
// produced is ever mutated.
type Payment struct {
	ID          int64           `db:"id" json:"id"`
	Reference   string          `db:"reference" json:"reference"` // ULID
	CustomerID  int64           `db:"customer_id" json:"customer_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description *string         `db:"description" json:"description,omitempty"`
	Method      PaymentMethod   `db:"method" json:"method"`
	ProcessedBy *string         `db:"processed_by" json:"processed_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
