// Package payment records customer payments and keeps balances
// consistent with them. It is the only writer of customers.balance.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/repository"
	"github.com/supporthub/support-desk/internal/util"
)

// Input describes one payment to record. Method must already be parsed
// (the lenient transfer default is applied at the API boundary).
type Input struct {
	CustomerID  int64
	Amount      decimal.Decimal
	Description *string
	Method      model.PaymentMethod
	ProcessedBy *string
}

// Receipt is what a successful recording returns: the persisted payment
// and the balance on both sides of the increment.
type Receipt struct {
	Payment       model.Payment
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

func (r *Receipt) Delta() decimal.Decimal {
	return r.BalanceAfter.Sub(r.BalanceBefore)
}

// Service performs the payment insert and the balance increment as one
// transaction against the primary store.
type Service struct {
	db        *sqlx.DB
	customers repository.CustomersRepository
	payments  repository.PaymentsRepository
	maxAmount decimal.Decimal
}

func New(db *sqlx.DB, customers repository.CustomersRepository, payments repository.PaymentsRepository, maxAmount decimal.Decimal) *Service {
	return &Service{
		db:        db,
		customers: customers,
		payments:  payments,
		maxAmount: maxAmount,
	}
}

// Record validates the input, then within a single transaction locks the
// customer row, inserts the payment and applies the balance increment.
// Either both writes commit or neither does; the row lock serializes
// concurrent payments against the same customer so no increment is lost.
//
// Failed preconditions are terminal for the call: there are no retries,
// the caller resubmits with corrected input. A deliberately absent rule:
// nothing stops the balance from being or going negative.
func (s *Service) Record(ctx context.Context, in Input) (*Receipt, error) {
	if in.Amount.Sign() <= 0 {
		return nil, errs.Validation("amount must be greater than 0")
	}
	if in.Amount.GreaterThan(s.maxAmount) {
		return nil, errs.Validation(fmt.Sprintf("amount exceeds the maximum of %s", s.maxAmount.StringFixed(2)))
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cust, err := s.customers.GetActiveForUpdate(ctx, tx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("lock customer: %w", err)
	}
	if cust == nil {
		return nil, errs.NotFound("customer", in.CustomerID)
	}

	p := model.Payment{
		Reference:   util.NewRef(),
		CustomerID:  in.CustomerID,
		Amount:      in.Amount,
		Description: in.Description,
		Method:      in.Method,
		ProcessedBy: in.ProcessedBy,
		CreatedAt:   time.Now(),
	}
	if err := s.payments.Insert(ctx, tx, &p); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if err := s.customers.AddToBalance(ctx, tx, in.CustomerID, in.Amount); err != nil {
		return nil, fmt.Errorf("apply balance increment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Receipt{
		Payment:       p,
		BalanceBefore: cust.Balance,
		BalanceAfter:  cust.Balance.Add(in.Amount),
	}, nil
}
