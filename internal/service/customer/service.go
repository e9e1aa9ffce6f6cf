// Package customer is the registry: search, balance views and the
// activation lifecycle. Balances are read here but only ever written by
// the payment service.
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/repository"
	"github.com/supporthub/support-desk/internal/util"
)

const searchLimit = 10

// BalanceView is the balance endpoint payload: the customer, recent
// payments for context and a small activity summary.
type BalanceView struct {
	Customer         model.Customer
	BalanceFormatted string
	RecentPayments   []model.Payment
	TicketCount      int64
	PaymentCount     int64
	LastPaymentAt    *time.Time
}

type Service struct {
	customers repository.CustomersRepository
	payments  repository.PaymentsRepository
	tickets   repository.TicketsRepository
}

func New(customers repository.CustomersRepository, payments repository.PaymentsRepository, tickets repository.TicketsRepository) *Service {
	return &Service{customers: customers, payments: payments, tickets: tickets}
}

// Search matches active customers by name or email substring,
// case-insensitive, at most 10 rows ordered by name. A blank term is a
// validation error, not an empty result.
func (s *Service) Search(ctx context.Context, term string) ([]model.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.Validation("search term is required")
	}
	return s.customers.Search(ctx, term, searchLimit)
}

// Balance returns the balance view for an active customer. Deactivated
// and unknown ids are indistinguishable to the caller: both are 404.
func (s *Service) Balance(ctx context.Context, id int64) (*BalanceView, error) {
	cust, err := s.customers.GetActive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if cust == nil {
		return nil, errs.NotFound("customer", id)
	}

	recent, err := s.payments.ListRecent(ctx, id, 5)
	if err != nil {
		return nil, fmt.Errorf("recent payments: %w", err)
	}
	ticketCount, err := s.tickets.CountByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	paymentCount, err := s.payments.CountByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	view := &BalanceView{
		Customer:         *cust,
		BalanceFormatted: util.FormatMoney(cust.Balance),
		RecentPayments:   recent,
		TicketCount:      ticketCount,
		PaymentCount:     paymentCount,
	}
	if len(recent) > 0 {
		view.LastPaymentAt = &recent[0].CreatedAt
	}
	return view, nil
}

// CreateInput is the registration payload.
type CreateInput struct {
	Name    string
	Email   string
	Phone   *string
	Balance decimal.Decimal
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Customer, error) {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, errs.MissingFields(missing...)
	}

	now := time.Now()
	c := model.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		Balance:      in.Balance,
		Active:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if err := s.customers.Insert(ctx, &c); err != nil {
		if isDuplicateKey(err) {
			return nil, errs.Conflict("a customer with this email already exists")
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return &c, nil
}

// UpdateInput is the admin update surface. Balance is absent on purpose.
type UpdateInput struct {
	Name  *string
	Email *string
	Phone *string
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*model.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if c == nil {
		return nil, errs.NotFound("customer", id)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, errs.Validation("name cannot be blank")
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if strings.TrimSpace(*in.Email) == "" {
			return nil, errs.Validation("email cannot be blank")
		}
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}

	if err := s.customers.Update(ctx, c); err != nil {
		if isDuplicateKey(err) {
			return nil, errs.Conflict("a customer with this email already exists")
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NotFound("customer", id)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, nameFilter string, limit, offset int) ([]model.Customer, error) {
	return s.customers.List(ctx, nameFilter, limit, offset)
}

// Activate bulk-enables customers and reports the number changed.
func (s *Service) Activate(ctx context.Context, ids []int64) (int64, error) {
	return s.customers.SetActive(ctx, ids, true)
}

// Deactivate bulk-disables customers; the rows stay.
func (s *Service) Deactivate(ctx context.Context, ids []int64) (int64, error) {
	return s.customers.SetActive(ctx, ids, false)
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
