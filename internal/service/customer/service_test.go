package customer

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
)

type mockCustomers struct {
	getActive func(ctx context.Context, id int64) (*model.Customer, error)
	search    func(ctx context.Context, term string, limit int) ([]model.Customer, error)
	insert    func(ctx context.Context, c *model.Customer) error
}

func (m *mockCustomers) GetActive(ctx context.Context, id int64) (*model.Customer, error) {
	return m.getActive(ctx, id)
}
func (m *mockCustomers) Search(ctx context.Context, term string, limit int) ([]model.Customer, error) {
	return m.search(ctx, term, limit)
}
func (m *mockCustomers) Insert(ctx context.Context, c *model.Customer) error {
	return m.insert(ctx, c)
}
func (m *mockCustomers) GetByID(context.Context, int64) (*model.Customer, error) {
	panic("not used")
}
func (m *mockCustomers) GetActiveForUpdate(context.Context, *sqlx.Tx, int64) (*model.Customer, error) {
	panic("not used")
}
func (m *mockCustomers) AddToBalance(context.Context, *sqlx.Tx, int64, decimal.Decimal) error {
	panic("not used")
}
func (m *mockCustomers) List(context.Context, string, int, int) ([]model.Customer, error) {
	panic("not used")
}
func (m *mockCustomers) Update(context.Context, *model.Customer) error { panic("not used") }
func (m *mockCustomers) SetActive(context.Context, []int64, bool) (int64, error) {
	panic("not used")
}

type mockPayments struct {
	listRecent      func(ctx context.Context, customerID int64, limit int) ([]model.Payment, error)
	countByCustomer func(ctx context.Context, customerID int64) (int64, error)
}

func (m *mockPayments) ListRecent(ctx context.Context, customerID int64, limit int) ([]model.Payment, error) {
	return m.listRecent(ctx, customerID, limit)
}
func (m *mockPayments) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return m.countByCustomer(ctx, customerID)
}
func (m *mockPayments) Insert(context.Context, *sqlx.Tx, *model.Payment) error { panic("not used") }
func (m *mockPayments) GetByID(context.Context, int64) (*model.Payment, error) { panic("not used") }
func (m *mockPayments) List(context.Context, int64, int, int) ([]model.Payment, error) {
	panic("not used")
}

type mockTickets struct {
	countByCustomer func(ctx context.Context, customerID int64) (int64, error)
}

func (m *mockTickets) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return m.countByCustomer(ctx, customerID)
}
func (m *mockTickets) Insert(context.Context, *model.Ticket) error { panic("not used") }
func (m *mockTickets) GetByID(context.Context, int64) (*model.Ticket, error) {
	panic("not used")
}
func (m *mockTickets) List(context.Context, model.TicketStatus, int, int) ([]model.Ticket, error) {
	panic("not used")
}
func (m *mockTickets) Update(context.Context, *model.Ticket) error { panic("not used") }
func (m *mockTickets) SetStatus(context.Context, int64, model.TicketStatus) error {
	panic("not used")
}
func (m *mockTickets) BulkResolve(context.Context, []int64) (int64, error)        { panic("not used") }
func (m *mockTickets) BulkMarkInProgress(context.Context, []int64) (int64, error) { panic("not used") }
func (m *mockTickets) Delete(context.Context, int64) error                        { panic("not used") }

func TestSearchBlankTerm(t *testing.T) {
	svc := New(nil, nil, nil)
	for _, term := range []string{"", "   ", "\t"} {
		if _, err := svc.Search(context.Background(), term); !errs.IsValidation(err) {
			t.Errorf("Search(%q) error = %v, want validation error", term, err)
		}
	}
}

func TestSearchTrimsAndCapsAtTen(t *testing.T) {
	var gotTerm string
	var gotLimit int
	customers := &mockCustomers{
		search: func(ctx context.Context, term string, limit int) ([]model.Customer, error) {
			gotTerm, gotLimit = term, limit
			return nil, nil
		},
	}
	svc := New(customers, nil, nil)

	if _, err := svc.Search(context.Background(), "  alice  "); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotTerm != "alice" {
		t.Errorf("term = %q, want trimmed %q", gotTerm, "alice")
	}
	if gotLimit != 10 {
		t.Errorf("limit = %d, want 10", gotLimit)
	}
}

func TestBalanceView(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)
	customers := &mockCustomers{
		getActive: func(ctx context.Context, id int64) (*model.Customer, error) {
			return &model.Customer{
				ID: id, Name: "Alice Johnson", Email: "alice@example.com",
				Balance: decimal.RequireFromString("1234.56"), Active: true,
			}, nil
		},
	}
	payments := &mockPayments{
		listRecent: func(ctx context.Context, customerID int64, limit int) ([]model.Payment, error) {
			if limit != 5 {
				t.Errorf("recent payments limit = %d, want 5", limit)
			}
			return []model.Payment{
				{ID: 2, Amount: decimal.RequireFromString("50.00"), Method: model.MethodCard, CreatedAt: now},
				{ID: 1, Amount: decimal.RequireFromString("100.00"), Method: model.MethodTransfer, CreatedAt: earlier},
			}, nil
		},
		countByCustomer: func(ctx context.Context, customerID int64) (int64, error) { return 2, nil },
	}
	tickets := &mockTickets{
		countByCustomer: func(ctx context.Context, customerID int64) (int64, error) { return 3, nil },
	}
	svc := New(customers, payments, tickets)

	view, err := svc.Balance(context.Background(), 1)
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if view.BalanceFormatted != "$1,234.56" {
		t.Errorf("BalanceFormatted = %q", view.BalanceFormatted)
	}
	if view.TicketCount != 3 || view.PaymentCount != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)", view.TicketCount, view.PaymentCount)
	}
	if view.LastPaymentAt == nil || !view.LastPaymentAt.Equal(now) {
		t.Errorf("LastPaymentAt = %v, want newest payment time", view.LastPaymentAt)
	}
}

func TestBalanceUnknownCustomer(t *testing.T) {
	customers := &mockCustomers{
		getActive: func(ctx context.Context, id int64) (*model.Customer, error) { return nil, nil },
	}
	svc := New(customers, nil, nil)

	if _, err := svc.Balance(context.Background(), 404); !errs.IsNotFound(err) {
		t.Errorf("Balance() error = %v, want not found", err)
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	customers := &mockCustomers{
		insert: func(ctx context.Context, c *model.Customer) error {
			c.ID = 8
			return nil
		},
	}
	svc := New(customers, nil, nil)

	c, err := svc.Create(context.Background(), CreateInput{
		Name:  "  Bob Martinez ",
		Email: " Bob@Example.COM ",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Email != "bob@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", c.Email)
	}
	if c.Name != "Bob Martinez" {
		t.Errorf("name = %q, want trimmed", c.Name)
	}
	if !c.Active {
		t.Error("new customer must start active")
	}
}

func TestCreateMissingFields(t *testing.T) {
	svc := New(nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateInput{Name: "x"})
	if !errs.IsValidation(err) {
		t.Errorf("Create() error = %v, want validation error", err)
	}
}
