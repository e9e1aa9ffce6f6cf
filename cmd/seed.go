package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/supporthub/support-desk/internal/config"
	"github.com/supporthub/support-desk/internal/db"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/util"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers, tickets and payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQL(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo data...")

		if err := seedCustomers(sqlDB); err != nil {
			return err
		}
		if err := seedTickets(sqlDB); err != nil {
			return err
		}
		if err := seedPayments(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed ✅")
		return nil
	},
}

// seedCustomers upserts 5 deterministic demo customers keyed on email
// (UNIQUE). Balances are set explicitly rather than accumulated from the
// seeded payments, so re-running the seed never drifts them.
func seedCustomers(dbx *sqlx.DB) error {
	customers := []model.Customer{
		{
			Name:    "Alice Johnson",
			Email:   "alice@example.com",
			Phone:   strptr("+1-555-0101"),
			Balance: decimal.NewFromFloat(150.00),
			Active:  true,
		},
		{
			Name:    "Bob Martinez",
			Email:   "bob@example.com",
			Phone:   strptr("+1-555-0102"),
			Balance: decimal.NewFromFloat(-42.50),
			Active:  true,
		},
		{
			Name:    "Carol Chen",
			Email:   "carol@example.com",
			Balance: decimal.Zero,
			Active:  true,
		},
		{
			Name:    "Dormant Dan",
			Email:   "dan@example.com",
			Balance: decimal.NewFromFloat(10.00),
			Active:  false,
		},
		{
			Name:    "Eve Okafor",
			Email:   "eve@example.com",
			Phone:   strptr("+1-555-0105"),
			Balance: decimal.NewFromFloat(999.99),
			Active:  true,
		},
	}

	const q = `
INSERT INTO customers
    (name, email, phone, balance, active, registered_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    name       = VALUES(name),
    phone      = VALUES(phone),
    balance    = VALUES(balance),
    active     = VALUES(active),
    updated_at = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, c := range customers {
		if _, err := tx.Exec(q, c.Name, c.Email, c.Phone, c.Balance, c.Active, now, now); err != nil {
			return fmt.Errorf("insert customer %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customers: %w", err)
	}
	return nil
}

// seedTickets creates a handful of tickets for the demo customers,
// skipping customers who already have one so the seed stays idempotent.
func seedTickets(dbx *sqlx.DB) error {
	type demoTicket struct {
		email    string
		title    string
		desc     string
		status   model.TicketStatus
		priority model.TicketPriority
	}
	tickets := []demoTicket{
		{"alice@example.com", "Cannot log in", "Password reset email never arrives.", model.TicketOpen, model.PriorityHigh},
		{"alice@example.com", "Invoice question", "The March invoice shows a duplicate line item.", model.TicketResolved, model.PriorityMedium},
		{"bob@example.com", "Service outage", "Dashboard unreachable since this morning.", model.TicketInProgress, model.PriorityCritical},
		{"carol@example.com", "Feature request", "Please add CSV export to the reports page.", model.TicketPendingCustomer, model.PriorityLow},
	}

	const q = `
INSERT INTO tickets
    (customer_id, title, description, status, priority, created_at, updated_at, resolved_at)
SELECT c.id, ?, ?, ?, ?, NOW(), NOW(),
       CASE WHEN ? = 'resolved' THEN NOW() ELSE NULL END
  FROM customers c
 WHERE c.email = ?
   AND NOT EXISTS (SELECT 1 FROM tickets t WHERE t.customer_id = c.id AND t.title = ?)
`
	for _, t := range tickets {
		if _, err := dbx.Exec(q, t.title, t.desc, t.status.String(), t.priority.String(), t.status.String(), t.email, t.title); err != nil {
			return fmt.Errorf("insert ticket %q: %w", t.title, err)
		}
	}
	return nil
}

// seedPayments writes a few historical payments for context in the
// balance view. They are inserted at most once per customer and do NOT
// touch balances; seedCustomers already set those to their final values.
func seedPayments(dbx *sqlx.DB) error {
	type demoPayment struct {
		email  string
		amount decimal.Decimal
		desc   string
		method model.PaymentMethod
	}
	payments := []demoPayment{
		{"alice@example.com", decimal.NewFromFloat(100.00), "initial deposit", model.MethodTransfer},
		{"alice@example.com", decimal.NewFromFloat(50.00), "top-up", model.MethodCard},
		{"eve@example.com", decimal.NewFromFloat(999.99), "annual prepayment", model.MethodCheck},
	}

	const q = `
INSERT INTO payments
    (reference, customer_id, amount, description, method, processed_by, created_at)
SELECT ?, c.id, ?, ?, ?, 'seed', NOW()
  FROM customers c
 WHERE c.email = ?
   AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.customer_id = c.id AND p.description = ?)
`
	for _, p := range payments {
		if _, err := dbx.Exec(q, util.NewRef(), p.amount, p.desc, p.method.String(), p.email, p.desc); err != nil {
			return fmt.Errorf("insert payment %q: %w", p.desc, err)
		}
	}
	return nil
}

func strptr(s string) *string { return &s }
