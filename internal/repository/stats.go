package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// DashboardStats is the aggregate snapshot served to the dashboard and
// used by the agent layer for system context.
type DashboardStats struct {
	Customers struct {
		Active          int64 `json:"active"`
		PositiveBalance int64 `json:"positive_balance"`
		RegisteredToday int64 `json:"registered_today"`
	} `json:"customers"`
	Tickets struct {
		Total         int64            `json:"total"`
		ByStatus      map[string]int64 `json:"by_status"`
		Pending       int64            `json:"pending"`
		ResolvedToday int64            `json:"resolved_today"`
	} `json:"tickets"`
	PaymentsToday struct {
		Count int64           `json:"count"`
		Sum   decimal.Decimal `json:"sum"`
	} `json:"payments_today"`
}

type StatsRepository interface {
	Snapshot(ctx context.Context) (*DashboardStats, error)
}

type StatsRepositoryImpl struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{db: db}
}

var _ StatsRepository = (*StatsRepositoryImpl)(nil)

func (r *StatsRepositoryImpl) Snapshot(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	s.Tickets.ByStatus = make(map[string]int64)

	err := r.db.QueryRowxContext(ctx, `
		SELECT
		    (SELECT COUNT(*) FROM customers WHERE active = 1),
		    (SELECT COUNT(*) FROM customers WHERE active = 1 AND balance > 0),
		    (SELECT COUNT(*) FROM customers WHERE active = 1 AND DATE(registered_at) = CURDATE())
	`).Scan(&s.Customers.Active, &s.Customers.PositiveBalance, &s.Customers.RegisteredToday)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) FROM tickets GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.Tickets.ByStatus[status] = n
		s.Tickets.Total += n
		switch status {
		case "open", "in_progress", "pending_customer":
			s.Tickets.Pending += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, `
		SELECT COUNT(*) FROM tickets WHERE status = 'resolved' AND DATE(resolved_at) = CURDATE()
	`).Scan(&s.Tickets.ResolvedToday)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		  FROM payments
		 WHERE DATE(created_at) = CURDATE()
	`).Scan(&s.PaymentsToday.Count, &s.PaymentsToday.Sum)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
