package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/metrics"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/service/customer"
	"github.com/supporthub/support-desk/internal/util"
)

type balanceReader interface {
	Balance(ctx context.Context, id int64) (*customer.BalanceView, error)
}

type recentPayment struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Date        string `json:"date"`
}

// customerBalanceHandler serves the balance tool: current balance plus
// the five most recent payments as context for the agent.
func customerBalanceHandler(svc balanceReader, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			metrics.ToolCallsTotal.WithLabelValues("balance", "client_error").Inc()
			return writeErr(c, errs.Validation("customer id must be an integer"))
		}

		view, err := svc.Balance(c.Request().Context(), id)
		metrics.ToolCallsTotal.WithLabelValues("balance", outcomeOf(err)).Inc()
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("balance lookup failed: %v", err)
			}
			return writeErr(c, err)
		}

		recent := make([]recentPayment, 0, len(view.RecentPayments))
		for _, p := range view.RecentPayments {
			desc := "payment"
			if p.Description != nil && *p.Description != "" {
				desc = *p.Description
			}
			recent = append(recent, recentPayment{
				Amount:      p.Amount.StringFixed(2),
				Description: desc,
				Method:      p.Method.String(),
				Date:        p.CreatedAt.Format("2006-01-02 15:04"),
			})
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditQuery,
			Description: fmt.Sprintf("balance lookup for %s", view.Customer.Name),
			CustomerID:  &view.Customer.ID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
			Metadata:    map[string]any{"customer_id": id},
		})

		summary := map[string]any{
			"ticket_count":  view.TicketCount,
			"payment_count": view.PaymentCount,
		}
		if view.LastPaymentAt != nil {
			summary["last_payment_date"] = view.LastPaymentAt.Format("2006-01-02")
		} else {
			summary["last_payment_date"] = nil
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"customer": map[string]any{
				"id":                view.Customer.ID,
				"name":              view.Customer.Name,
				"email":             view.Customer.Email,
				"balance":           view.Customer.Balance.StringFixed(2),
				"balance_formatted": util.FormatMoney(view.Customer.Balance),
				"registered_at":     view.Customer.RegisteredAt,
			},
			"recent_payments": recent,
			"summary":         summary,
		})
	}
}
