package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/metrics"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/service/payment"
	"github.com/supporthub/support-desk/internal/util"
)

type paymentRecorder interface {
	Record(ctx context.Context, in payment.Input) (*payment.Receipt, error)
}

type recordPaymentRequest struct {
	CustomerID  int64  `json:"customer_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Method      string `json:"method"`
	ProcessedBy string `json:"processed_by"`
}

// recordPaymentHandler serves the payment tool. The amount travels as a
// decimal string so float rounding never enters the money path; unknown
// methods are coerced to transfer.
func recordPaymentHandler(svc paymentRecorder, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req recordPaymentRequest
		if err := c.Bind(&req); err != nil {
			metrics.ToolCallsTotal.WithLabelValues("record_payment", "client_error").Inc()
			return writeErr(c, errs.Validation("malformed request body"))
		}
		if req.CustomerID <= 0 || req.Amount == "" {
			metrics.ToolCallsTotal.WithLabelValues("record_payment", "client_error").Inc()
			var missing []string
			if req.CustomerID <= 0 {
				missing = append(missing, "customer_id")
			}
			if req.Amount == "" {
				missing = append(missing, "amount")
			}
			return writeErr(c, errs.MissingFields(missing...))
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			metrics.ToolCallsTotal.WithLabelValues("record_payment", "client_error").Inc()
			return writeErr(c, errs.Validation("amount must be a decimal number"))
		}

		receipt, err := svc.Record(c.Request().Context(), payment.Input{
			CustomerID:  req.CustomerID,
			Amount:      amount,
			Description: strptr(req.Description),
			Method:      model.ParsePaymentMethod(req.Method),
			ProcessedBy: strptr(req.ProcessedBy),
		})
		metrics.ToolCallsTotal.WithLabelValues("record_payment", outcomeOf(err)).Inc()
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("payment recording failed: %v", err)
			}
			return writeErr(c, err)
		}
		metrics.PaymentsRecordedTotal.Inc()

		p := receipt.Payment
		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditPayment,
			Description: fmt.Sprintf("payment %s recorded, balance %s to %s", p.Reference, receipt.BalanceBefore.StringFixed(2), receipt.BalanceAfter.StringFixed(2)),
			CustomerID:  &p.CustomerID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
			Metadata: map[string]any{
				"payment_id": p.ID,
				"reference":  p.Reference,
				"amount":     p.Amount.StringFixed(2),
				"method":     p.Method.String(),
			},
		})

		return c.JSON(http.StatusCreated, map[string]any{
			"success": true,
			"payment": map[string]any{
				"id":         p.ID,
				"reference":  p.Reference,
				"amount":     p.Amount.StringFixed(2),
				"method":     p.Method.String(),
				"created_at": p.CreatedAt,
			},
			"balances": map[string]any{
				"before": receipt.BalanceBefore.StringFixed(2),
				"after":  receipt.BalanceAfter.StringFixed(2),
				"delta":  receipt.Delta().StringFixed(2),
			},
			"confirmation": fmt.Sprintf("recorded %s via %s; balance went from %s to %s",
				util.FormatMoney(p.Amount), p.Method,
				util.FormatMoney(receipt.BalanceBefore), util.FormatMoney(receipt.BalanceAfter)),
		})
	}
}
