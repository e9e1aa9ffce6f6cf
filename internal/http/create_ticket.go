package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/metrics"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/service/ticket"
)

type ticketCreator interface {
	Create(ctx context.Context, in ticket.CreateInput) (*model.Ticket, *model.Customer, error)
}

type createTicketRequest struct {
	CustomerID  int64  `json:"customer_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
}

// createTicketHandler serves the ticket tool. Unknown priorities are
// accepted and coerced to medium; a missing field is a hard 400.
func createTicketHandler(svc ticketCreator, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTicketRequest
		if err := c.Bind(&req); err != nil {
			metrics.ToolCallsTotal.WithLabelValues("create_ticket", "client_error").Inc()
			return writeErr(c, errs.Validation("malformed request body"))
		}

		t, cust, err := svc.Create(c.Request().Context(), ticket.CreateInput{
			CustomerID:  req.CustomerID,
			Title:       req.Title,
			Description: req.Description,
			RawPriority: req.Priority,
			Assignee:    strptr(req.Assignee),
		})
		metrics.ToolCallsTotal.WithLabelValues("create_ticket", outcomeOf(err)).Inc()
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("ticket creation failed: %v", err)
			}
			return writeErr(c, err)
		}

		number := fmt.Sprintf("#%06d", t.ID)

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditCreation,
			Description: fmt.Sprintf("ticket %s opened for %s", number, cust.Name),
			CustomerID:  &cust.ID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
			Metadata: map[string]any{
				"ticket_id": t.ID,
				"priority":  t.Priority.String(),
			},
		})

		return c.JSON(http.StatusCreated, map[string]any{
			"success": true,
			"ticket": map[string]any{
				"id":         t.ID,
				"number":     number,
				"title":      t.Title,
				"status":     t.Status.String(),
				"priority":   t.Priority.String(),
				"customer":   cust.Name,
				"created_at": t.CreatedAt,
			},
			"confirmation": fmt.Sprintf("ticket %s created for %s with %s priority", number, cust.Name, t.Priority),
		})
	}
}
