package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/metrics"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/util"
)

type customerSearcher interface {
	Search(ctx context.Context, term string) ([]model.Customer, error)
}

type searchResult struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Balance          string `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
}

// searchCustomersHandler serves the search tool: case-insensitive
// substring match on name or email, active customers only, top 10.
func searchCustomersHandler(svc customerSearcher, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		term := c.QueryParam("q")

		customers, err := svc.Search(c.Request().Context(), term)
		metrics.ToolCallsTotal.WithLabelValues("search", outcomeOf(err)).Inc()
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("customer search failed: %v", err)
			}
			return writeErr(c, err)
		}

		results := make([]searchResult, 0, len(customers))
		for _, cu := range customers {
			results = append(results, searchResult{
				ID:               cu.ID,
				Name:             cu.Name,
				Email:            cu.Email,
				Balance:          cu.Balance.StringFixed(2),
				BalanceFormatted: util.FormatMoney(cu.Balance),
			})
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditToolCall,
			Description: fmt.Sprintf("customer search %q", term),
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
			Metadata:    map[string]any{"query": term, "results": len(results)},
		})

		message := fmt.Sprintf("found %d customer(s) matching %q", len(results), term)
		if len(results) == 0 {
			message = fmt.Sprintf("no customers match %q; check the spelling or use a broader term", term)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"message":   message,
			"total":     len(results),
			"customers": results,
		})
	}
}
