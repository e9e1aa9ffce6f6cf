package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/supporthub/support-desk/internal/config"
)

// healthHandler answers liveness probes and doubles as the discovery
// endpoint: agents hit it first to learn which tools exist.
func healthHandler(site config.SiteConfig) echo.HandlerFunc {
	endpoints := map[string]string{
		"search_customers": "GET /v1/tools/customers/search?q=",
		"customer_balance": "GET /v1/tools/customers/:id/balance",
		"create_ticket":    "POST /v1/tools/tickets",
		"record_payment":   "POST /v1/tools/payments",
		"dashboard_stats":  "GET /v1/dashboard/stats",
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   site.Title,
			"version":   site.Version,
			"endpoints": endpoints,
		})
	}
}
