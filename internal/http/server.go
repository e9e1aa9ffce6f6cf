package http

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/config"
	"github.com/supporthub/support-desk/internal/http/middleware"
	"github.com/supporthub/support-desk/internal/kafka"
	"github.com/supporthub/support-desk/internal/metrics"
	"github.com/supporthub/support-desk/internal/repository"
	"github.com/supporthub/support-desk/internal/service/customer"
	"github.com/supporthub/support-desk/internal/service/payment"
	"github.com/supporthub/support-desk/internal/service/ticket"
)

type Server struct{ e *echo.Echo }

// NewServer wires repositories, services and routes. clickhouseDB and
// rds may be nil: the audit read side then stays on MySQL and the
// dashboard cache plus rate limiter turn into pass-throughs.
func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client, producer kafka.AuditEventProducer, logger *zap.Logger) *Server {
	// repos (MySQL)
	customersRepo := repository.NewCustomersRepository(mysqlDB)
	ticketsRepo := repository.NewTicketsRepository(mysqlDB)
	paymentsRepo := repository.NewPaymentsRepository(mysqlDB)
	auditRepo := repository.NewAuditRepository(mysqlDB)
	statsRepo := repository.NewStatsRepository(mysqlDB)

	// audit reads go to ClickHouse when it is configured
	var auditReader repository.AuditReader = auditRepo
	if clickhouseDB != nil {
		auditReader = repository.NewCHAuditRepository(clickhouseDB)
	}

	// services
	paymentSvc := payment.New(mysqlDB, customersRepo, paymentsRepo, cfg.Payments.MaxAmountDecimal())
	ticketSvc := ticket.New(customersRepo, ticketsRepo)
	customerSvc := customer.New(customersRepo, paymentsRepo, ticketsRepo)
	recorder := audit.NewRecorder(auditRepo, producer, logger)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", healthHandler(cfg.Site))

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:     rds,
		RPS:       cfg.RateLimit.RPS,
		KeyPrefix: "rl:ip:",
		Window:    time.Second,
	})

	// tool routes, rate limited per client IP
	tools := e.Group("/v1/tools", rlMW)
	tools.GET("/customers/search", searchCustomersHandler(customerSvc, recorder))
	tools.GET("/customers/:id/balance", customerBalanceHandler(customerSvc, recorder))
	tools.POST("/tickets", createTicketHandler(ticketSvc, recorder))
	tools.POST("/payments", recordPaymentHandler(paymentSvc, recorder))

	e.GET("/v1/dashboard/stats", dashboardStatsHandler(statsRepo, rds))

	// back-office routes
	v1 := e.Group("/v1")
	v1.GET("/customers", listCustomersHandler(customerSvc))
	v1.POST("/customers", createCustomerHandler(customerSvc, recorder))
	v1.GET("/customers/:id", getCustomerHandler(customerSvc))
	v1.PATCH("/customers/:id", updateCustomerHandler(customerSvc, recorder))
	v1.DELETE("/customers/:id", deactivateCustomerHandler(customerSvc, recorder))
	v1.POST("/customers/activate", setCustomersActiveHandler(customerSvc, recorder, true))
	v1.POST("/customers/deactivate", setCustomersActiveHandler(customerSvc, recorder, false))

	v1.GET("/tickets", listTicketsHandler(ticketSvc))
	v1.POST("/tickets", createTicketHandler(ticketSvc, recorder))
	v1.GET("/tickets/:id", getTicketHandler(ticketSvc))
	v1.PATCH("/tickets/:id", updateTicketHandler(ticketSvc, recorder))
	v1.POST("/tickets/:id/status", changeTicketStatusHandler(ticketSvc, recorder))
	v1.DELETE("/tickets/:id", deleteTicketHandler(ticketSvc, recorder))
	v1.POST("/tickets/mark-resolved", bulkTicketStatusHandler(ticketSvc, recorder, true))
	v1.POST("/tickets/mark-in-process", bulkTicketStatusHandler(ticketSvc, recorder, false))

	v1.GET("/payments", listPaymentsHandler(paymentsRepo))
	v1.POST("/payments", recordPaymentHandler(paymentSvc, recorder))
	v1.GET("/payments/:id", getPaymentHandler(paymentsRepo))

	v1.GET("/audit", listAuditHandler(auditReader))
	v1.GET("/audit/:id", getAuditHandler(auditReader))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
