package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/service/customer"
)

// customerAdmin is the back-office registry surface. Balance is absent
// from both create-update payloads on purpose: payments are the only
// balance writer, registration may seed an opening balance once.
type customerAdmin interface {
	Create(ctx context.Context, in customer.CreateInput) (*model.Customer, error)
	Update(ctx context.Context, id int64, in customer.UpdateInput) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context, nameFilter string, limit, offset int) ([]model.Customer, error)
	Activate(ctx context.Context, ids []int64) (int64, error)
	Deactivate(ctx context.Context, ids []int64) (int64, error)
}

type createCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Balance string `json:"balance"`
}

func createCustomerHandler(svc customerAdmin, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createCustomerRequest
		if err := c.Bind(&req); err != nil {
			return writeErr(c, errs.Validation("malformed request body"))
		}

		balance := decimal.Zero
		if req.Balance != "" {
			d, err := decimal.NewFromString(req.Balance)
			if err != nil {
				return writeErr(c, errs.Validation("balance must be a decimal number"))
			}
			balance = d
		}

		cust, err := svc.Create(c.Request().Context(), customer.CreateInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   strptr(req.Phone),
			Balance: balance,
		})
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("customer creation failed: %v", err)
			}
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditCreation,
			Description: fmt.Sprintf("customer %s registered", cust.Name),
			CustomerID:  &cust.ID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
		})

		return c.JSON(http.StatusCreated, map[string]any{
			"success":  true,
			"customer": cust,
		})
	}
}

type updateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func updateCustomerHandler(svc customerAdmin, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("customer id must be an integer"))
		}
		var req updateCustomerRequest
		if err := c.Bind(&req); err != nil {
			return writeErr(c, errs.Validation("malformed request body"))
		}

		cust, err := svc.Update(c.Request().Context(), id, customer.UpdateInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("customer update failed: %v", err)
			}
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("customer %s updated", cust.Name),
			CustomerID:  &cust.ID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"customer": cust,
		})
	}
}

func getCustomerHandler(svc customerAdmin) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("customer id must be an integer"))
		}
		cust, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("customer read failed: %v", err)
			}
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"customer": cust,
		})
	}
}

func listCustomersHandler(svc customerAdmin) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset := pagination(c)
		customers, err := svc.List(c.Request().Context(), c.QueryParam("name"), limit, offset)
		if err != nil {
			log.Errorf("customer listing failed: %v", err)
			return writeErr(c, err)
		}
		if customers == nil {
			customers = []model.Customer{}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"total":     len(customers),
			"customers": customers,
		})
	}
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

// setCustomersActiveHandler backs both bulk routes. Deactivation is also
// what DELETE /v1/customers/:id maps to: rows are never dropped because
// payments and tickets hang off them.
func setCustomersActiveHandler(svc customerAdmin, auditor auditRecorder, active bool) echo.HandlerFunc {
	verb := "deactivated"
	action := func(ctx context.Context, ids []int64) (int64, error) { return svc.Deactivate(ctx, ids) }
	if active {
		verb = "activated"
		action = func(ctx context.Context, ids []int64) (int64, error) { return svc.Activate(ctx, ids) }
	}
	return func(c echo.Context) error {
		var req idsRequest
		if err := c.Bind(&req); err != nil {
			return writeErr(c, errs.Validation("malformed request body"))
		}
		if len(req.IDs) == 0 {
			return writeErr(c, errs.Validation("ids is required"))
		}

		n, err := action(c.Request().Context(), req.IDs)
		if err != nil {
			log.Errorf("bulk customer %s failed: %v", verb, err)
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("%d customer(s) %s", n, verb),
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
			Metadata:    map[string]any{"ids": req.IDs, "updated": n},
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"updated": n,
			"message": fmt.Sprintf("%d customer(s) %s", n, verb),
		})
	}
}

// deactivateCustomerHandler handles single-customer DELETE. The row
// stays; only the active flag flips.
func deactivateCustomerHandler(svc customerAdmin, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("customer id must be an integer"))
		}
		n, err := svc.Deactivate(c.Request().Context(), []int64{id})
		if err != nil {
			log.Errorf("customer deactivation failed: %v", err)
			return writeErr(c, err)
		}
		if n == 0 {
			return writeErr(c, errs.NotFound("customer", id))
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("customer %d deactivated", id),
			CustomerID:  &id,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("customer %d deactivated", id),
		})
	}
}
