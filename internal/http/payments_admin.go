package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
)

// paymentReader is the read side of the admin surface. There is no
// update or delete handler: a payment that has credited a balance is
// permanent, corrections are new payments.
type paymentReader interface {
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	List(ctx context.Context, customerID int64, limit, offset int) ([]model.Payment, error)
}

func listPaymentsHandler(repo paymentReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		var customerID int64
		if raw := c.QueryParam("customer_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeErr(c, errs.Validation("customer_id must be an integer"))
			}
			customerID = id
		}
		limit, offset := pagination(c)

		payments, err := repo.List(c.Request().Context(), customerID, limit, offset)
		if err != nil {
			log.Errorf("payment listing failed: %v", err)
			return writeErr(c, err)
		}
		if payments == nil {
			payments = []model.Payment{}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"total":    len(payments),
			"payments": payments,
		})
	}
}

func getPaymentHandler(repo paymentReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("payment id must be an integer"))
		}
		p, err := repo.GetByID(c.Request().Context(), id)
		if err != nil {
			log.Errorf("payment read failed: %v", err)
			return writeErr(c, err)
		}
		if p == nil {
			return writeErr(c, errs.NotFound("payment", id))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"payment": p,
		})
	}
}
