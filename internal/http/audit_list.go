package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/repository"
)

// listAuditHandler is the read-only trail view. The reader may be backed
// by MySQL or, when configured, by the ClickHouse mirror.
func listAuditHandler(reader repository.AuditReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		var f repository.AuditFilter
		if raw := c.QueryParam("kind"); raw != "" {
			kind, ok := model.ParseAuditKind(raw)
			if !ok {
				return writeErr(c, errs.Validation("unknown audit kind "+raw))
			}
			f.Kind = kind
		}
		if raw := c.QueryParam("customer_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeErr(c, errs.Validation("customer_id must be an integer"))
			}
			f.CustomerID = id
		}
		limit, offset := pagination(c)

		entries, err := reader.List(c.Request().Context(), f, limit, offset)
		if err != nil {
			log.Errorf("audit listing failed: %v", err)
			return writeErr(c, err)
		}
		if entries == nil {
			entries = []model.AuditEntry{}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"total":   len(entries),
			"entries": entries,
		})
	}
}

func getAuditHandler(reader repository.AuditReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("audit entry id must be an integer"))
		}
		e, err := reader.GetByID(c.Request().Context(), id)
		if err != nil {
			log.Errorf("audit read failed: %v", err)
			return writeErr(c, err)
		}
		if e == nil {
			return writeErr(c, errs.NotFound("audit entry", id))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"entry":   e,
		})
	}
}

// pagination parses ?limit= and ?offset= with the defaults the admin
// listings share. Limit is clamped to 100.
func pagination(c echo.Context) (limit, offset int) {
	limit = 50
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
