package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
)

// auditRecorder is the fire-and-forget trail writer handlers emit to
// after a successful primary operation.
type auditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

// writeErr converts a domain error into the HTTP response for it.
// Validation -> 400, not found -> 404, conflict -> 409; anything else is
// logged by the caller and answered as a generic 500 so persistence
// details never leak.
func writeErr(c echo.Context, err error) error {
	switch {
	case errs.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	case errs.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	case errs.IsConflict(err):
		return c.JSON(http.StatusConflict, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   "internal error",
	})
}

// outcomeOf labels a handler result for the tool-call counter.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.IsValidation(err), errs.IsNotFound(err), errs.IsConflict(err):
		return "client_error"
	}
	return "error"
}

// strptr returns nil for blank strings, so optional request fields map
// to NULL columns instead of empty strings.
func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// requestIP extracts the caller address for the audit trail.
func requestIP(c echo.Context) *string {
	return strptr(c.RealIP())
}

// actingUser extracts the optional operator identity forwarded by the
// agent layer.
func actingUser(c echo.Context) *string {
	return strptr(c.Request().Header.Get("X-Acting-User"))
}
