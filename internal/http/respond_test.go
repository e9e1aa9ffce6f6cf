package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/supporthub/support-desk/internal/errs"
)

func TestWriteErrStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.Validation("bad"), http.StatusBadRequest},
		{"not found", errs.NotFound("customer", 1), http.StatusNotFound},
		{"conflict", errs.Conflict("dup"), http.StatusConflict},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := writeErr(c, tt.err); err != nil {
				t.Fatalf("writeErr returned %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWriteErrHidesInternals(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_ = writeErr(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	got := rec.Body.String()
	if !strings.Contains(got, "internal error") || strings.Contains(got, "3306") {
		t.Errorf("internal error body leaked details: %s", got)
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errs.Validation("bad"), "client_error"},
		{errs.NotFound("x", 1), "client_error"},
		{errs.Conflict("dup"), "client_error"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := outcomeOf(tt.err); got != tt.want {
			t.Errorf("outcomeOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=500", 100, 0},
		{"?limit=-1&offset=-5", 50, 0},
		{"?limit=abc", 50, 0},
	}
	for _, tt := range tests {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), httptest.NewRecorder())
		limit, offset := pagination(c)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("pagination(%q) = (%d, %d), want (%d, %d)", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
