package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
)

// Validation rejects before any transaction is opened, so these cases
// run against a nil database.
func TestRecordValidation(t *testing.T) {
	maxAmount := decimal.RequireFromString("999999.99")
	svc := New(nil, nil, nil, maxAmount)

	tests := []struct {
		name   string
		amount string
	}{
		{"zero amount", "0"},
		{"negative amount", "-10.00"},
		{"over the ceiling", "1000000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), Input{
				CustomerID: 1,
				Amount:     decimal.RequireFromString(tt.amount),
				Method:     model.MethodCash,
			})
			if !errs.IsValidation(err) {
				t.Errorf("Record(%s) error = %v, want validation error", tt.amount, err)
			}
		})
	}
}

func TestReceiptDelta(t *testing.T) {
	r := Receipt{
		BalanceBefore: decimal.RequireFromString("100.00"),
		BalanceAfter:  decimal.RequireFromString("175.50"),
	}
	if got := r.Delta(); !got.Equal(decimal.RequireFromString("75.50")) {
		t.Errorf("Delta() = %s, want 75.50", got)
	}
}
