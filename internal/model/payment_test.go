package model

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
	}{
		{"cash", MethodCash},
		{"card", MethodCard},
		{"transfer", MethodTransfer},
		{"check", MethodCheck},
		{" CASH ", MethodCash},
		{"bitcoin", MethodTransfer},
		{"", MethodTransfer},
	}
	for _, tt := range tests {
		if got := ParsePaymentMethod(tt.in); got != tt.want {
			t.Errorf("ParsePaymentMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAuditKind(t *testing.T) {
	tests := []struct {
		in     string
		want   AuditKind
		wantOK bool
	}{
		{"query", AuditQuery, true},
		{"payment", AuditPayment, true},
		{"tool_call", AuditToolCall, true},
		{" Update ", AuditUpdate, true},
		{"deletion", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAuditKind(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseAuditKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
