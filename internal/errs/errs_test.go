package errs

import (
	"fmt"
	"testing"
)

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		isValidation bool
		isNotFound   bool
		isConflict   bool
	}{
		{"validation", Validation("bad input"), true, false, false},
		{"missing fields", MissingFields("name", "email"), true, false, false},
		{"not found", NotFound("customer", 7), false, true, false},
		{"conflict", Conflict("duplicate email"), false, false, true},
		{"wrapped not found", fmt.Errorf("load: %w", NotFound("ticket", 3)), false, true, false},
		{"plain error", fmt.Errorf("boom"), false, false, false},
		{"nil", nil, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.isValidation {
				t.Errorf("IsValidation = %v, want %v", got, tt.isValidation)
			}
			if got := IsNotFound(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFound = %v, want %v", got, tt.isNotFound)
			}
			if got := IsConflict(tt.err); got != tt.isConflict {
				t.Errorf("IsConflict = %v, want %v", got, tt.isConflict)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := MissingFields("name", "email").Error(); got != "missing required fields: name, email" {
		t.Errorf("MissingFields message: %q", got)
	}
	if got := NotFound("customer", 42).Error(); got != "customer 42 not found" {
		t.Errorf("NotFound message: %q", got)
	}
}
