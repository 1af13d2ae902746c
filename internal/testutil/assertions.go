package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "finpilot/internal/errors"
)

// AssertAppError fails unless err is an *AppError with expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s, got nil", expectedCode)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected %s, got %T: %v", expectedCode, err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError stops the test on a non-nil err.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertMoney compares two amounts to the cent, which is how they are shown.
func AssertMoney(t *testing.T, what string, got, want float64) {
	t.Helper()

	g := decimal.NewFromFloat(got).Round(2)
	w := decimal.NewFromFloat(want).Round(2)
	if !g.Equal(w) {
		t.Errorf("%s: expected %s, got %s", what, w.StringFixed(2), g.StringFixed(2))
	}
}
