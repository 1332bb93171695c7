package domain

import (
	"errors"
	"testing"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
)

func TestMachine(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range tests {
		err := Machine.Check(tc.from, tc.to)
		if (err == nil) != tc.ok {
			t.Errorf("%s -> %s: err = %v, want ok=%v", tc.from, tc.to, err, tc.ok)
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFoundOrState) {
			t.Errorf("%s -> %s: %v is not a state error", tc.from, tc.to, err)
		}
	}
}

func TestNewPayment(t *testing.T) {
	p := NewPayment("plastic", 10, nil, "")
	if p.TotalAmount != 28.75 || p.Tax != 3.75 || p.BaseAmount != 25 {
		t.Errorf("amounts = %+v", p)
	}
	if p.Status != StatusPending || p.Method != MethodCash {
		t.Errorf("status %q method %q", p.Status, p.Method)
	}
	if p.AdditionalServices == nil {
		t.Error("services should be an empty slice, not nil")
	}
}
