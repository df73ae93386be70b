package order

import (
	"testing"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusCancelled},
		{StatusPreparing, StatusReady},
		{StatusPreparing, StatusCancelled},
		{StatusReady, StatusCompleted},
		{StatusReady, StatusPreparing}, // kitchen correction
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Errorf("%s -> %s should be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusCompleted}, // no skipping
		{StatusPending, StatusReady},
		{StatusPreparing, StatusCompleted},
		{StatusReady, StatusCancelled},
		{StatusCompleted, StatusPreparing},
		{StatusCompleted, StatusReady},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusPreparing},
		{StatusPending, StatusPending},
	}
	for _, tt := range denied {
		if tt.from.CanTransitionTo(tt.to) {
			t.Errorf("%s -> %s should be denied", tt.from, tt.to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusPreparing, StatusReady} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	if Status("delivered").Valid() {
		t.Error("unknown status should not be valid")
	}
	if !StatusPreparing.Valid() {
		t.Error("preparing should be valid")
	}
}

func TestStatus_Payable(t *testing.T) {
	for _, s := range []Status{StatusReady, StatusCompleted} {
		if !s.Payable() {
			t.Errorf("%s should be payable", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusPreparing, StatusCancelled} {
		if s.Payable() {
			t.Errorf("%s should not be payable", s)
		}
	}
}

func TestItemTotal(t *testing.T) {
	extras := []ItemCustomization{
		{Category: "Tamaño", SelectedOption: "Grande", ExtraCost: 2.5},
		{Category: "Contorno", SelectedOption: "Ensalada", ExtraCost: 1.0},
	}
	got := ItemTotal(10.0, extras, 3)
	if got != 40.5 {
		t.Errorf("ItemTotal() = %v, want 40.5", got)
	}

	if got := ItemTotal(8.0, nil, 2); got != 16.0 {
		t.Errorf("ItemTotal() without extras = %v, want 16.0", got)
	}
}
