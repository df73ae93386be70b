package inventory

import (
	"testing"
)

func TestResolveVerdict(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		enabled  bool
		want     Verdict
	}{
		{
			name:     "in stock and enabled",
			quantity: 10,
			enabled:  true,
			want: Verdict{
				IsAvailable:       true,
				Reason:            ReasonAvailable,
				AvailableQuantity: 10,
				ManuallyEnabled:   true,
			},
		},
		{
			name:     "out of stock",
			quantity: 0,
			enabled:  true,
			want: Verdict{
				IsAvailable:       false,
				Reason:            ReasonOutOfStock,
				AvailableQuantity: 0,
				ManuallyEnabled:   true,
			},
		},
		{
			name:     "manually disabled with stock",
			quantity: 7,
			enabled:  false,
			want: Verdict{
				IsAvailable:       false,
				Reason:            ReasonManuallyDisabled,
				AvailableQuantity: 7,
				ManuallyEnabled:   false,
			},
		},
		{
			name:     "disabled and out of stock",
			quantity: 0,
			enabled:  false,
			want: Verdict{
				IsAvailable:       false,
				Reason:            ReasonBothDisabled,
				AvailableQuantity: 0,
				ManuallyEnabled:   false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVerdict(tt.quantity, tt.enabled)
			if got != tt.want {
				t.Errorf("ResolveVerdict(%d, %v) = %+v, want %+v", tt.quantity, tt.enabled, got, tt.want)
			}
		})
	}
}

func TestResolveVerdict_SingleItemLeft(t *testing.T) {
	got := ResolveVerdict(1, true)
	if !got.IsAvailable {
		t.Errorf("one item left should still be available, got %+v", got)
	}
}
