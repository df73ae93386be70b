package inventory

// Reason explains a product's availability verdict.
type Reason string

const (
	ReasonAvailable        Reason = "available"
	ReasonOutOfStock       Reason = "out_of_stock"
	ReasonManuallyDisabled Reason = "manually_disabled"
	ReasonBothDisabled     Reason = "both_disabled"
)

// Verdict is the single availability answer callers use to decide whether
// a product can be ordered. Derived from the current StockRecord on every
// query, never stored.
type Verdict struct {
	IsAvailable       bool   `json:"is_available"`
	Reason            Reason `json:"reason"`
	AvailableQuantity int    `json:"available_quantity"`
	ManuallyEnabled   bool   `json:"manually_enabled"`
}

// ResolveVerdict derives the availability verdict from a quantity and the
// manual-enabled flag. Exactly one of the four reasons applies to every
// (quantity, enabled) combination.
func ResolveVerdict(quantity int, enabled bool) Verdict {
	v := Verdict{
		AvailableQuantity: quantity,
		ManuallyEnabled:   enabled,
	}

	switch {
	case quantity > 0 && enabled:
		v.IsAvailable = true
		v.Reason = ReasonAvailable
	case quantity == 0 && enabled:
		v.Reason = ReasonOutOfStock
	case quantity > 0 && !enabled:
		v.Reason = ReasonManuallyDisabled
	default:
		v.Reason = ReasonBothDisabled
	}

	return v
}
