package orders

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced to the API layer so the storefront can show a
// specific message instead of a generic failure.
const (
	KindInvalidArgument          = "invalid_argument"
	KindInvalidRestaurant        = "invalid_restaurant"
	KindMissingRequiredSelection = "missing_required_selection"
	KindInsufficientStock        = "insufficient_stock"
	KindInvalidTransition        = "invalid_transition"
	KindNotFound                 = "not_found"
)

// ErrInvalidArgument is returned for malformed create-order requests.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidRestaurantError is returned when an item's product does not
// belong to the order's restaurant (or does not exist at all).
type InvalidRestaurantError struct {
	ProductID string
}

func (e *InvalidRestaurantError) Error() string {
	return fmt.Sprintf("product %s does not belong to this restaurant", e.ProductID)
}

// MissingSelectionError is returned when required customization
// categories have no selection. Categories lists every missing category
// across all items, so the storefront can prompt for all of them at once.
type MissingSelectionError struct {
	Categories []string
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("missing required selection for: %s", strings.Join(e.Categories, ", "))
}

// UnavailableError is returned when a line item fails the availability
// check or loses the stock race at decrement time. No stock has been
// claimed when this error is returned.
type UnavailableError struct {
	ProductID string
	Reason    string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("product %s is not available (%s)", e.ProductID, e.Reason)
}
