package api

import (
	domain "github.com/example/restaurant-inventory/domain/inventory"
	"github.com/example/restaurant-inventory/modules/catalog"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// MenuItemResponse is one product on a restaurant's menu together with
// its live availability verdict.
type MenuItemResponse struct {
	Product      catalog.ProductInfo `json:"product"`
	Availability domain.Verdict      `json:"availability"`
}

// MenuResponse is the response for the restaurant menu listing.
type MenuResponse struct {
	RestaurantID string             `json:"restaurant_id"`
	Items        []MenuItemResponse `json:"items"`
}

// DecrementRequest is the body for the stock decrement endpoint.
type DecrementRequest struct {
	Amount int `json:"amount"`
}

// DecrementResponse is returned by the stock decrement endpoint.
type DecrementResponse struct {
	Success  bool `json:"success"`
	Quantity int  `json:"quantity"`
}

// SetQuantityRequest is the body for the quantity override endpoint.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetEnabledRequest is the body for the manual availability toggle.
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// SetThresholdRequest is the body for the low-stock threshold endpoint.
type SetThresholdRequest struct {
	Threshold int `json:"threshold"`
}

// VerdictResponse wraps an availability verdict.
type VerdictResponse struct {
	ProductID string         `json:"product_id"`
	Verdict   domain.Verdict `json:"verdict"`
}

// UpdateOrderStatusRequest is the body for the order status endpoint.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// PayOrderRequest is the body for the order payment endpoint.
type PayOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}
