package inventory

import (
	"context"

	domain "github.com/example/restaurant-inventory/domain/inventory"
)

// GetAvailabilityRequest is the request for the get-availability service.
type GetAvailabilityRequest struct {
	ProductID string `json:"product_id"`
}

// GetAvailabilityResponse is the response for the get-availability service.
type GetAvailabilityResponse struct {
	Verdict domain.Verdict `json:"verdict"`
}

// ResolveAllRequest is the request for the resolve-all service.
type ResolveAllRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// ResolveAllResponse is the response for the resolve-all service.
type ResolveAllResponse struct {
	Verdicts map[string]domain.Verdict `json:"verdicts"`
}

// GetQuantityRequest is the request for the get-quantity service.
type GetQuantityRequest struct {
	ProductID string `json:"product_id"`
}

// GetQuantityResponse is the response for the get-quantity service.
type GetQuantityResponse struct {
	Quantity int `json:"quantity"`
}

// SetQuantityRequest is the request for the set-quantity service.
type SetQuantityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SetQuantityResponse is the response for the set-quantity service.
type SetQuantityResponse struct {
	Verdict domain.Verdict `json:"verdict"`
}

// DecrementRequest is the request for the decrement service.
type DecrementRequest struct {
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
}

// DecrementResponse is the response for the decrement service. Success is
// false when current stock does not cover the amount; nothing is mutated
// in that case.
type DecrementResponse struct {
	Success  bool `json:"success"`
	Quantity int  `json:"quantity"`
}

// BatchItem is one product/amount pair in a batch decrement.
type BatchItem struct {
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
}

// DecrementBatchRequest is the request for the decrement-batch service.
type DecrementBatchRequest struct {
	Items []BatchItem `json:"items"`
}

// DecrementBatchResponse is the response for the decrement-batch service.
// On failure no item was decremented and FailedProductID names the first
// product whose stock fell short.
type DecrementBatchResponse struct {
	Success         bool   `json:"success"`
	FailedProductID string `json:"failed_product_id,omitempty"`
}

// SetEnabledRequest is the request for the set-enabled service.
type SetEnabledRequest struct {
	ProductID string `json:"product_id"`
	Enabled   bool   `json:"enabled"`
}

// SetEnabledResponse is the response for the set-enabled service.
type SetEnabledResponse struct {
	Verdict domain.Verdict `json:"verdict"`
}

// SetThresholdRequest is the request for the set-threshold service.
type SetThresholdRequest struct {
	ProductID string `json:"product_id"`
	Threshold int    `json:"threshold"`
}

// SetThresholdResponse is the response for the set-threshold service.
type SetThresholdResponse struct {
	Found bool `json:"found"`
}

// InitStockRequest is the request for the init-stock service. Stock must
// be initialized explicitly; there is no lazy default for unseen products.
type InitStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// InitStockResponse is the response for the init-stock service.
type InitStockResponse struct {
	Quantity int `json:"quantity"`
}

// InventoryPort is the interface other modules use to reach the stock
// ledger and availability resolver.
type InventoryPort interface {
	Resolve(ctx context.Context, productID string) (domain.Verdict, error)
	ResolveAll(ctx context.Context, productIDs []string) (map[string]domain.Verdict, error)
	GetQuantity(ctx context.Context, productID string) (int, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (domain.Verdict, error)
	Decrement(ctx context.Context, productID string, amount int) (*DecrementResponse, error)
	DecrementBatch(ctx context.Context, items []BatchItem) (*DecrementBatchResponse, error)
	SetEnabled(ctx context.Context, productID string, enabled bool) (domain.Verdict, error)
	SetThreshold(ctx context.Context, productID string, threshold int) (bool, error)
	InitStock(ctx context.Context, productID string, quantity, threshold int) error
}
