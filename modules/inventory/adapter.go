package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/restaurant-inventory/domain/inventory"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// inventoryAdapter wraps the ServiceContainer for type-safe cross-module
// calls into the stock ledger.
type inventoryAdapter struct {
	container mono.ServiceContainer
}

// NewInventoryAdapter creates an adapter for inventory services. container
// is the ServiceContainer received via SetDependencyServiceContainer.
func NewInventoryAdapter(container mono.ServiceContainer) InventoryPort {
	if container == nil {
		panic("inventory adapter requires non-nil ServiceContainer")
	}
	return &inventoryAdapter{container: container}
}

// Resolve retrieves the availability verdict for one product.
func (a *inventoryAdapter) Resolve(ctx context.Context, productID string) (domain.Verdict, error) {
	req := GetAvailabilityRequest{ProductID: productID}
	var resp GetAvailabilityResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-availability", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return domain.Verdict{}, fmt.Errorf("get-availability service call failed: %w", err)
	}
	return resp.Verdict, nil
}

// ResolveAll retrieves verdicts for a batch of products.
func (a *inventoryAdapter) ResolveAll(ctx context.Context, productIDs []string) (map[string]domain.Verdict, error) {
	req := ResolveAllRequest{ProductIDs: productIDs}
	var resp ResolveAllResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "resolve-all", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("resolve-all service call failed: %w", err)
	}
	return resp.Verdicts, nil
}

// GetQuantity retrieves the current quantity for a product.
func (a *inventoryAdapter) GetQuantity(ctx context.Context, productID string) (int, error) {
	req := GetQuantityRequest{ProductID: productID}
	var resp GetQuantityResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-quantity", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return 0, fmt.Errorf("get-quantity service call failed: %w", err)
	}
	return resp.Quantity, nil
}

// SetQuantity overrides the quantity for a product.
func (a *inventoryAdapter) SetQuantity(ctx context.Context, productID string, quantity int) (domain.Verdict, error) {
	req := SetQuantityRequest{ProductID: productID, Quantity: quantity}
	var resp SetQuantityResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "set-quantity", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return domain.Verdict{}, fmt.Errorf("set-quantity service call failed: %w", err)
	}
	return resp.Verdict, nil
}

// Decrement subtracts amount from a product's stock.
func (a *inventoryAdapter) Decrement(ctx context.Context, productID string, amount int) (*DecrementResponse, error) {
	req := DecrementRequest{ProductID: productID, Amount: amount}
	var resp DecrementResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "decrement", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("decrement service call failed: %w", err)
	}
	return &resp, nil
}

// DecrementBatch subtracts all items' amounts, all or nothing.
func (a *inventoryAdapter) DecrementBatch(ctx context.Context, items []BatchItem) (*DecrementBatchResponse, error) {
	req := DecrementBatchRequest{Items: items}
	var resp DecrementBatchResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "decrement-batch", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("decrement-batch service call failed: %w", err)
	}
	return &resp, nil
}

// SetEnabled toggles the manual availability override.
func (a *inventoryAdapter) SetEnabled(ctx context.Context, productID string, enabled bool) (domain.Verdict, error) {
	req := SetEnabledRequest{ProductID: productID, Enabled: enabled}
	var resp SetEnabledResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "set-enabled", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return domain.Verdict{}, fmt.Errorf("set-enabled service call failed: %w", err)
	}
	return resp.Verdict, nil
}

// SetThreshold changes the low-stock threshold for an existing record.
func (a *inventoryAdapter) SetThreshold(ctx context.Context, productID string, threshold int) (bool, error) {
	req := SetThresholdRequest{ProductID: productID, Threshold: threshold}
	var resp SetThresholdResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "set-threshold", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return false, fmt.Errorf("set-threshold service call failed: %w", err)
	}
	return resp.Found, nil
}

// InitStock creates a stock record for a product if none exists.
func (a *inventoryAdapter) InitStock(ctx context.Context, productID string, quantity, threshold int) error {
	req := InitStockRequest{ProductID: productID, Quantity: quantity, Threshold: threshold}
	var resp InitStockResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "init-stock", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("init-stock service call failed: %w", err)
	}
	return nil
}
