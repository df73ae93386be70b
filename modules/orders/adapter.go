package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ordersAdapter wraps the ServiceContainer for type-safe cross-module
// calls into the order lifecycle manager.
type ordersAdapter struct {
	container mono.ServiceContainer
}

// NewOrdersAdapter creates an adapter for order services. container is
// the ServiceContainer received via SetDependencyServiceContainer.
func NewOrdersAdapter(container mono.ServiceContainer) OrdersPort {
	if container == nil {
		panic("orders adapter requires non-nil ServiceContainer")
	}
	return &ordersAdapter{container: container}
}

// CreateOrder submits a purchase request. Validation failures come back
// in the response payload, not as a Go error.
func (a *ordersAdapter) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-order", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-order service call failed: %w", err)
	}
	return &resp, nil
}

// GetOrder retrieves one order by id.
func (a *ordersAdapter) GetOrder(ctx context.Context, orderID string) (*OrderInfo, bool, error) {
	req := GetOrderRequest{OrderID: orderID}
	var resp GetOrderResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-order", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, false, fmt.Errorf("get-order service call failed: %w", err)
	}
	return resp.Order, resp.Found, nil
}

// ListOrders retrieves orders filtered by restaurant and/or status.
func (a *ordersAdapter) ListOrders(ctx context.Context, restaurantID, status string) ([]OrderInfo, error) {
	req := ListOrdersRequest{RestaurantID: restaurantID, Status: status}
	var resp ListOrdersResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-orders", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-orders service call failed: %w", err)
	}
	return resp.Orders, nil
}

// UpdateStatus requests a status transition.
func (a *ordersAdapter) UpdateStatus(ctx context.Context, orderID, newStatus string) (bool, error) {
	req := UpdateStatusRequest{OrderID: orderID, NewStatus: newStatus}
	var resp UpdateStatusResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-status", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return false, fmt.Errorf("update-status service call failed: %w", err)
	}
	return resp.Success, nil
}

// CancelOrder requests cancellation, subject to the transition table.
func (a *ordersAdapter) CancelOrder(ctx context.Context, orderID string) (bool, error) {
	req := CancelOrderRequest{OrderID: orderID}
	var resp CancelOrderResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "cancel-order", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return false, fmt.Errorf("cancel-order service call failed: %w", err)
	}
	return resp.Success, nil
}

// MarkPaid records a payment against an order.
func (a *ordersAdapter) MarkPaid(ctx context.Context, orderID, paymentMethod string) (bool, error) {
	req := MarkPaidRequest{OrderID: orderID, PaymentMethod: paymentMethod}
	var resp MarkPaidResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "mark-paid", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return false, fmt.Errorf("mark-paid service call failed: %w", err)
	}
	return resp.Success, nil
}
