package orders

import (
	"context"
	"time"

	"github.com/example/restaurant-inventory/domain/order"
)

// CustomizationSelection is one chosen option in a create-order request.
// Extra costs are taken from the catalog definition, never from the client.
type CustomizationSelection struct {
	Category       string `json:"category"`
	SelectedOption string `json:"selected_option"`
}

// CreateOrderItem is one requested line item.
type CreateOrderItem struct {
	ProductID      string                   `json:"product_id"`
	Quantity       int                      `json:"quantity"`
	Customizations []CustomizationSelection `json:"customizations,omitempty"`
}

// CreateOrderRequest is the request for the create-order service.
type CreateOrderRequest struct {
	RestaurantID string            `json:"restaurant_id"`
	Items        []CreateOrderItem `json:"items"`
}

// OrderError carries a validation failure across the service boundary
// with enough detail for the storefront ("select a Contorno", "out of
// stock") rather than a generic error string.
type OrderError struct {
	Kind              string   `json:"kind"`
	Message           string   `json:"message"`
	ProductID         string   `json:"product_id,omitempty"`
	MissingCategories []string `json:"missing_categories,omitempty"`
}

// CreateOrderResponse is the response for the create-order service.
// Exactly one of Order and Error is set.
type CreateOrderResponse struct {
	Order *OrderInfo  `json:"order,omitempty"`
	Error *OrderError `json:"error,omitempty"`
}

// OrderInfo is the wire representation of an order.
type OrderInfo struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	RestaurantID  string          `json:"restaurant_id"`
	Items         []OrderItemInfo `json:"items"`
	TotalAmount   float64         `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderItemInfo is one line item of an order on the wire.
type OrderItemInfo struct {
	ProductID      string                  `json:"product_id"`
	ProductName    string                  `json:"product_name"`
	Quantity       int                     `json:"quantity"`
	UnitPrice      float64                 `json:"unit_price"`
	TotalPrice     float64                 `json:"total_price"`
	Customizations []CustomizationInfo     `json:"customizations,omitempty"`
}

// CustomizationInfo is one chosen option on the wire.
type CustomizationInfo struct {
	Category       string  `json:"category"`
	SelectedOption string  `json:"selected_option"`
	ExtraCost      float64 `json:"extra_cost"`
}

// GetOrderRequest is the request for the get-order service.
type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

// GetOrderResponse is the response for the get-order service.
type GetOrderResponse struct {
	Found bool       `json:"found"`
	Order *OrderInfo `json:"order,omitempty"`
}

// ListOrdersRequest is the request for the list-orders service.
type ListOrdersRequest struct {
	RestaurantID string `json:"restaurant_id,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ListOrdersResponse is the response for the list-orders service.
type ListOrdersResponse struct {
	Orders []OrderInfo `json:"orders"`
	Total  int         `json:"total"`
}

// UpdateStatusRequest is the request for the update-status service.
type UpdateStatusRequest struct {
	OrderID   string `json:"order_id"`
	NewStatus string `json:"new_status"`
}

// UpdateStatusResponse is the response for the update-status service.
// Success is false for unknown orders and illegal transitions alike.
type UpdateStatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
}

// MarkPaidRequest is the request for the mark-paid service.
type MarkPaidRequest struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
}

// MarkPaidResponse is the response for the mark-paid service.
type MarkPaidResponse struct {
	Success bool `json:"success"`
}

// CancelOrderRequest is the request for the cancel-order service.
type CancelOrderRequest struct {
	OrderID string `json:"order_id"`
}

// CancelOrderResponse is the response for the cancel-order service.
// Success is false when the order is not in a cancellable state.
type CancelOrderResponse struct {
	Success bool `json:"success"`
}

// OrdersPort is the interface the API layer uses to reach the order
// lifecycle manager.
type OrdersPort interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (*OrderInfo, bool, error)
	ListOrders(ctx context.Context, restaurantID, status string) ([]OrderInfo, error)
	UpdateStatus(ctx context.Context, orderID, newStatus string) (bool, error)
	CancelOrder(ctx context.Context, orderID string) (bool, error)
	MarkPaid(ctx context.Context, orderID, paymentMethod string) (bool, error)
}

func toOrderInfo(o *order.Order) *OrderInfo {
	info := &OrderInfo{
		ID:            o.ID,
		Reference:     o.Reference,
		RestaurantID:  o.RestaurantID,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
	}
	for _, item := range o.Items {
		itemInfo := OrderItemInfo{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
		for _, c := range item.Customizations {
			itemInfo.Customizations = append(itemInfo.Customizations, CustomizationInfo{
				Category:       c.Category,
				SelectedOption: c.SelectedOption,
				ExtraCost:      c.ExtraCost,
			})
		}
		info.Items = append(info.Items, itemInfo)
	}
	return info
}
