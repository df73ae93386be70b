package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderCreatedEvent is emitted when a new order has been stored.
type OrderCreatedEvent struct {
	OrderID      string    `json:"order_id"`
	Reference    string    `json:"reference"`
	RestaurantID string    `json:"restaurant_id"`
	TotalAmount  float64   `json:"total_amount"`
	ItemCount    int       `json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderCreatedV1 is the typed event definition for order creation.
// Subject: events.orders.v1.order-created
var OrderCreatedV1 = helper.EventDefinition[OrderCreatedEvent](
	"orders", "OrderCreated", "v1",
)

// OrderStatusChangedEvent is emitted on every accepted status transition.
type OrderStatusChangedEvent struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	ChangedAt    time.Time `json:"changed_at"`
}

// OrderStatusChangedV1 is the typed event definition for status changes.
// Subject: events.orders.v1.order-status-changed
var OrderStatusChangedV1 = helper.EventDefinition[OrderStatusChangedEvent](
	"orders", "OrderStatusChanged", "v1",
)

// OrderPaidEvent is emitted when an order is marked paid.
type OrderPaidEvent struct {
	OrderID       string    `json:"order_id"`
	RestaurantID  string    `json:"restaurant_id"`
	PaymentMethod string    `json:"payment_method"`
	PaidAt        time.Time `json:"paid_at"`
}

// OrderPaidV1 is the typed event definition for order payment.
// Subject: events.orders.v1.order-paid
var OrderPaidV1 = helper.EventDefinition[OrderPaidEvent](
	"orders", "OrderPaid", "v1",
)
