package broadcast

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/restaurant-inventory/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BroadcastModule consumes inventory, alert and order events and pushes
// them to connected dashboard WebSocket clients.
type BroadcastModule struct {
	hub       *Hub
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*BroadcastModule)(nil)
var _ mono.EventConsumerModule = (*BroadcastModule)(nil)
var _ mono.HealthCheckableModule = (*BroadcastModule)(nil)

// NewModule creates a new BroadcastModule.
func NewModule() *BroadcastModule {
	return &BroadcastModule{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Start initializes the module and starts the hub.
func (m *BroadcastModule) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[broadcast] Module started - WebSocket hub running")
	return nil
}

// Stop shuts down the module.
func (m *BroadcastModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	log.Printf("[broadcast] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers registers event handlers.
func (m *BroadcastModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.StockChangedV1, m.handleStockChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register StockChanged consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.AlertRaisedV1, m.handleAlertRaised, m,
	); err != nil {
		return fmt.Errorf("failed to register AlertRaised consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.AlertClearedV1, m.handleAlertCleared, m,
	); err != nil {
		return fmt.Errorf("failed to register AlertCleared consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.OrderCreatedV1, m.handleOrderCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register OrderCreated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.OrderStatusChangedV1, m.handleOrderStatusChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register OrderStatusChanged consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.OrderPaidV1, m.handleOrderPaid, m,
	); err != nil {
		return fmt.Errorf("failed to register OrderPaid consumer: %w", err)
	}

	log.Println("[broadcast] Registered event consumers: StockChanged, AlertRaised, AlertCleared, OrderCreated, OrderStatusChanged, OrderPaid")
	return nil
}

// Event handlers

func (m *BroadcastModule) handleStockChanged(_ context.Context, event events.StockChangedEvent, _ *mono.Msg) error {
	// Stock events carry no restaurant scope; every dashboard gets them.
	m.hub.Broadcast("", WSPush{
		Type:      "stock_changed",
		ProductID: event.ProductID,
		Quantity:  &event.Quantity,
		Timestamp: event.ChangedAt,
	})
	return nil
}

func (m *BroadcastModule) handleAlertRaised(_ context.Context, event events.AlertRaisedEvent, _ *mono.Msg) error {
	log.Printf("[broadcast] Pushing %s alert for product %s", event.Type, event.ProductID)

	m.hub.Broadcast(event.RestaurantID, WSPush{
		Type:         "alert_raised",
		RestaurantID: event.RestaurantID,
		AlertID:      event.AlertID,
		AlertType:    event.Type,
		ProductID:    event.ProductID,
		Quantity:     &event.CurrentQuantity,
		Timestamp:    event.RaisedAt,
	})
	return nil
}

func (m *BroadcastModule) handleAlertCleared(_ context.Context, event events.AlertClearedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(event.RestaurantID, WSPush{
		Type:         "alert_cleared",
		RestaurantID: event.RestaurantID,
		AlertID:      event.AlertID,
		ProductID:    event.ProductID,
		Cause:        event.Cause,
		Timestamp:    event.ClearedAt,
	})
	return nil
}

func (m *BroadcastModule) handleOrderCreated(_ context.Context, event events.OrderCreatedEvent, _ *mono.Msg) error {
	log.Printf("[broadcast] Pushing new order %s to restaurant %s", event.Reference, event.RestaurantID)

	m.hub.Broadcast(event.RestaurantID, WSPush{
		Type:         "order_created",
		RestaurantID: event.RestaurantID,
		OrderID:      event.OrderID,
		Reference:    event.Reference,
		Timestamp:    event.CreatedAt,
	})
	return nil
}

func (m *BroadcastModule) handleOrderStatusChanged(_ context.Context, event events.OrderStatusChangedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(event.RestaurantID, WSPush{
		Type:         "order_status_changed",
		RestaurantID: event.RestaurantID,
		OrderID:      event.OrderID,
		OldStatus:    event.OldStatus,
		NewStatus:    event.NewStatus,
		Timestamp:    event.ChangedAt,
	})
	return nil
}

func (m *BroadcastModule) handleOrderPaid(_ context.Context, event events.OrderPaidEvent, _ *mono.Msg) error {
	m.hub.Broadcast(event.RestaurantID, WSPush{
		Type:          "order_paid",
		RestaurantID:  event.RestaurantID,
		OrderID:       event.OrderID,
		PaymentMethod: event.PaymentMethod,
		Timestamp:     event.PaidAt,
	})
	return nil
}

// GetHub returns the WebSocket hub for the API module to use.
func (m *BroadcastModule) GetHub() *Hub {
	return m.hub
}

// WSPush is the structure sent to WebSocket clients.
type WSPush struct {
	Type          string    `json:"type"`
	RestaurantID  string    `json:"restaurant_id,omitempty"`
	ProductID     string    `json:"product_id,omitempty"`
	Quantity      *int      `json:"quantity,omitempty"`
	AlertID       string    `json:"alert_id,omitempty"`
	AlertType     string    `json:"alert_type,omitempty"`
	Cause         string    `json:"cause,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	OldStatus     string    `json:"old_status,omitempty"`
	NewStatus     string    `json:"new_status,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}
