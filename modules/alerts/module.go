package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/restaurant-inventory/events"
	"github.com/example/restaurant-inventory/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AlertsModule maintains low-stock and out-of-stock alerts. The inventory
// module invokes its reevaluate service synchronously after every stock
// mutation; raised and cleared alerts are also published on the event bus
// for the console feeds.
type AlertsModule struct {
	engine      *Engine
	catalogPort catalog.CatalogPort
	eventBus    mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*AlertsModule)(nil)
var _ mono.ServiceProviderModule = (*AlertsModule)(nil)
var _ mono.DependentModule = (*AlertsModule)(nil)
var _ mono.EventEmitterModule = (*AlertsModule)(nil)

// NewModule creates a new AlertsModule.
func NewModule() *AlertsModule {
	return &AlertsModule{
		engine: NewEngine(),
	}
}

// Name returns the module name.
func (m *AlertsModule) Name() string {
	return "alerts"
}

// Dependencies returns the list of module dependencies. The catalog
// supplies the product/restaurant relationship used for scope filtering.
func (m *AlertsModule) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *AlertsModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.catalogPort = catalog.NewCatalogAdapter(container)
	}
}

// SetEventBus stores the event bus for publishing alert events.
func (m *AlertsModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *AlertsModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.AlertRaisedV1.ToBase(),
		events.AlertClearedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AlertsModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "reevaluate", json.Unmarshal, json.Marshal, m.reevaluate,
	); err != nil {
		return fmt.Errorf("failed to register reevaluate service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-alerts", json.Unmarshal, json.Marshal, m.listAlerts,
	); err != nil {
		return fmt.Errorf("failed to register list-alerts service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "acknowledge-alert", json.Unmarshal, json.Marshal, m.acknowledge,
	); err != nil {
		return fmt.Errorf("failed to register acknowledge-alert service: %w", err)
	}

	log.Printf("[alerts] Registered services: reevaluate, list-alerts, acknowledge-alert")
	return nil
}

// reevaluate handles the reevaluate service request. This is the
// onQuantityChanged hook: it supersedes any prior alert for the product
// and raises a new one when the quantity is at or below the threshold.
func (m *AlertsModule) reevaluate(ctx context.Context, req ReevaluateRequest, _ *mono.Msg) (ReevaluateResponse, error) {
	cleared, raised := m.engine.OnQuantityChanged(req.ProductID, req.Quantity, req.Threshold)

	resp := ReevaluateResponse{}
	restaurantID := m.restaurantFor(ctx, req.ProductID)

	if cleared != nil {
		resp.ClearedAlertID = cleared.ID
		m.publishCleared(cleared, restaurantID, "superseded")
	}
	if raised != nil {
		resp.RaisedAlertID = raised.ID
		resp.RaisedType = string(raised.Type)
		m.publishRaised(raised, restaurantID)
		log.Printf("[alerts] %s alert for product %s (quantity=%d, threshold=%d)",
			raised.Type, req.ProductID, req.Quantity, req.Threshold)
	}

	return resp, nil
}

// listAlerts handles the list-alerts service request.
func (m *AlertsModule) listAlerts(ctx context.Context, req ListAlertsRequest, _ *mono.Msg) (ListAlertsResponse, error) {
	var filter func(productID string) bool

	if req.RestaurantID != "" {
		products, err := m.catalogPort.ListProducts(ctx, req.RestaurantID)
		if err != nil {
			return ListAlertsResponse{}, fmt.Errorf("failed to resolve restaurant scope: %w", err)
		}
		scope := make(map[string]bool, len(products))
		for _, p := range products {
			scope[p.ID] = true
		}
		filter = func(productID string) bool { return scope[productID] }
	}

	active := m.engine.ListActive(filter)
	resp := ListAlertsResponse{
		Alerts: make([]AlertInfo, 0, len(active)),
		Total:  len(active),
	}
	for _, a := range active {
		resp.Alerts = append(resp.Alerts, AlertInfo{
			ID:              a.ID,
			ProductID:       a.ProductID,
			Type:            string(a.Type),
			CurrentQuantity: a.CurrentQuantity,
			Threshold:       a.Threshold,
			RaisedAt:        a.RaisedAt,
		})
	}
	return resp, nil
}

// acknowledge handles the acknowledge-alert service request. Unknown ids
// return acknowledged=false rather than an error.
func (m *AlertsModule) acknowledge(ctx context.Context, req AcknowledgeRequest, _ *mono.Msg) (AcknowledgeResponse, error) {
	alert, ok := m.engine.Acknowledge(req.AlertID)
	if !ok {
		return AcknowledgeResponse{Acknowledged: false}, nil
	}

	m.publishCleared(alert, m.restaurantFor(ctx, alert.ProductID), "acknowledged")
	log.Printf("[alerts] Alert %s acknowledged (product %s)", alert.ID, alert.ProductID)
	return AcknowledgeResponse{Acknowledged: true}, nil
}

// restaurantFor resolves the restaurant owning a product. Lookup failures
// degrade to an empty scope id; alert handling never depends on it.
func (m *AlertsModule) restaurantFor(ctx context.Context, productID string) string {
	if m.catalogPort == nil {
		return ""
	}
	product, found, err := m.catalogPort.GetProduct(ctx, productID)
	if err != nil || !found {
		return ""
	}
	return product.RestaurantID
}

func (m *AlertsModule) publishRaised(alert *Alert, restaurantID string) {
	if m.eventBus == nil {
		return
	}
	event := events.AlertRaisedEvent{
		AlertID:         alert.ID,
		ProductID:       alert.ProductID,
		RestaurantID:    restaurantID,
		Type:            string(alert.Type),
		CurrentQuantity: alert.CurrentQuantity,
		Threshold:       alert.Threshold,
		RaisedAt:        alert.RaisedAt,
	}
	if err := events.AlertRaisedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[alerts] Warning: failed to publish AlertRaised for %s: %v", alert.ProductID, err)
	}
}

func (m *AlertsModule) publishCleared(alert *Alert, restaurantID, cause string) {
	if m.eventBus == nil {
		return
	}
	event := events.AlertClearedEvent{
		AlertID:      alert.ID,
		ProductID:    alert.ProductID,
		RestaurantID: restaurantID,
		Cause:        cause,
		ClearedAt:    time.Now(),
	}
	if err := events.AlertClearedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[alerts] Warning: failed to publish AlertCleared for %s: %v", alert.ProductID, err)
	}
}

// Start validates dependencies.
func (m *AlertsModule) Start(_ context.Context) error {
	if m.catalogPort == nil {
		return fmt.Errorf("catalogPort dependency not set")
	}
	if m.eventBus == nil {
		log.Println("[alerts] Warning: eventBus not set, alert events will not be published")
	}
	log.Println("[alerts] Module started (depends on: catalog)")
	return nil
}

// Stop shuts down the module.
func (m *AlertsModule) Stop(_ context.Context) error {
	log.Printf("[alerts] Module stopped (%d active alerts)", m.engine.ActiveCount())
	return nil
}
