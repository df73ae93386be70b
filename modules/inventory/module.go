package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	domain "github.com/example/restaurant-inventory/domain/inventory"
	"github.com/example/restaurant-inventory/events"
	"github.com/example/restaurant-inventory/modules/alerts"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// InventoryModule provides the stock ledger and availability resolver
// services.
type InventoryModule struct {
	repo     *domain.Repository
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*InventoryModule)(nil)
var _ mono.ServiceProviderModule = (*InventoryModule)(nil)
var _ mono.DependentModule = (*InventoryModule)(nil)
var _ mono.EventEmitterModule = (*InventoryModule)(nil)
var _ mono.HealthCheckableModule = (*InventoryModule)(nil)

// NewModule creates a new InventoryModule backed by the given database.
func NewModule(db *gorm.DB) *InventoryModule {
	repo := domain.NewRepository(db)
	return &InventoryModule{
		repo:    repo,
		service: NewService(repo, nil),
	}
}

// Name returns the module name.
func (m *InventoryModule) Name() string {
	return "inventory"
}

// Dependencies returns the list of module dependencies. The alert engine
// is invoked synchronously after every stock mutation.
func (m *InventoryModule) Dependencies() []string {
	return []string{"alerts"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *InventoryModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "alerts" {
		m.service.SetAlertNotifier(alerts.NewAlertsAdapter(container))
	}
}

// SetEventBus stores the event bus for publishing stock events.
func (m *InventoryModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	m.service.SetEmitter(func(event events.StockChangedEvent) {
		if err := events.StockChangedV1.Publish(bus, event, nil); err != nil {
			log.Printf("[inventory] Warning: failed to publish StockChanged for %s: %v", event.ProductID, err)
		}
	})
}

// EmitEvents declares the events this module publishes.
func (m *InventoryModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.StockChangedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *InventoryModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-availability", json.Unmarshal, json.Marshal, m.getAvailability,
	); err != nil {
		return fmt.Errorf("failed to register get-availability service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "resolve-all", json.Unmarshal, json.Marshal, m.resolveAll,
	); err != nil {
		return fmt.Errorf("failed to register resolve-all service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-quantity", json.Unmarshal, json.Marshal, m.getQuantity,
	); err != nil {
		return fmt.Errorf("failed to register get-quantity service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "set-quantity", json.Unmarshal, json.Marshal, m.setQuantity,
	); err != nil {
		return fmt.Errorf("failed to register set-quantity service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "decrement", json.Unmarshal, json.Marshal, m.decrement,
	); err != nil {
		return fmt.Errorf("failed to register decrement service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "decrement-batch", json.Unmarshal, json.Marshal, m.decrementBatch,
	); err != nil {
		return fmt.Errorf("failed to register decrement-batch service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "set-enabled", json.Unmarshal, json.Marshal, m.setEnabled,
	); err != nil {
		return fmt.Errorf("failed to register set-enabled service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "set-threshold", json.Unmarshal, json.Marshal, m.setThreshold,
	); err != nil {
		return fmt.Errorf("failed to register set-threshold service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "init-stock", json.Unmarshal, json.Marshal, m.initStock,
	); err != nil {
		return fmt.Errorf("failed to register init-stock service: %w", err)
	}

	log.Printf("[inventory] Registered services: get-availability, resolve-all, get-quantity, set-quantity, decrement, decrement-batch, set-enabled, set-threshold, init-stock")
	return nil
}

func (m *InventoryModule) getAvailability(_ context.Context, req GetAvailabilityRequest, _ *mono.Msg) (GetAvailabilityResponse, error) {
	verdict, err := m.service.Resolve(req.ProductID)
	if err != nil {
		return GetAvailabilityResponse{}, err
	}
	return GetAvailabilityResponse{Verdict: verdict}, nil
}

func (m *InventoryModule) resolveAll(_ context.Context, req ResolveAllRequest, _ *mono.Msg) (ResolveAllResponse, error) {
	verdicts, err := m.service.ResolveAll(req.ProductIDs)
	if err != nil {
		return ResolveAllResponse{}, err
	}
	return ResolveAllResponse{Verdicts: verdicts}, nil
}

func (m *InventoryModule) getQuantity(_ context.Context, req GetQuantityRequest, _ *mono.Msg) (GetQuantityResponse, error) {
	quantity, err := m.service.GetQuantity(req.ProductID)
	if err != nil {
		return GetQuantityResponse{}, err
	}
	return GetQuantityResponse{Quantity: quantity}, nil
}

func (m *InventoryModule) setQuantity(ctx context.Context, req SetQuantityRequest, _ *mono.Msg) (SetQuantityResponse, error) {
	record, err := m.service.SetQuantity(ctx, req.ProductID, req.Quantity)
	if err != nil {
		return SetQuantityResponse{}, err
	}
	return SetQuantityResponse{
		Verdict: domain.ResolveVerdict(record.Quantity, record.ManuallyEnabled),
	}, nil
}

func (m *InventoryModule) decrement(ctx context.Context, req DecrementRequest, _ *mono.Msg) (DecrementResponse, error) {
	record, ok, err := m.service.Decrement(ctx, req.ProductID, req.Amount)
	if err != nil {
		return DecrementResponse{}, err
	}
	if !ok {
		quantity, qErr := m.service.GetQuantity(req.ProductID)
		if qErr != nil {
			return DecrementResponse{}, qErr
		}
		return DecrementResponse{Success: false, Quantity: quantity}, nil
	}
	return DecrementResponse{Success: true, Quantity: record.Quantity}, nil
}

func (m *InventoryModule) decrementBatch(ctx context.Context, req DecrementBatchRequest, _ *mono.Msg) (DecrementBatchResponse, error) {
	items := make([]domain.DecrementItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.DecrementItem{ProductID: item.ProductID, Amount: item.Amount})
	}

	err := m.service.DecrementBatch(ctx, items)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return DecrementBatchResponse{Success: false, FailedProductID: insufficient.ProductID}, nil
		}
		return DecrementBatchResponse{}, err
	}
	return DecrementBatchResponse{Success: true}, nil
}

func (m *InventoryModule) setEnabled(ctx context.Context, req SetEnabledRequest, _ *mono.Msg) (SetEnabledResponse, error) {
	record, err := m.service.SetEnabled(ctx, req.ProductID, req.Enabled)
	if err != nil {
		return SetEnabledResponse{}, err
	}
	return SetEnabledResponse{
		Verdict: domain.ResolveVerdict(record.Quantity, record.ManuallyEnabled),
	}, nil
}

func (m *InventoryModule) setThreshold(ctx context.Context, req SetThresholdRequest, _ *mono.Msg) (SetThresholdResponse, error) {
	_, err := m.service.SetThreshold(ctx, req.ProductID, req.Threshold)
	if err == domain.ErrNotFound {
		return SetThresholdResponse{Found: false}, nil
	}
	if err != nil {
		return SetThresholdResponse{}, err
	}
	return SetThresholdResponse{Found: true}, nil
}

func (m *InventoryModule) initStock(ctx context.Context, req InitStockRequest, _ *mono.Msg) (InitStockResponse, error) {
	record, err := m.service.InitStock(ctx, req.ProductID, req.Quantity, req.Threshold)
	if err != nil {
		return InitStockResponse{}, err
	}
	return InitStockResponse{Quantity: record.Quantity}, nil
}

// Start migrates the stock table and seeds demo stock on first run.
func (m *InventoryModule) Start(ctx context.Context) error {
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate stock table: %w", err)
	}

	if err := SeedDemoStock(ctx, m.service); err != nil {
		return fmt.Errorf("failed to seed stock: %w", err)
	}

	log.Println("[inventory] Module started (depends on: alerts)")
	return nil
}

// Stop shuts down the module.
func (m *InventoryModule) Stop(_ context.Context) error {
	log.Println("[inventory] Module stopped")
	return nil
}

// Health reports whether the stock table is reachable.
func (m *InventoryModule) Health(_ context.Context) mono.HealthStatus {
	_, err := m.service.GetQuantity("health-probe")
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("stock table unreachable: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}
