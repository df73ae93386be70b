package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/restaurant-inventory/domain/order"
	"github.com/example/restaurant-inventory/events"
	"github.com/example/restaurant-inventory/modules/catalog"
	"github.com/example/restaurant-inventory/modules/inventory"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	nanoid "github.com/jaevor/go-nanoid"
	"gorm.io/gorm"
)

const referenceAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// OrdersModule provides the order lifecycle services.
type OrdersModule struct {
	db       *gorm.DB
	repo     *order.Repository
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*OrdersModule)(nil)
var _ mono.ServiceProviderModule = (*OrdersModule)(nil)
var _ mono.DependentModule = (*OrdersModule)(nil)
var _ mono.EventEmitterModule = (*OrdersModule)(nil)
var _ mono.HealthCheckableModule = (*OrdersModule)(nil)

// NewModule creates a new OrdersModule backed by the given database.
func NewModule(db *gorm.DB) *OrdersModule {
	newRef, err := nanoid.CustomASCII(referenceAlphabet, 8)
	if err != nil {
		// Only reachable with a bad alphabet constant.
		panic(fmt.Sprintf("orders: reference generator: %v", err))
	}

	repo := order.NewRepository(db)
	return &OrdersModule{
		db:      db,
		repo:    repo,
		service: NewService(repo, nil, nil, newRef),
	}
}

// Name returns the module name.
func (m *OrdersModule) Name() string {
	return "orders"
}

// Dependencies returns the list of module dependencies. Orders are
// validated against the catalog and claim stock through inventory.
func (m *OrdersModule) Dependencies() []string {
	return []string{"catalog", "inventory"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *OrdersModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.service.catalog = catalog.NewCatalogAdapter(container)
	case "inventory":
		m.service.inventory = inventory.NewInventoryAdapter(container)
	}
}

// SetEventBus stores the event bus and wires the lifecycle hooks.
func (m *OrdersModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	m.service.SetHooks(
		func(o *order.Order) {
			event := events.OrderCreatedEvent{
				OrderID:      o.ID,
				Reference:    o.Reference,
				RestaurantID: o.RestaurantID,
				TotalAmount:  o.TotalAmount,
				ItemCount:    len(o.Items),
				CreatedAt:    o.CreatedAt,
			}
			if err := events.OrderCreatedV1.Publish(bus, event, nil); err != nil {
				log.Printf("[orders] Warning: failed to publish OrderCreated for %s: %v", o.ID, err)
			}
		},
		func(o *order.Order, from, to order.Status) {
			event := events.OrderStatusChangedEvent{
				OrderID:      o.ID,
				RestaurantID: o.RestaurantID,
				OldStatus:    string(from),
				NewStatus:    string(to),
				ChangedAt:    time.Now(),
			}
			if err := events.OrderStatusChangedV1.Publish(bus, event, nil); err != nil {
				log.Printf("[orders] Warning: failed to publish OrderStatusChanged for %s: %v", o.ID, err)
			}
		},
		func(o *order.Order) {
			event := events.OrderPaidEvent{
				OrderID:       o.ID,
				RestaurantID:  o.RestaurantID,
				PaymentMethod: o.PaymentMethod,
				PaidAt:        *o.PaidAt,
			}
			if err := events.OrderPaidV1.Publish(bus, event, nil); err != nil {
				log.Printf("[orders] Warning: failed to publish OrderPaid for %s: %v", o.ID, err)
			}
		},
	)
}

// EmitEvents declares the events this module publishes.
func (m *OrdersModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderCreatedV1.ToBase(),
		events.OrderStatusChangedV1.ToBase(),
		events.OrderPaidV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *OrdersModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-order", json.Unmarshal, json.Marshal, m.createOrder,
	); err != nil {
		return fmt.Errorf("failed to register create-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-order", json.Unmarshal, json.Marshal, m.getOrder,
	); err != nil {
		return fmt.Errorf("failed to register get-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-orders", json.Unmarshal, json.Marshal, m.listOrders,
	); err != nil {
		return fmt.Errorf("failed to register list-orders service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-status", json.Unmarshal, json.Marshal, m.updateStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "cancel-order", json.Unmarshal, json.Marshal, m.cancelOrder,
	); err != nil {
		return fmt.Errorf("failed to register cancel-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "mark-paid", json.Unmarshal, json.Marshal, m.markPaid,
	); err != nil {
		return fmt.Errorf("failed to register mark-paid service: %w", err)
	}

	log.Printf("[orders] Registered services: create-order, get-order, list-orders, update-status, cancel-order, mark-paid")
	return nil
}

func (m *OrdersModule) createOrder(ctx context.Context, req CreateOrderRequest, _ *mono.Msg) (CreateOrderResponse, error) {
	o, err := m.service.CreateOrder(ctx, &req)
	if err != nil {
		if orderErr := toOrderError(err); orderErr != nil {
			return CreateOrderResponse{Error: orderErr}, nil
		}
		return CreateOrderResponse{}, err
	}
	log.Printf("[orders] Created order %s (%s) with %d items, total %.2f",
		o.Reference, o.ID, len(o.Items), o.TotalAmount)
	return CreateOrderResponse{Order: toOrderInfo(o)}, nil
}

func (m *OrdersModule) getOrder(_ context.Context, req GetOrderRequest, _ *mono.Msg) (GetOrderResponse, error) {
	o, found, err := m.service.GetOrder(req.OrderID)
	if err != nil {
		return GetOrderResponse{}, err
	}
	if !found {
		return GetOrderResponse{Found: false}, nil
	}
	return GetOrderResponse{Found: true, Order: toOrderInfo(o)}, nil
}

func (m *OrdersModule) listOrders(_ context.Context, req ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	list, err := m.service.ListOrders(req.RestaurantID, req.Status)
	if err != nil {
		return ListOrdersResponse{}, err
	}
	resp := ListOrdersResponse{Orders: make([]OrderInfo, 0, len(list)), Total: len(list)}
	for _, o := range list {
		resp.Orders = append(resp.Orders, *toOrderInfo(o))
	}
	return resp, nil
}

func (m *OrdersModule) updateStatus(ctx context.Context, req UpdateStatusRequest, _ *mono.Msg) (UpdateStatusResponse, error) {
	ok, err := m.service.UpdateStatus(ctx, req.OrderID, order.Status(req.NewStatus))
	if err != nil {
		return UpdateStatusResponse{}, err
	}
	if !ok {
		return UpdateStatusResponse{Success: false}, nil
	}
	return UpdateStatusResponse{Success: true, Status: req.NewStatus}, nil
}

// cancelOrder is sugar over update-status: the transition table decides
// whether the order can still be cancelled.
func (m *OrdersModule) cancelOrder(ctx context.Context, req CancelOrderRequest, _ *mono.Msg) (CancelOrderResponse, error) {
	ok, err := m.service.UpdateStatus(ctx, req.OrderID, order.StatusCancelled)
	if err != nil {
		return CancelOrderResponse{}, err
	}
	return CancelOrderResponse{Success: ok}, nil
}

func (m *OrdersModule) markPaid(ctx context.Context, req MarkPaidRequest, _ *mono.Msg) (MarkPaidResponse, error) {
	ok, err := m.service.MarkPaid(ctx, req.OrderID, req.PaymentMethod)
	if err != nil {
		return MarkPaidResponse{}, err
	}
	return MarkPaidResponse{Success: ok}, nil
}

// toOrderError converts the service's typed validation errors into the
// wire representation. Returns nil for errors that should propagate
// as-is (storage failures and the like).
func toOrderError(err error) *OrderError {
	var invalidRestaurant *InvalidRestaurantError
	var missingSelection *MissingSelectionError
	var unavailable *UnavailableError

	switch {
	case errors.Is(err, ErrInvalidArgument):
		return &OrderError{Kind: KindInvalidArgument, Message: err.Error()}
	case errors.As(err, &invalidRestaurant):
		return &OrderError{
			Kind:      KindInvalidRestaurant,
			Message:   invalidRestaurant.Error(),
			ProductID: invalidRestaurant.ProductID,
		}
	case errors.As(err, &missingSelection):
		return &OrderError{
			Kind:              KindMissingRequiredSelection,
			Message:           missingSelection.Error(),
			MissingCategories: missingSelection.Categories,
		}
	case errors.As(err, &unavailable):
		return &OrderError{
			Kind:      KindInsufficientStock,
			Message:   unavailable.Error(),
			ProductID: unavailable.ProductID,
		}
	}
	return nil
}

// Start migrates the order tables.
func (m *OrdersModule) Start(ctx context.Context) error {
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate order tables: %w", err)
	}
	log.Printf("[orders] Module started")
	return nil
}

// Stop performs cleanup when the module is stopped.
func (m *OrdersModule) Stop(ctx context.Context) error {
	log.Printf("[orders] Module stopped")
	return nil
}

// Health reports module health by probing the order store.
func (m *OrdersModule) Health(ctx context.Context) mono.HealthStatus {
	if _, err := m.service.ListOrders("", ""); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "order store unreachable",
			Details: map[string]any{"error": err.Error()},
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "orders module is healthy",
	}
}
