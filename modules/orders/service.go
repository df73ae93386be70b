package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/restaurant-inventory/domain/order"
	"github.com/example/restaurant-inventory/modules/catalog"
	"github.com/example/restaurant-inventory/modules/inventory"
	"github.com/google/uuid"
)

// Service is the order lifecycle manager. It validates purchase requests
// against the catalog, claims stock through the inventory port (all or
// nothing), and owns the order status state machine.
type Service struct {
	repo      *order.Repository
	catalog   catalog.CatalogPort
	inventory inventory.InventoryPort
	newRef    func() string

	onCreated       func(*order.Order)
	onStatusChanged func(o *order.Order, from, to order.Status)
	onPaid          func(*order.Order)
}

// NewService creates a new order service. newRef generates short order
// reference codes shown on receipts.
func NewService(repo *order.Repository, cat catalog.CatalogPort, inv inventory.InventoryPort, newRef func() string) *Service {
	return &Service{
		repo:      repo,
		catalog:   cat,
		inventory: inv,
		newRef:    newRef,
	}
}

// SetHooks installs the event hooks the module wires to the event bus.
// Any of them may be nil.
func (s *Service) SetHooks(
	onCreated func(*order.Order),
	onStatusChanged func(o *order.Order, from, to order.Status),
	onPaid func(*order.Order),
) {
	s.onCreated = onCreated
	s.onStatusChanged = onStatusChanged
	s.onPaid = onPaid
}

// CreateOrder validates a purchase request and creates the order. All
// checks run before any stock is touched: required customizations first,
// then availability for every item, then a single all-or-nothing batch
// decrement. The returned errors carry enough detail for the storefront.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*order.Order, error) {
	if req.RestaurantID == "" {
		return nil, fmt.Errorf("%w: restaurant id is required", ErrInvalidArgument)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidArgument)
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: item product id is required", ErrInvalidArgument)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item quantity must be at least 1", ErrInvalidArgument)
		}
	}

	// Step 1: load products and verify restaurant ownership.
	products := make(map[string]*catalog.ProductInfo)
	for _, item := range req.Items {
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		product, found, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}
		if !found || product.RestaurantID != req.RestaurantID {
			return nil, &InvalidRestaurantError{ProductID: item.ProductID}
		}
		products[item.ProductID] = product
	}

	// Step 2: required customization categories must have a selection.
	var missing []string
	seenMissing := make(map[string]bool)
	for _, item := range req.Items {
		product := products[item.ProductID]

		chosen := make(map[string]CustomizationSelection, len(item.Customizations))
		for _, sel := range item.Customizations {
			if _, ok := product.FindOption(sel.Category, sel.SelectedOption); !ok {
				return nil, fmt.Errorf("%w: unknown option %q in category %q for product %s",
					ErrInvalidArgument, sel.SelectedOption, sel.Category, item.ProductID)
			}
			chosen[sel.Category] = sel
		}

		for _, category := range product.RequiredCategories() {
			sel, ok := chosen[category]
			if !ok || sel.SelectedOption == "" {
				if !seenMissing[category] {
					seenMissing[category] = true
					missing = append(missing, category)
				}
			}
		}
	}
	if len(missing) > 0 {
		return nil, &MissingSelectionError{Categories: missing}
	}

	// Step 3: availability pre-check for every item, no mutation yet.
	needed := make(map[string]int)
	productIDs := make([]string, 0, len(products))
	for _, item := range req.Items {
		if _, ok := needed[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		needed[item.ProductID] += item.Quantity
	}

	verdicts, err := s.inventory.ResolveAll(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve availability: %w", err)
	}
	for _, productID := range productIDs {
		verdict := verdicts[productID]
		if !verdict.IsAvailable {
			return nil, &UnavailableError{ProductID: productID, Reason: string(verdict.Reason)}
		}
		if verdict.AvailableQuantity < needed[productID] {
			return nil, &UnavailableError{ProductID: productID, Reason: "insufficient_stock"}
		}
	}

	// Step 4: claim stock, all or nothing. A lost race surfaces here as a
	// definitive failure with nothing decremented.
	batch := make([]inventory.BatchItem, 0, len(productIDs))
	for _, productID := range productIDs {
		batch = append(batch, inventory.BatchItem{ProductID: productID, Amount: needed[productID]})
	}
	decResp, err := s.inventory.DecrementBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}
	if !decResp.Success {
		return nil, &UnavailableError{ProductID: decResp.FailedProductID, Reason: "insufficient_stock"}
	}

	// Step 5: build and store the order.
	o := &order.Order{
		ID:           uuid.New().String(),
		Reference:    s.newRef(),
		RestaurantID: req.RestaurantID,
		Status:       order.StatusPending,
	}
	for _, item := range req.Items {
		product := products[item.ProductID]

		customizations := make([]order.ItemCustomization, 0, len(item.Customizations))
		for _, sel := range item.Customizations {
			option, _ := product.FindOption(sel.Category, sel.SelectedOption)
			customizations = append(customizations, order.ItemCustomization{
				Category:       sel.Category,
				SelectedOption: sel.SelectedOption,
				ExtraCost:      option.ExtraCost,
			})
		}

		orderItem := order.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    product.Name,
			Quantity:       item.Quantity,
			UnitPrice:      product.Price,
			Customizations: customizations,
		}
		orderItem.TotalPrice = order.ItemTotal(product.Price, customizations, item.Quantity)
		o.TotalAmount += orderItem.TotalPrice
		o.Items = append(o.Items, orderItem)
	}

	if err := s.repo.Create(o); err != nil {
		// Stock is already claimed at this point; the failure is storage,
		// not validation, so surface it as-is.
		log.Printf("[orders] Failed to store order after stock claim: %v", err)
		return nil, err
	}

	if s.onCreated != nil {
		s.onCreated(o)
	}
	return o, nil
}

// GetOrder retrieves an order. Unknown ids return found=false.
func (s *Service) GetOrder(orderID string) (*order.Order, bool, error) {
	o, err := s.repo.FindByID(orderID)
	if err == order.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

// ListOrders retrieves orders filtered by restaurant and/or status.
func (s *Service) ListOrders(restaurantID, status string) ([]*order.Order, error) {
	return s.repo.List(restaurantID, order.Status(status))
}

// UpdateStatus applies a status transition. Returns false without
// mutating for unknown orders, unknown statuses and transitions not in
// the table (including anything out of a terminal state).
func (s *Service) UpdateStatus(ctx context.Context, orderID string, newStatus order.Status) (bool, error) {
	if !newStatus.Valid() {
		return false, nil
	}

	o, err := s.repo.FindByID(orderID)
	if err == order.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !o.Status.CanTransitionTo(newStatus) {
		return false, nil
	}

	changed, err := s.repo.UpdateStatus(orderID, o.Status, newStatus)
	if err != nil || !changed {
		return false, err
	}

	if s.onStatusChanged != nil {
		s.onStatusChanged(o, o.Status, newStatus)
	}
	log.Printf("[orders] Order %s: %s -> %s", o.Reference, o.Status, newStatus)
	return true, nil
}

// MarkPaid records payment for a served order. Valid only from ready or
// completed, and only once.
func (s *Service) MarkPaid(ctx context.Context, orderID, paymentMethod string) (bool, error) {
	if paymentMethod == "" {
		return false, nil
	}

	o, err := s.repo.FindByID(orderID)
	if err == order.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !o.Status.Payable() || o.PaidAt != nil {
		return false, nil
	}

	now := time.Now()
	paid, err := s.repo.MarkPaid(orderID, paymentMethod, now)
	if err != nil || !paid {
		return false, err
	}

	o.PaymentMethod = paymentMethod
	o.PaidAt = &now
	if s.onPaid != nil {
		s.onPaid(o)
	}
	log.Printf("[orders] Order %s paid via %s", o.Reference, paymentMethod)
	return true, nil
}
