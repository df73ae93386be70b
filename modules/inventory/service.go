package inventory

import (
	"context"
	"log"
	"time"

	domain "github.com/example/restaurant-inventory/domain/inventory"
	"github.com/example/restaurant-inventory/events"
)

// AlertNotifier is the hook into the alert engine. It is called
// synchronously after every successful stock mutation, before the
// operation returns to the caller.
type AlertNotifier interface {
	QuantityChanged(ctx context.Context, productID string, quantity, threshold int) error
}

// Service is the stock ledger and availability resolver. It is the only
// component that mutates raw quantities; every mutation is serialized per
// product and followed by an alert re-evaluation for that product.
type Service struct {
	repo   *domain.Repository
	alerts AlertNotifier
	locks  *keyedMutex
	emit   func(events.StockChangedEvent)
}

// NewService creates a new inventory service. alerts may be nil, in which
// case no alert evaluation happens (used only in isolated tests).
func NewService(repo *domain.Repository, alerts AlertNotifier) *Service {
	return &Service{
		repo:   repo,
		alerts: alerts,
		locks:  newKeyedMutex(),
	}
}

// SetEmitter installs the stock-changed event hook. The module wires this
// to the event bus; tests usually leave it unset.
func (s *Service) SetEmitter(emit func(events.StockChangedEvent)) {
	s.emit = emit
}

// SetAlertNotifier replaces the alert hook. Used by the module once the
// alerts dependency container arrives.
func (s *Service) SetAlertNotifier(alerts AlertNotifier) {
	s.alerts = alerts
}

// Resolve derives the availability verdict for a product. Unseen products
// resolve to an out_of_stock verdict with zero quantity; no record is
// created.
func (s *Service) Resolve(productID string) (domain.Verdict, error) {
	record, err := s.repo.Find(productID)
	if err == domain.ErrNotFound {
		return domain.ResolveVerdict(0, true), nil
	}
	if err != nil {
		return domain.Verdict{}, err
	}
	return domain.ResolveVerdict(record.Quantity, record.ManuallyEnabled), nil
}

// ResolveAll derives verdicts for a batch of products. Each entry is
// independent; there are no partial-failure semantics.
func (s *Service) ResolveAll(productIDs []string) (map[string]domain.Verdict, error) {
	records, err := s.repo.FindAll(productIDs)
	if err != nil {
		return nil, err
	}

	verdicts := make(map[string]domain.Verdict, len(productIDs))
	for _, id := range productIDs {
		if record, ok := records[id]; ok {
			verdicts[id] = domain.ResolveVerdict(record.Quantity, record.ManuallyEnabled)
		} else {
			verdicts[id] = domain.ResolveVerdict(0, true)
		}
	}
	return verdicts, nil
}

// GetQuantity returns the current quantity, zero for unseen products.
func (s *Service) GetQuantity(productID string) (int, error) {
	record, err := s.repo.Find(productID)
	if err == domain.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Quantity, nil
}

// InitStock creates a stock record for a product if none exists. Existing
// records are left untouched.
func (s *Service) InitStock(ctx context.Context, productID string, quantity, threshold int) (*domain.StockRecord, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}
	record := &domain.StockRecord{
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		ManuallyEnabled:   true,
	}
	if err := s.repo.Init(record); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, record)
	return record, nil
}

// SetQuantity overrides the quantity for a product (administrative path).
func (s *Service) SetQuantity(ctx context.Context, productID string, quantity int) (*domain.StockRecord, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	record, err := s.repo.SetQuantity(productID, quantity)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, record)
	return record, nil
}

// Decrement subtracts amount from a product's stock. Returns ok=false with
// no mutation when stock does not cover the amount.
func (s *Service) Decrement(ctx context.Context, productID string, amount int) (*domain.StockRecord, bool, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	record, ok, err := s.repo.Decrement(productID, amount)
	if err != nil || !ok {
		return nil, ok, err
	}

	s.afterMutation(ctx, record)
	return record, true, nil
}

// DecrementBatch subtracts every item's amount, all or nothing. Product
// locks are taken in sorted order and the decrements run in one database
// transaction, so an order either claims all of its stock or none of it.
func (s *Service) DecrementBatch(ctx context.Context, items []domain.DecrementItem) error {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.ProductID)
	}
	unlock := s.locks.LockAll(keys)
	defer unlock()

	updated, err := s.repo.DecrementBatch(items)
	if err != nil {
		return err
	}

	for _, record := range updated {
		s.afterMutation(ctx, record)
	}
	return nil
}

// SetEnabled toggles the manual override that hides a product regardless
// of stock. Quantity and threshold are untouched, so no alert
// re-evaluation happens; the change is still published for the consoles.
func (s *Service) SetEnabled(ctx context.Context, productID string, enabled bool) (*domain.StockRecord, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	record, err := s.repo.SetEnabled(productID, enabled)
	if err != nil {
		return nil, err
	}

	s.publish(record)
	return record, nil
}

// SetThreshold changes the low-stock threshold and re-triggers alert
// evaluation through the same path as a quantity change, so alert state
// never drifts from the threshold.
func (s *Service) SetThreshold(ctx context.Context, productID string, threshold int) (*domain.StockRecord, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	record, err := s.repo.SetThreshold(productID, threshold)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, record)
	return record, nil
}

// afterMutation runs the per-product side effects of a successful
// mutation: alert re-evaluation (synchronous) and the stock-changed event.
func (s *Service) afterMutation(ctx context.Context, record *domain.StockRecord) {
	if s.alerts != nil {
		if err := s.alerts.QuantityChanged(ctx, record.ProductID, record.Quantity, record.LowStockThreshold); err != nil {
			log.Printf("[inventory] Warning: alert re-evaluation failed for %s: %v", record.ProductID, err)
		}
	}
	s.publish(record)
}

func (s *Service) publish(record *domain.StockRecord) {
	if s.emit == nil {
		return
	}
	s.emit(events.StockChangedEvent{
		ProductID:       record.ProductID,
		Quantity:        record.Quantity,
		Threshold:       record.LowStockThreshold,
		ManuallyEnabled: record.ManuallyEnabled,
		ChangedAt:       time.Now(),
	})
}
