package alerts

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AlertType classifies a stock alert.
type AlertType string

const (
	TypeLowStock   AlertType = "low_stock"
	TypeOutOfStock AlertType = "out_of_stock"
)

// Alert is an unacknowledged stock warning for a single product.
type Alert struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Type            AlertType `json:"type"`
	CurrentQuantity int       `json:"current_quantity"`
	Threshold       int       `json:"threshold"`
	RaisedAt        time.Time `json:"raised_at"`
}

// Engine maintains the set of active stock alerts. At most one active
// alert exists per product: every quantity change removes the prior alert
// for that product before potentially raising a new one, so the slot map
// enforces the invariant structurally.
type Engine struct {
	mu     sync.RWMutex
	active map[string]*Alert // productID -> active alert
}

// NewEngine creates an empty alert engine.
func NewEngine() *Engine {
	return &Engine{
		active: make(map[string]*Alert),
	}
}

// OnQuantityChanged re-evaluates the alert slot for a product after a
// stock mutation. Any existing alert is superseded; a new alert is raised
// when the quantity sits at or below the threshold (out_of_stock at zero,
// low_stock otherwise). Returns the superseded and the newly raised alert,
// either of which may be nil.
func (e *Engine) OnQuantityChanged(productID string, quantity, threshold int) (cleared, raised *Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.active[productID]; ok {
		delete(e.active, productID)
		cleared = prev
	}

	if quantity <= threshold {
		alertType := TypeLowStock
		if quantity == 0 {
			alertType = TypeOutOfStock
		}
		raised = &Alert{
			ID:              uuid.New().String(),
			ProductID:       productID,
			Type:            alertType,
			CurrentQuantity: quantity,
			Threshold:       threshold,
			RaisedAt:        time.Now(),
		}
		e.active[productID] = raised
	}

	return cleared, raised
}

// Acknowledge removes the alert with the given id from the active set.
// Returns false when the id is unknown, which also makes a second
// acknowledge of the same alert a no-op.
func (e *Engine) Acknowledge(alertID string) (*Alert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for productID, alert := range e.active {
		if alert.ID == alertID {
			delete(e.active, productID)
			return alert, true
		}
	}
	return nil, false
}

// ListActive returns all active alerts, oldest first. A nil filter returns
// everything; otherwise only alerts whose product passes the filter are
// included.
func (e *Engine) ListActive(filter func(productID string) bool) []Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Alert, 0, len(e.active))
	for _, alert := range e.active {
		if filter != nil && !filter(alert.ProductID) {
			continue
		}
		result = append(result, *alert)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RaisedAt.Before(result[j].RaisedAt)
	})
	return result
}

// ActiveFor returns the active alert for a product, if any.
func (e *Engine) ActiveFor(productID string) (*Alert, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	alert, ok := e.active[productID]
	if !ok {
		return nil, false
	}
	copied := *alert
	return &copied, true
}

// ActiveCount returns the number of active alerts.
func (e *Engine) ActiveCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.active)
}
