package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order not found")

// Repository provides access to order storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the order tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Order{}, &OrderItem{}, &ItemCustomization{})
}

// Create persists a new order together with its items and customizations.
func (r *Repository) Create(o *Order) error {
	if err := r.db.Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order with its items and customizations.
func (r *Repository) FindByID(id string) (*Order, error) {
	var o Order
	err := r.db.Preload("Items.Customizations").Preload("Items").
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// List retrieves orders, optionally filtered by restaurant and status,
// newest first.
func (r *Repository) List(restaurantID string, status Status) ([]*Order, error) {
	q := r.db.Preload("Items.Customizations").Preload("Items").
		Order("created_at DESC")
	if restaurantID != "" {
		q = q.Where("restaurant_id = ?", restaurantID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []*Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus persists a status change. Transition legality is the
// service's responsibility; the repository only guards against racing
// writers by matching the expected current status.
func (r *Repository) UpdateStatus(id string, from, to Status) (bool, error) {
	res := r.db.Model(&Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkPaid records the payment method and timestamp.
func (r *Repository) MarkPaid(id, paymentMethod string, paidAt time.Time) (bool, error) {
	res := r.db.Model(&Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_method": paymentMethod,
			"paid_at":        paidAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
