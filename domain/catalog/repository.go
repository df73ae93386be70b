package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

// Repository provides access to product catalog storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Product{}, &CustomizationGroup{}, &CustomizationOption{})
}

// Create persists a product with its customization groups and options.
func (r *Repository) Create(p *Product) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product with its customization groups and options.
func (r *Repository) FindByID(id string) (*Product, error) {
	var p Product
	err := r.db.Preload("Groups.Options").Preload("Groups").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// ListByRestaurant retrieves all products belonging to a restaurant.
func (r *Repository) ListByRestaurant(restaurantID string) ([]*Product, error) {
	var products []*Product
	err := r.db.Preload("Groups.Options").Preload("Groups").
		Where("restaurant_id = ?", restaurantID).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Count returns the number of products in the catalog.
func (r *Repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
