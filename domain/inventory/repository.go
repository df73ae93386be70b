package inventory

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no stock record exists for a product.
var ErrNotFound = errors.New("stock record not found")

// ErrInvalidQuantity is returned for negative quantities or non-positive
// decrement amounts.
var ErrInvalidQuantity = errors.New("invalid quantity")

// InsufficientStockError reports the first line item that could not be
// covered by current stock during a batch decrement.
type InsufficientStockError struct {
	ProductID string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Requested)
}

// DecrementItem is one product/amount pair in a batch decrement.
type DecrementItem struct {
	ProductID string
	Amount    int
}

// Repository provides access to stock record storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stock repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the stock_records table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&StockRecord{})
}

// Find retrieves the stock record for a product.
func (r *Repository) Find(productID string) (*StockRecord, error) {
	var record StockRecord
	if err := r.db.First(&record, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock record: %w", err)
	}
	return &record, nil
}

// FindAll retrieves stock records for the given products. Products without
// a record are simply absent from the result.
func (r *Repository) FindAll(productIDs []string) (map[string]*StockRecord, error) {
	var records []*StockRecord
	if err := r.db.Find(&records, "product_id IN ?", productIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to find stock records: %w", err)
	}

	result := make(map[string]*StockRecord, len(records))
	for _, rec := range records {
		result[rec.ProductID] = rec
	}
	return result, nil
}

// Init creates a stock record if one does not already exist. Existing
// records are left untouched.
func (r *Repository) Init(record *StockRecord) error {
	if record.Quantity < 0 || record.LowStockThreshold < 0 {
		return ErrInvalidQuantity
	}
	if err := r.db.Where("product_id = ?", record.ProductID).FirstOrCreate(record).Error; err != nil {
		return fmt.Errorf("failed to init stock record: %w", err)
	}
	return nil
}

// SetQuantity overrides the current quantity for a product, creating the
// record with defaults if it does not exist yet.
func (r *Repository) SetQuantity(productID string, quantity int) (*StockRecord, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	record := &StockRecord{
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: DefaultLowStockThreshold,
		ManuallyEnabled:   true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&StockRecord{}).Where("product_id = ?", productID).
			UpdateColumn("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(record).Error
		}
		return tx.First(record, "product_id = ?", productID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set quantity: %w", err)
	}
	return record, nil
}

// Decrement atomically subtracts amount from a product's quantity. Returns
// ok=false without mutating anything when current stock does not cover the
// amount (or the product has no record).
func (r *Repository) Decrement(productID string, amount int) (*StockRecord, bool, error) {
	if amount < 1 {
		return nil, false, ErrInvalidQuantity
	}

	var record StockRecord
	insufficient := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&StockRecord{}).
			Where("product_id = ? AND quantity >= ?", productID, amount).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			insufficient = true
			return nil
		}
		return tx.First(&record, "product_id = ?", productID).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	if insufficient {
		return nil, false, nil
	}
	return &record, true, nil
}

// DecrementBatch subtracts every item's amount in a single transaction.
// Either all items are decremented or none is: the first item that current
// stock cannot cover aborts the transaction with an InsufficientStockError.
// Items are applied in product-id order so concurrent batches cannot
// deadlock.
func (r *Repository) DecrementBatch(items []DecrementItem) (map[string]*StockRecord, error) {
	for _, item := range items {
		if item.Amount < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	sorted := make([]DecrementItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	updated := make(map[string]*StockRecord, len(sorted))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range sorted {
			res := tx.Model(&StockRecord{}).
				Where("product_id = ? AND quantity >= ?", item.ProductID, item.Amount).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{ProductID: item.ProductID, Requested: item.Amount}
			}

			var record StockRecord
			if err := tx.First(&record, "product_id = ?", item.ProductID).Error; err != nil {
				return err
			}
			updated[item.ProductID] = &record
		}
		return nil
	})
	if err != nil {
		var insufficient *InsufficientStockError
		if errors.As(err, &insufficient) {
			return nil, insufficient
		}
		return nil, fmt.Errorf("failed to decrement batch: %w", err)
	}
	return updated, nil
}

// SetEnabled updates the manual enable/disable override, creating the
// record (with zero stock) if none exists so an admin can hide a product
// before it is ever stocked.
func (r *Repository) SetEnabled(productID string, enabled bool) (*StockRecord, error) {
	record := &StockRecord{
		ProductID:         productID,
		LowStockThreshold: DefaultLowStockThreshold,
		ManuallyEnabled:   enabled,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&StockRecord{}).Where("product_id = ?", productID).
			UpdateColumn("manually_enabled", enabled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(record).Error
		}
		return tx.First(record, "product_id = ?", productID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set enabled flag: %w", err)
	}
	return record, nil
}

// SetThreshold updates the low-stock threshold for an existing record.
func (r *Repository) SetThreshold(productID string, threshold int) (*StockRecord, error) {
	if threshold < 0 {
		return nil, ErrInvalidQuantity
	}

	record := &StockRecord{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&StockRecord{}).Where("product_id = ?", productID).
			UpdateColumn("low_stock_threshold", threshold)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(record, "product_id = ?", productID).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set threshold: %w", err)
	}
	return record, nil
}
