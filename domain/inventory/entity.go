package inventory

import (
	"time"
)

// DefaultLowStockThreshold is applied when a stock record is created
// without an explicit threshold.
const DefaultLowStockThreshold = 5

// StockRecord tracks the sellable units of a single product.
// It is owned exclusively by the inventory module; all mutations go
// through the Repository.
type StockRecord struct {
	ProductID         string    `gorm:"primarykey;size:64" json:"product_id"`
	Quantity          int       `gorm:"not null" json:"quantity"`
	LowStockThreshold int       `gorm:"not null" json:"low_stock_threshold"`
	ManuallyEnabled   bool      `gorm:"not null" json:"manually_enabled"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the table name for the StockRecord model.
func (StockRecord) TableName() string {
	return "stock_records"
}
