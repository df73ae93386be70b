package inventory

import (
	"context"

	domain "github.com/example/restaurant-inventory/domain/inventory"
)

// demoStock is the starting stock for the demo catalog. Initialization is
// explicit: products never get a quantity by being looked up.
var demoStock = []domain.StockRecord{
	{ProductID: "pasta-carbonara", Quantity: 24, LowStockThreshold: 5},
	{ProductID: "pizza-margherita", Quantity: 18, LowStockThreshold: 5},
	{ProductID: "tiramisu", Quantity: 6, LowStockThreshold: 4},
	{ProductID: "shawarma-mixto", Quantity: 30, LowStockThreshold: 8},
	{ProductID: "falafel-bowl", Quantity: 12, LowStockThreshold: 5},
}

// SeedDemoStock initializes stock for the demo catalog. Existing records
// are untouched, so restarts do not reset live quantities in a persistent
// database.
func SeedDemoStock(ctx context.Context, service *Service) error {
	for _, record := range demoStock {
		if _, err := service.InitStock(ctx, record.ProductID, record.Quantity, record.LowStockThreshold); err != nil {
			return err
		}
	}
	return nil
}
