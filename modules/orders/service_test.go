package orders

import (
	"context"
	"fmt"
	"testing"

	domaininv "github.com/example/restaurant-inventory/domain/inventory"
	"github.com/example/restaurant-inventory/domain/order"
	"github.com/example/restaurant-inventory/modules/catalog"
	"github.com/example/restaurant-inventory/modules/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeCatalog serves a fixed product set.
type fakeCatalog struct {
	products map[string]*catalog.ProductInfo
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID string) (*catalog.ProductInfo, bool, error) {
	p, ok := f.products[productID]
	return p, ok, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, restaurantID string) ([]catalog.ProductInfo, error) {
	var result []catalog.ProductInfo
	for _, p := range f.products {
		if p.RestaurantID == restaurantID {
			result = append(result, *p)
		}
	}
	return result, nil
}

// fakeInventory tracks stock in memory and records every batch decrement
// so tests can assert that failed orders never touch stock.
type fakeInventory struct {
	stock    map[string]int
	disabled map[string]bool
	batches  [][]inventory.BatchItem
	failWith string // product id that loses the stock race
}

func (f *fakeInventory) verdict(productID string) domaininv.Verdict {
	return domaininv.ResolveVerdict(f.stock[productID], !f.disabled[productID])
}

func (f *fakeInventory) Resolve(_ context.Context, productID string) (domaininv.Verdict, error) {
	return f.verdict(productID), nil
}

func (f *fakeInventory) ResolveAll(_ context.Context, productIDs []string) (map[string]domaininv.Verdict, error) {
	verdicts := make(map[string]domaininv.Verdict, len(productIDs))
	for _, id := range productIDs {
		verdicts[id] = f.verdict(id)
	}
	return verdicts, nil
}

func (f *fakeInventory) GetQuantity(_ context.Context, productID string) (int, error) {
	return f.stock[productID], nil
}

func (f *fakeInventory) SetQuantity(_ context.Context, productID string, quantity int) (domaininv.Verdict, error) {
	f.stock[productID] = quantity
	return f.verdict(productID), nil
}

func (f *fakeInventory) Decrement(_ context.Context, productID string, amount int) (*inventory.DecrementResponse, error) {
	if f.stock[productID] < amount {
		return &inventory.DecrementResponse{Success: false}, nil
	}
	f.stock[productID] -= amount
	return &inventory.DecrementResponse{Success: true, Quantity: f.stock[productID]}, nil
}

func (f *fakeInventory) DecrementBatch(_ context.Context, items []inventory.BatchItem) (*inventory.DecrementBatchResponse, error) {
	f.batches = append(f.batches, items)
	if f.failWith != "" {
		return &inventory.DecrementBatchResponse{Success: false, FailedProductID: f.failWith}, nil
	}
	for _, item := range items {
		if f.stock[item.ProductID] < item.Amount {
			return &inventory.DecrementBatchResponse{Success: false, FailedProductID: item.ProductID}, nil
		}
	}
	for _, item := range items {
		f.stock[item.ProductID] -= item.Amount
	}
	return &inventory.DecrementBatchResponse{Success: true}, nil
}

func (f *fakeInventory) SetEnabled(_ context.Context, productID string, enabled bool) (domaininv.Verdict, error) {
	f.disabled[productID] = !enabled
	return f.verdict(productID), nil
}

func (f *fakeInventory) SetThreshold(_ context.Context, _ string, _ int) (bool, error) {
	return true, nil
}

func (f *fakeInventory) InitStock(_ context.Context, productID string, quantity, _ int) error {
	f.stock[productID] = quantity
	return nil
}

func testProducts() map[string]*catalog.ProductInfo {
	return map[string]*catalog.ProductInfo{
		"pasta-carbonara": {
			ID:           "pasta-carbonara",
			RestaurantID: "rest-italiano",
			Name:         "Pasta Carbonara",
			Price:        12.0,
			Groups: []catalog.GroupInfo{
				{
					Category: "Tamaño",
					Required: true,
					Options: []catalog.OptionInfo{
						{Name: "Normal", ExtraCost: 0},
						{Name: "Grande", ExtraCost: 3.0},
					},
				},
				{
					Category: "Contorno",
					Required: false,
					Options: []catalog.OptionInfo{
						{Name: "Ensalada", ExtraCost: 1.5},
					},
				},
			},
		},
		"tiramisu": {
			ID:           "tiramisu",
			RestaurantID: "rest-italiano",
			Name:         "Tiramisu",
			Price:        6.0,
		},
		"shawarma-mixto": {
			ID:           "shawarma-mixto",
			RestaurantID: "rest-arabe",
			Name:         "Shawarma Mixto",
			Price:        9.0,
		},
	}
}

func setupOrderService(t *testing.T) (*Service, *fakeInventory) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := order.NewRepository(db)
	require.NoError(t, repo.Migrate())

	inv := &fakeInventory{
		stock:    map[string]int{"pasta-carbonara": 20, "tiramisu": 5, "shawarma-mixto": 10},
		disabled: map[string]bool{},
	}
	cat := &fakeCatalog{products: testProducts()}

	refs := 0
	newRef := func() string {
		refs++
		return fmt.Sprintf("REF%05d", refs)
	}

	return NewService(repo, cat, inv, newRef), inv
}

func TestCreateOrder_Success(t *testing.T) {
	service, inv := setupOrderService(t)

	o, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{
				ProductID: "pasta-carbonara",
				Quantity:  2,
				Customizations: []CustomizationSelection{
					{Category: "Tamaño", SelectedOption: "Grande"},
					{Category: "Contorno", SelectedOption: "Ensalada"},
				},
			},
			{ProductID: "tiramisu", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.NotEmpty(t, o.ID)
	assert.NotEmpty(t, o.Reference)
	require.Len(t, o.Items, 2)

	// (12.00 + 3.00 + 1.50) * 2 = 33.00 for the pasta, 6.00 for the dessert.
	assert.InDelta(t, 33.0, o.Items[0].TotalPrice, 0.001)
	assert.InDelta(t, 6.0, o.Items[1].TotalPrice, 0.001)
	assert.InDelta(t, 39.0, o.TotalAmount, 0.001)

	// Stock was claimed in one batch.
	require.Len(t, inv.batches, 1)
	assert.Equal(t, 18, inv.stock["pasta-carbonara"])
	assert.Equal(t, 4, inv.stock["tiramisu"])

	// The order survived the round trip to storage.
	stored, found, err := service.GetOrder(o.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, o.Reference, stored.Reference)
	require.Len(t, stored.Items[0].Customizations, 2)
}

func TestCreateOrder_MergesDuplicateProducts(t *testing.T) {
	service, inv := setupOrderService(t)

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "tiramisu", Quantity: 2},
			{ProductID: "tiramisu", Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, inv.batches, 1)
	require.Len(t, inv.batches[0], 1)
	assert.Equal(t, 3, inv.batches[0][0].Amount)
	assert.Equal(t, 2, inv.stock["tiramisu"])
}

func TestCreateOrder_MissingRequiredSelection(t *testing.T) {
	service, inv := setupOrderService(t)

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "tiramisu", Quantity: 1},
			{ProductID: "pasta-carbonara", Quantity: 1}, // no Tamaño selected
		},
	})

	var missing *MissingSelectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Tamaño"}, missing.Categories)

	// Validation failed before any stock was touched, for every item.
	assert.Empty(t, inv.batches)
	assert.Equal(t, 5, inv.stock["tiramisu"])
	assert.Equal(t, 20, inv.stock["pasta-carbonara"])
}

func TestCreateOrder_ProductFromAnotherRestaurant(t *testing.T) {
	service, inv := setupOrderService(t)

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "shawarma-mixto", Quantity: 1},
		},
	})

	var invalid *InvalidRestaurantError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "shawarma-mixto", invalid.ProductID)
	assert.Empty(t, inv.batches)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	service, _ := setupOrderService(t)

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "no-such-dish", Quantity: 1},
		},
	})

	var invalid *InvalidRestaurantError
	require.ErrorAs(t, err, &invalid)
}

func TestCreateOrder_UnknownOption(t *testing.T) {
	service, _ := setupOrderService(t)

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{
				ProductID: "pasta-carbonara",
				Quantity:  1,
				Customizations: []CustomizationSelection{
					{Category: "Tamaño", SelectedOption: "Gigante"},
				},
			},
		},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateOrder_InvalidArguments(t *testing.T) {
	service, _ := setupOrderService(t)
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, &CreateOrderRequest{RestaurantID: "rest-italiano"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.CreateOrder(ctx, &CreateOrderRequest{
		Items: []CreateOrderItem{{ProductID: "tiramisu", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.CreateOrder(ctx, &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items:        []CreateOrderItem{{ProductID: "tiramisu", Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	service, inv := setupOrderService(t)

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "tiramisu", Quantity: 6}, // only 5 in stock
		},
	})

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "tiramisu", unavailable.ProductID)
	assert.Empty(t, inv.batches)
	assert.Equal(t, 5, inv.stock["tiramisu"])
}

func TestCreateOrder_DisabledProduct(t *testing.T) {
	service, inv := setupOrderService(t)
	inv.disabled["tiramisu"] = true

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "tiramisu", Quantity: 1},
		},
	})

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, string(domaininv.ReasonManuallyDisabled), unavailable.Reason)
	assert.Empty(t, inv.batches)
}

func TestCreateOrder_LostStockRace(t *testing.T) {
	service, inv := setupOrderService(t)
	inv.failWith = "tiramisu"

	_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items: []CreateOrderItem{
			{ProductID: "tiramisu", Quantity: 1},
		},
	})

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "tiramisu", unavailable.ProductID)

	// The definitive failure came from the batch itself.
	assert.Len(t, inv.batches, 1)
	assert.Equal(t, 5, inv.stock["tiramisu"])
}

func createTestOrder(t *testing.T, service *Service) *order.Order {
	t.Helper()
	o, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		RestaurantID: "rest-italiano",
		Items:        []CreateOrderItem{{ProductID: "tiramisu", Quantity: 1}},
	})
	require.NoError(t, err)
	return o
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	service, _ := setupOrderService(t)
	o := createTestOrder(t, service)
	ctx := context.Background()

	for _, next := range []order.Status{order.StatusPreparing, order.StatusReady, order.StatusCompleted} {
		ok, err := service.UpdateStatus(ctx, o.ID, next)
		require.NoError(t, err)
		require.True(t, ok, "transition to %s should succeed", next)
	}

	stored, found, err := service.GetOrder(o.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, order.StatusCompleted, stored.Status)
}

func TestUpdateStatus_RejectsIllegalTransitions(t *testing.T) {
	service, _ := setupOrderService(t)
	o := createTestOrder(t, service)
	ctx := context.Background()

	// pending -> completed skips the pipeline.
	ok, err := service.UpdateStatus(ctx, o.ID, order.StatusCompleted)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown status.
	ok, err = service.UpdateStatus(ctx, o.ID, order.Status("delivered"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown order.
	ok, err = service.UpdateStatus(ctx, "no-such-order", order.StatusPreparing)
	require.NoError(t, err)
	assert.False(t, ok)

	// Nothing moved.
	stored, _, err := service.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status)
}

func TestUpdateStatus_TerminalIsFinal(t *testing.T) {
	service, _ := setupOrderService(t)
	o := createTestOrder(t, service)
	ctx := context.Background()

	ok, err := service.UpdateStatus(ctx, o.ID, order.StatusCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = service.UpdateStatus(ctx, o.ID, order.StatusPreparing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkPaid(t *testing.T) {
	service, _ := setupOrderService(t)
	o := createTestOrder(t, service)
	ctx := context.Background()

	// Not payable while pending.
	ok, err := service.MarkPaid(ctx, o.ID, "cash")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = service.UpdateStatus(ctx, o.ID, order.StatusPreparing)
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, o.ID, order.StatusReady)
	require.NoError(t, err)

	ok, err = service.MarkPaid(ctx, o.ID, "pago-movil")
	require.NoError(t, err)
	require.True(t, ok)

	stored, _, err := service.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pago-movil", stored.PaymentMethod)
	require.NotNil(t, stored.PaidAt)

	// Paying twice is rejected.
	ok, err = service.MarkPaid(ctx, o.ID, "cash")
	require.NoError(t, err)
	assert.False(t, ok)

	// Empty method is rejected.
	ok, err = service.MarkPaid(ctx, o.ID, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListOrders_Filters(t *testing.T) {
	service, _ := setupOrderService(t)
	ctx := context.Background()

	first := createTestOrder(t, service)
	second := createTestOrder(t, service)
	_, err := service.UpdateStatus(ctx, second.ID, order.StatusPreparing)
	require.NoError(t, err)

	all, err := service.ListOrders("rest-italiano", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := service.ListOrders("rest-italiano", string(order.StatusPending))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	none, err := service.ListOrders("rest-arabe", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateOrder_ReferencesAreUnique(t *testing.T) {
	service, _ := setupOrderService(t)

	a := createTestOrder(t, service)
	b := createTestOrder(t, service)
	if a.Reference == b.Reference {
		t.Fatalf("expected distinct references, both %q", a.Reference)
	}
}
