package inventory

import (
	"context"
	"errors"
	"testing"

	domain "github.com/example/restaurant-inventory/domain/inventory"
	"github.com/example/restaurant-inventory/events"
	"github.com/example/restaurant-inventory/modules/alerts"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// engineNotifier runs a real alert engine behind the notifier hook, the
// same shape the alerts module exposes over the service container.
type engineNotifier struct {
	engine *alerts.Engine
}

func (n *engineNotifier) QuantityChanged(_ context.Context, productID string, quantity, threshold int) error {
	n.engine.OnQuantityChanged(productID, quantity, threshold)
	return nil
}

func setupService(t *testing.T) (*Service, *alerts.Engine) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := domain.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	engine := alerts.NewEngine()
	return NewService(repo, &engineNotifier{engine: engine}), engine
}

func TestService_DecrementRaisesLowStockAlert(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.InitStock(ctx, "pasta", 10, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}

	record, ok, err := service.Decrement(ctx, "pasta", 6)
	if err != nil || !ok {
		t.Fatalf("Decrement() = %v, %v", ok, err)
	}
	if record.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", record.Quantity)
	}

	// The alert was raised before Decrement returned.
	alert, active := engine.ActiveFor("pasta")
	if !active {
		t.Fatal("expected an active alert after dropping below threshold")
	}
	if alert.Type != alerts.TypeLowStock {
		t.Errorf("expected low_stock, got %s", alert.Type)
	}
}

func TestService_DecrementToZeroSupersedesAlert(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.InitStock(ctx, "pasta", 10, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}
	if _, ok, err := service.Decrement(ctx, "pasta", 6); err != nil || !ok {
		t.Fatalf("Decrement() = %v, %v", ok, err)
	}
	if _, ok, err := service.Decrement(ctx, "pasta", 4); err != nil || !ok {
		t.Fatalf("Decrement() = %v, %v", ok, err)
	}

	alert, active := engine.ActiveFor("pasta")
	if !active || alert.Type != alerts.TypeOutOfStock {
		t.Fatalf("expected out_of_stock alert, got %+v", alert)
	}
	if engine.ActiveCount() != 1 {
		t.Errorf("expected exactly one active alert, got %d", engine.ActiveCount())
	}

	verdict, err := service.Resolve("pasta")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if verdict.IsAvailable || verdict.Reason != domain.ReasonOutOfStock {
		t.Errorf("expected out_of_stock verdict, got %+v", verdict)
	}
}

func TestService_FailedDecrementLeavesStateAlone(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.InitStock(ctx, "pasta", 3, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}
	before := engine.ActiveCount()

	_, ok, err := service.Decrement(ctx, "pasta", 4)
	if err != nil {
		t.Fatalf("Decrement() error = %v", err)
	}
	if ok {
		t.Fatal("Decrement() ok = true for amount above stock, want false")
	}

	quantity, err := service.GetQuantity("pasta")
	if err != nil {
		t.Fatalf("GetQuantity() error = %v", err)
	}
	if quantity != 3 {
		t.Errorf("expected quantity unchanged at 3, got %d", quantity)
	}
	if engine.ActiveCount() != before {
		t.Errorf("failed decrement must not touch alert state")
	}
}

func TestService_ResolveUnseenProduct(t *testing.T) {
	service, _ := setupService(t)

	verdict, err := service.Resolve("never-stocked")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := domain.Verdict{
		IsAvailable:       false,
		Reason:            domain.ReasonOutOfStock,
		AvailableQuantity: 0,
		ManuallyEnabled:   true,
	}
	if verdict != want {
		t.Errorf("Resolve() = %+v, want %+v", verdict, want)
	}

	// Resolving must not create a record.
	if quantity, _ := service.GetQuantity("never-stocked"); quantity != 0 {
		t.Errorf("expected zero quantity, got %d", quantity)
	}
}

func TestService_ManualDisableHidesProduct(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.InitStock(ctx, "pasta", 10, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}

	if _, err := service.SetEnabled(ctx, "pasta", false); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	verdict, err := service.Resolve("pasta")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if verdict.IsAvailable || verdict.Reason != domain.ReasonManuallyDisabled {
		t.Errorf("expected manually_disabled verdict, got %+v", verdict)
	}
	if verdict.AvailableQuantity != 10 {
		t.Errorf("disable must not touch quantity, got %d", verdict.AvailableQuantity)
	}

	// Toggling visibility is not a stock change; no alert is raised.
	if engine.ActiveCount() != 0 {
		t.Errorf("expected no alerts after disable, got %d", engine.ActiveCount())
	}

	if _, err := service.SetEnabled(ctx, "pasta", true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	verdict, _ = service.Resolve("pasta")
	if !verdict.IsAvailable {
		t.Errorf("expected available after re-enable, got %+v", verdict)
	}
}

func TestService_SetQuantityRoundtrip(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.SetQuantity(ctx, "pasta", 50); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}
	quantity, err := service.GetQuantity("pasta")
	if err != nil {
		t.Fatalf("GetQuantity() error = %v", err)
	}
	if quantity != 50 {
		t.Errorf("expected quantity 50, got %d", quantity)
	}

	// Restocking through the override clears a standing alert.
	if _, err := service.SetQuantity(ctx, "pasta", 2); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}
	if engine.ActiveCount() != 1 {
		t.Fatalf("expected alert at quantity 2, got %d active", engine.ActiveCount())
	}
	if _, err := service.SetQuantity(ctx, "pasta", 40); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}
	if engine.ActiveCount() != 0 {
		t.Errorf("expected alert cleared after restock, got %d active", engine.ActiveCount())
	}
}

func TestService_SetThresholdReevaluates(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.InitStock(ctx, "pasta", 6, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}
	if engine.ActiveCount() != 0 {
		t.Fatalf("expected no alert at 6/5")
	}

	if _, err := service.SetThreshold(ctx, "pasta", 10); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}
	alert, active := engine.ActiveFor("pasta")
	if !active || alert.Type != alerts.TypeLowStock {
		t.Fatalf("expected low_stock after threshold raise, got %+v", alert)
	}
}

func TestService_DecrementBatchAllOrNothing(t *testing.T) {
	service, engine := setupService(t)
	ctx := context.Background()

	if _, err := service.InitStock(ctx, "pasta", 10, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}
	if _, err := service.InitStock(ctx, "pizza", 2, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}
	alertsBefore := engine.ActiveCount()

	err := service.DecrementBatch(ctx, []domain.DecrementItem{
		{ProductID: "pasta", Amount: 2},
		{ProductID: "pizza", Amount: 3},
	})
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("DecrementBatch() error = %v, want InsufficientStockError", err)
	}
	if insufficient.ProductID != "pizza" {
		t.Errorf("expected pizza to fail, got %s", insufficient.ProductID)
	}

	// Nothing was claimed and no alert moved.
	if quantity, _ := service.GetQuantity("pasta"); quantity != 10 {
		t.Errorf("expected pasta unchanged at 10, got %d", quantity)
	}
	if engine.ActiveCount() != alertsBefore {
		t.Errorf("failed batch must not touch alert state")
	}

	// A covered batch claims everything and re-evaluates each product.
	if err := service.DecrementBatch(ctx, []domain.DecrementItem{
		{ProductID: "pasta", Amount: 6},
		{ProductID: "pizza", Amount: 2},
	}); err != nil {
		t.Fatalf("DecrementBatch() error = %v", err)
	}
	if quantity, _ := service.GetQuantity("pasta"); quantity != 4 {
		t.Errorf("expected pasta at 4, got %d", quantity)
	}
	if engine.ActiveCount() != 2 {
		t.Errorf("expected alerts for both products, got %d", engine.ActiveCount())
	}
}

func TestService_PublishesStockChanged(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	var published []events.StockChangedEvent
	service.SetEmitter(func(event events.StockChangedEvent) {
		published = append(published, event)
	})

	if _, err := service.InitStock(ctx, "pasta", 10, 5); err != nil {
		t.Fatalf("InitStock() error = %v", err)
	}
	if _, ok, err := service.Decrement(ctx, "pasta", 3); err != nil || !ok {
		t.Fatalf("Decrement() = %v, %v", ok, err)
	}

	if len(published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(published))
	}
	last := published[len(published)-1]
	if last.ProductID != "pasta" || last.Quantity != 7 {
		t.Errorf("unexpected event payload: %+v", last)
	}
}
