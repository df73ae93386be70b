package alerts

import (
	"testing"
)

func TestEngine_RaiseLowStock(t *testing.T) {
	engine := NewEngine()

	cleared, raised := engine.OnQuantityChanged("pasta", 4, 5)
	if cleared != nil {
		t.Errorf("expected no cleared alert, got %+v", cleared)
	}
	if raised == nil {
		t.Fatal("expected an alert at quantity 4 with threshold 5")
	}
	if raised.Type != TypeLowStock {
		t.Errorf("expected low_stock, got %s", raised.Type)
	}
	if raised.CurrentQuantity != 4 {
		t.Errorf("expected quantity 4 on alert, got %d", raised.CurrentQuantity)
	}
}

func TestEngine_NoAlertAboveThreshold(t *testing.T) {
	engine := NewEngine()

	_, raised := engine.OnQuantityChanged("pasta", 6, 5)
	if raised != nil {
		t.Errorf("expected no alert at quantity 6 with threshold 5, got %+v", raised)
	}
	if engine.ActiveCount() != 0 {
		t.Errorf("expected empty active set, got %d", engine.ActiveCount())
	}
}

func TestEngine_AlertAtExactThreshold(t *testing.T) {
	engine := NewEngine()

	_, raised := engine.OnQuantityChanged("pasta", 5, 5)
	if raised == nil {
		t.Fatal("quantity equal to threshold should raise an alert")
	}
	if raised.Type != TypeLowStock {
		t.Errorf("expected low_stock at exact threshold, got %s", raised.Type)
	}
}

func TestEngine_OutOfStockSupersedesLowStock(t *testing.T) {
	engine := NewEngine()

	_, first := engine.OnQuantityChanged("pasta", 4, 5)
	if first == nil {
		t.Fatal("expected low_stock alert")
	}

	cleared, second := engine.OnQuantityChanged("pasta", 0, 5)
	if cleared == nil || cleared.ID != first.ID {
		t.Fatalf("expected the low_stock alert to be superseded, cleared = %+v", cleared)
	}
	if second == nil || second.Type != TypeOutOfStock {
		t.Fatalf("expected out_of_stock alert, got %+v", second)
	}

	// Exactly one alert per product.
	if engine.ActiveCount() != 1 {
		t.Errorf("expected one active alert, got %d", engine.ActiveCount())
	}
	active, ok := engine.ActiveFor("pasta")
	if !ok || active.ID != second.ID {
		t.Errorf("expected active alert %s, got %+v", second.ID, active)
	}
}

func TestEngine_RestockClearsAlert(t *testing.T) {
	engine := NewEngine()

	_, raised := engine.OnQuantityChanged("pasta", 0, 5)
	if raised == nil {
		t.Fatal("expected out_of_stock alert")
	}

	cleared, next := engine.OnQuantityChanged("pasta", 20, 5)
	if cleared == nil || cleared.ID != raised.ID {
		t.Fatalf("expected alert cleared on restock, got %+v", cleared)
	}
	if next != nil {
		t.Errorf("expected no new alert at quantity 20, got %+v", next)
	}
	if engine.ActiveCount() != 0 {
		t.Errorf("expected empty active set, got %d", engine.ActiveCount())
	}
}

func TestEngine_AcknowledgeRemovesAlert(t *testing.T) {
	engine := NewEngine()

	_, raised := engine.OnQuantityChanged("pasta", 2, 5)
	if raised == nil {
		t.Fatal("expected alert")
	}

	alert, ok := engine.Acknowledge(raised.ID)
	if !ok {
		t.Fatal("Acknowledge() ok = false, want true")
	}
	if alert.ProductID != "pasta" {
		t.Errorf("expected acknowledged alert for pasta, got %s", alert.ProductID)
	}

	// Second acknowledge of the same id is a no-op.
	if _, ok := engine.Acknowledge(raised.ID); ok {
		t.Error("second Acknowledge() ok = true, want false")
	}

	if _, ok := engine.Acknowledge("no-such-alert"); ok {
		t.Error("Acknowledge() of unknown id ok = true, want false")
	}
}

func TestEngine_ThresholdChangeReevaluates(t *testing.T) {
	engine := NewEngine()

	// Quantity 6 over threshold 5: quiet.
	if _, raised := engine.OnQuantityChanged("pasta", 6, 5); raised != nil {
		t.Fatalf("expected no alert, got %+v", raised)
	}

	// Threshold raised to 10: same quantity now trips the alert.
	_, raised := engine.OnQuantityChanged("pasta", 6, 10)
	if raised == nil || raised.Type != TypeLowStock {
		t.Fatalf("expected low_stock after threshold raise, got %+v", raised)
	}
}

func TestEngine_ListActive(t *testing.T) {
	engine := NewEngine()
	engine.OnQuantityChanged("pasta", 2, 5)
	engine.OnQuantityChanged("pizza", 0, 5)
	engine.OnQuantityChanged("tiramisu", 30, 5)

	all := engine.ListActive(nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 active alerts, got %d", len(all))
	}

	only := engine.ListActive(func(productID string) bool { return productID == "pizza" })
	if len(only) != 1 || only[0].ProductID != "pizza" {
		t.Errorf("expected only the pizza alert, got %+v", only)
	}
}
