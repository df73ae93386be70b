package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// StockChangedEvent is emitted after every successful stock mutation
// (set-quantity, decrement, batch decrement, threshold change).
type StockChangedEvent struct {
	ProductID       string    `json:"product_id"`
	Quantity        int       `json:"quantity"`
	Threshold       int       `json:"threshold"`
	ManuallyEnabled bool      `json:"manually_enabled"`
	ChangedAt       time.Time `json:"changed_at"`
}

// StockChangedV1 is the typed event definition for stock mutations.
// Subject: events.inventory.v1.stock-changed
var StockChangedV1 = helper.EventDefinition[StockChangedEvent](
	"inventory", "StockChanged", "v1",
)
