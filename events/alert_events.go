package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// AlertRaisedEvent is emitted when stock for a product crosses at or below
// its low-stock threshold.
type AlertRaisedEvent struct {
	AlertID         string    `json:"alert_id"`
	ProductID       string    `json:"product_id"`
	RestaurantID    string    `json:"restaurant_id,omitempty"`
	Type            string    `json:"type"`
	CurrentQuantity int       `json:"current_quantity"`
	Threshold       int       `json:"threshold"`
	RaisedAt        time.Time `json:"raised_at"`
}

// AlertRaisedV1 is the typed event definition for raised stock alerts.
// Subject: events.alerts.v1.alert-raised
var AlertRaisedV1 = helper.EventDefinition[AlertRaisedEvent](
	"alerts", "AlertRaised", "v1",
)

// AlertClearedEvent is emitted when an active alert is superseded,
// resolved by restocking, or acknowledged.
type AlertClearedEvent struct {
	AlertID      string    `json:"alert_id"`
	ProductID    string    `json:"product_id"`
	RestaurantID string    `json:"restaurant_id,omitempty"`
	Cause        string    `json:"cause"`
	ClearedAt    time.Time `json:"cleared_at"`
}

// AlertClearedV1 is the typed event definition for cleared stock alerts.
// Subject: events.alerts.v1.alert-cleared
var AlertClearedV1 = helper.EventDefinition[AlertClearedEvent](
	"alerts", "AlertCleared", "v1",
)
