package alerts

import (
	"context"
	"time"
)

// ReevaluateRequest is the request for the reevaluate service. It is the
// hook the inventory module calls after every successful stock mutation.
type ReevaluateRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// ReevaluateResponse reports what the engine did with the product's slot.
type ReevaluateResponse struct {
	ClearedAlertID string `json:"cleared_alert_id,omitempty"`
	RaisedAlertID  string `json:"raised_alert_id,omitempty"`
	RaisedType     string `json:"raised_type,omitempty"`
}

// ListAlertsRequest is the request for the list-alerts service.
type ListAlertsRequest struct {
	RestaurantID string `json:"restaurant_id,omitempty"`
}

// AlertInfo is the wire representation of an active alert.
type AlertInfo struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Type            string    `json:"type"`
	CurrentQuantity int       `json:"current_quantity"`
	Threshold       int       `json:"threshold"`
	RaisedAt        time.Time `json:"raised_at"`
}

// ListAlertsResponse is the response for the list-alerts service.
type ListAlertsResponse struct {
	Alerts []AlertInfo `json:"alerts"`
	Total  int         `json:"total"`
}

// AcknowledgeRequest is the request for the acknowledge-alert service.
type AcknowledgeRequest struct {
	AlertID string `json:"alert_id"`
}

// AcknowledgeResponse is the response for the acknowledge-alert service.
type AcknowledgeResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// AlertsPort is the interface other modules use to reach the alert engine.
type AlertsPort interface {
	// QuantityChanged re-evaluates the alert slot for a product. The
	// inventory module calls this synchronously before a mutating
	// operation returns, so alert state never lags stock state.
	QuantityChanged(ctx context.Context, productID string, quantity, threshold int) error
	ListAlerts(ctx context.Context, restaurantID string) (*ListAlertsResponse, error)
	Acknowledge(ctx context.Context, alertID string) (bool, error)
}
