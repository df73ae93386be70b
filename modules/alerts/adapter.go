package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// alertsAdapter wraps the ServiceContainer for type-safe cross-module
// calls into the alert engine.
type alertsAdapter struct {
	container mono.ServiceContainer
}

// NewAlertsAdapter creates an adapter for alert services. container is the
// ServiceContainer received via SetDependencyServiceContainer.
func NewAlertsAdapter(container mono.ServiceContainer) AlertsPort {
	if container == nil {
		panic("alerts adapter requires non-nil ServiceContainer")
	}
	return &alertsAdapter{container: container}
}

// QuantityChanged invokes the reevaluate service.
func (a *alertsAdapter) QuantityChanged(ctx context.Context, productID string, quantity, threshold int) error {
	req := ReevaluateRequest{
		ProductID: productID,
		Quantity:  quantity,
		Threshold: threshold,
	}
	var resp ReevaluateResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "reevaluate", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("reevaluate service call failed: %w", err)
	}
	return nil
}

// ListAlerts invokes the list-alerts service.
func (a *alertsAdapter) ListAlerts(ctx context.Context, restaurantID string) (*ListAlertsResponse, error) {
	req := ListAlertsRequest{RestaurantID: restaurantID}
	var resp ListAlertsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-alerts", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-alerts service call failed: %w", err)
	}
	return &resp, nil
}

// Acknowledge invokes the acknowledge-alert service.
func (a *alertsAdapter) Acknowledge(ctx context.Context, alertID string) (bool, error) {
	req := AcknowledgeRequest{AlertID: alertID}
	var resp AcknowledgeResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "acknowledge-alert", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return false, fmt.Errorf("acknowledge-alert service call failed: %w", err)
	}
	return resp.Acknowledged, nil
}
