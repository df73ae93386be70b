package api

import (
	"log"

	"github.com/example/restaurant-inventory/modules/broadcast"
	"github.com/example/restaurant-inventory/modules/orders"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxDecrementAmount = 1000

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint for live dashboard updates
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// REST API v1
	api := m.app.Group("/api/v1")

	// Storefront menu with live availability
	api.Get("/restaurants/:id/menu", m.getMenu)

	// Inventory
	api.Get("/inventory/:productId/availability", m.getAvailability)
	api.Post("/inventory/:productId/decrement", m.decrementStock)
	api.Put("/inventory/:productId/quantity", requireRole(RoleAdmin), m.setQuantity)
	api.Put("/inventory/:productId/enabled", requireRole(RoleAdmin), m.setEnabled)
	api.Put("/inventory/:productId/threshold", requireRole(RoleAdmin), m.setThreshold)

	// Alerts
	api.Get("/alerts", m.listAlerts)
	api.Post("/alerts/:id/acknowledge", m.acknowledgeAlert)

	// Orders
	api.Post("/orders", m.createOrder)
	api.Get("/orders", m.listOrders)
	api.Get("/orders/:id", m.getOrder)
	api.Put("/orders/:id/status", m.updateOrderStatus)
	api.Post("/orders/:id/cancel", m.cancelOrder)
	api.Post("/orders/:id/pay", m.payOrder)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// getMenu handles GET /api/v1/restaurants/:id/menu. It joins the catalog
// listing with availability verdicts so the storefront renders sold-out
// badges from a single call.
func (m *APIModule) getMenu(c *fiber.Ctx) error {
	restaurantID := c.Params("id")

	products, err := m.catalog.ListProducts(c.UserContext(), restaurantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list products",
		})
	}

	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}
	verdicts, err := m.inventory.ResolveAll(c.UserContext(), productIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "resolve_failed",
			Message: "Failed to resolve availability",
		})
	}

	response := MenuResponse{
		RestaurantID: restaurantID,
		Items:        make([]MenuItemResponse, 0, len(products)),
	}
	for _, p := range products {
		response.Items = append(response.Items, MenuItemResponse{
			Product:      p,
			Availability: verdicts[p.ID],
		})
	}
	return c.JSON(response)
}

// getAvailability handles GET /api/v1/inventory/:productId/availability.
func (m *APIModule) getAvailability(c *fiber.Ctx) error {
	productID := c.Params("productId")

	verdict, err := m.inventory.Resolve(c.UserContext(), productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "resolve_failed",
			Message: "Failed to resolve availability",
		})
	}
	return c.JSON(VerdictResponse{ProductID: productID, Verdict: verdict})
}

// decrementStock handles POST /api/v1/inventory/:productId/decrement.
func (m *APIModule) decrementStock(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req DecrementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.Amount < 1 || req.Amount > maxDecrementAmount {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Amount must be between 1 and 1000",
		})
	}

	resp, err := m.inventory.Decrement(c.UserContext(), productID, req.Amount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "decrement_failed",
			Message: "Failed to decrement stock",
		})
	}
	if !resp.Success {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "insufficient_stock",
			Message: "Current stock does not cover the requested amount",
		})
	}
	return c.JSON(DecrementResponse{Success: true, Quantity: resp.Quantity})
}

// setQuantity handles PUT /api/v1/inventory/:productId/quantity.
func (m *APIModule) setQuantity(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Quantity must not be negative",
		})
	}

	verdict, err := m.inventory.SetQuantity(c.UserContext(), productID, req.Quantity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to set quantity",
		})
	}
	return c.JSON(VerdictResponse{ProductID: productID, Verdict: verdict})
}

// setEnabled handles PUT /api/v1/inventory/:productId/enabled.
func (m *APIModule) setEnabled(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req SetEnabledRequest
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Body must carry an enabled flag",
		})
	}

	verdict, err := m.inventory.SetEnabled(c.UserContext(), productID, *req.Enabled)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to toggle availability",
		})
	}
	return c.JSON(VerdictResponse{ProductID: productID, Verdict: verdict})
}

// setThreshold handles PUT /api/v1/inventory/:productId/threshold.
func (m *APIModule) setThreshold(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req SetThresholdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.Threshold < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Threshold must not be negative",
		})
	}

	found, err := m.inventory.SetThreshold(c.UserContext(), productID, req.Threshold)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to set threshold",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "No stock record for this product",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listAlerts handles GET /api/v1/alerts.
func (m *APIModule) listAlerts(c *fiber.Ctx) error {
	restaurantID := c.Query("restaurant_id")

	resp, err := m.alerts.ListAlerts(c.UserContext(), restaurantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list alerts",
		})
	}
	return c.JSON(resp)
}

// acknowledgeAlert handles POST /api/v1/alerts/:id/acknowledge.
func (m *APIModule) acknowledgeAlert(c *fiber.Ctx) error {
	alertID := c.Params("id")

	acknowledged, err := m.alerts.Acknowledge(c.UserContext(), alertID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "acknowledge_failed",
			Message: "Failed to acknowledge alert",
		})
	}
	if !acknowledged {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Alert is not active",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// createOrder handles POST /api/v1/orders.
func (m *APIModule) createOrder(c *fiber.Ctx) error {
	var req orders.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	resp, err := m.orders.CreateOrder(c.UserContext(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create order",
		})
	}
	if resp.Error != nil {
		return c.Status(orderErrorStatus(resp.Error.Kind)).JSON(resp.Error)
	}
	return c.Status(fiber.StatusCreated).JSON(resp.Order)
}

// orderErrorStatus maps order validation error kinds to HTTP status codes.
func orderErrorStatus(kind string) int {
	switch kind {
	case orders.KindInvalidArgument:
		return fiber.StatusBadRequest
	case orders.KindInvalidRestaurant, orders.KindMissingRequiredSelection:
		return fiber.StatusUnprocessableEntity
	case orders.KindInsufficientStock:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// listOrders handles GET /api/v1/orders.
func (m *APIModule) listOrders(c *fiber.Ctx) error {
	list, err := m.orders.ListOrders(c.UserContext(), c.Query("restaurant_id"), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list orders",
		})
	}
	return c.JSON(fiber.Map{"orders": list, "total": len(list)})
}

// getOrder handles GET /api/v1/orders/:id.
func (m *APIModule) getOrder(c *fiber.Ctx) error {
	info, found, err := m.orders.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "get_failed",
			Message: "Failed to load order",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Order not found",
		})
	}
	return c.JSON(info)
}

// updateOrderStatus handles PUT /api/v1/orders/:id/status.
func (m *APIModule) updateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Body must carry a status",
		})
	}

	ok, err := m.orders.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update order status",
		})
	}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "invalid_transition",
			Message: "Order cannot move to the requested status",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// cancelOrder handles POST /api/v1/orders/:id/cancel.
func (m *APIModule) cancelOrder(c *fiber.Ctx) error {
	ok, err := m.orders.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "cancel_failed",
			Message: "Failed to cancel order",
		})
	}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "invalid_transition",
			Message: "Order can no longer be cancelled",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// payOrder handles POST /api/v1/orders/:id/pay.
func (m *APIModule) payOrder(c *fiber.Ctx) error {
	var req PayOrderRequest
	if err := c.BodyParser(&req); err != nil || req.PaymentMethod == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Body must carry a payment method",
		})
	}

	ok, err := m.orders.MarkPaid(c.UserContext(), c.Params("id"), req.PaymentMethod)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "payment_failed",
			Message: "Failed to record payment",
		})
	}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "not_payable",
			Message: "Order is not ready for payment or is already paid",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleWebSocket handles WebSocket connections at /ws. Dashboards
// subscribe with ?restaurant_id= to scope the feed; without it they
// receive updates for every restaurant.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()
	restaurantID := c.Query("restaurant_id")
	callerID := c.Query("caller_id", "anonymous")

	client := &broadcast.Client{
		ID:           clientID,
		CallerID:     callerID,
		RestaurantID: restaurantID,
		Conn:         c,
	}

	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		log.Printf("[api] WebSocket client disconnected: %s", clientID)
	}()

	log.Printf("[api] WebSocket client connected: %s (restaurant %q)", clientID, restaurantID)

	welcome := broadcast.WSPush{
		Type:         "connected",
		RestaurantID: restaurantID,
	}
	if err := c.WriteJSON(welcome); err != nil {
		log.Printf("[api] Failed to send welcome: %v", err)
		return
	}

	// The feed is push-only. The read loop exists to notice the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", clientID)
			}
			break
		}
	}
}
