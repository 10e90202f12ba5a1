package handlers

import (
	"log"
	"time"

	"warung/internal/models"
	"warung/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/:role/:bucket", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/accept", h.HandleAccept)
	orderRoutes.Post("/:id/cancel", h.HandleCancel)
	orderRoutes.Post("/:id/delivered", h.HandleApproveDelivered)
}

// OrderResponse is the serialized order: ids, the state with its derived
// flags, the transition timestamps and the delivery estimate.
type OrderResponse struct {
	ID                string     `json:"id"`
	CustomerID        *string    `json:"customer_id"`
	RestaurantID      string     `json:"restaurant_id"`
	FoodIDs           []string   `json:"food_ids"`
	State             string     `json:"state"`
	IsAccepted        bool       `json:"is_accepted"`
	IsCancelled       bool       `json:"is_cancelled"`
	IsDelivered       bool       `json:"is_delivered"`
	TimeToDeliver     int        `json:"time_to_deliver"`
	AcceptDatetime    *time.Time `json:"accept_datetime"`
	CancellDatetime   *time.Time `json:"cancell_datetime"`
	DeliveredDatetime *time.Time `json:"delivered_datetime"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		CustomerID:        o.CustomerID,
		RestaurantID:      o.RestaurantID,
		FoodIDs:           o.FoodIDs(),
		State:             o.State.String(),
		IsAccepted:        o.IsAccepted(),
		IsCancelled:       o.IsCancelled(),
		IsDelivered:       o.IsDelivered(),
		TimeToDeliver:     o.TimeToDeliver,
		AcceptDatetime:    o.AcceptDatetime,
		CancellDatetime:   o.CancellDatetime,
		DeliveredDatetime: o.DeliveredDatetime,
		CreatedAt:         o.CreatedAt,
	}
}

// PlaceOrderRequest represents the request body for placing an order.
type PlaceOrderRequest struct {
	FoodIDs       []string `json:"food_ids"`
	TimeToDeliver int      `json:"time_to_deliver"`
}

// CancelRequest carries who the cancellation is issued as.
type CancelRequest struct {
	Origin string `json:"origin"`
}

// HandlePlaceOrder creates a new order in the placed state.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.PlaceOrder(actor, req.FoodIDs, req.TimeToDeliver)
	if err != nil {
		log.Printf("Error placing order for %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// HandleGetOrder retrieves a single order.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orderID := c.Params("id")
	order, err := h.service.GetOrder(actor, orderID)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// HandleAccept accepts a placed order as the restaurant's manager.
func (h *OrderHandler) HandleAccept(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orderID := c.Params("id")
	order, err := h.service.Accept(actor, orderID)
	if err != nil {
		log.Printf("Error accepting order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// HandleCancel cancels an order as either its customer or its restaurant's
// manager, selected by the origin field.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cancel request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	orderID := c.Params("id")
	order, err := h.service.Cancel(actor, orderID, services.CancelOrigin(req.Origin))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// HandleApproveDelivered marks an accepted order delivered, attested by its
// customer.
func (h *OrderHandler) HandleApproveDelivered(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orderID := c.Params("id")
	order, err := h.service.ApproveDelivered(actor, orderID)
	if err != nil {
		log.Printf("Error approving delivery of order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// HandleListOrders lists the actor's orders by role and bucket, e.g.
// /orders/customer/active or /orders/manager/delivered.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	role := services.ListRole(c.Params("role"))
	bucket := services.Bucket(c.Params("bucket"))

	orders, err := h.service.ListOrders(actor, role, bucket)
	if err != nil {
		log.Printf("Error listing %s/%s orders for %s: %v", role, bucket, actor.ID, err)
		return respondError(c, err)
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	return c.JSON(responses)
}
