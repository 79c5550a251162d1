package handlers

import (
	"errors"
	"log"
	"strconv"

	"joybox/internal/middleware"
	"joybox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and the order lifecycle.
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
	router.Post("/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/pay", h.HandleMarkPaid)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutRequest represents the request body for checkout.
type CheckoutRequest struct {
	AddressID    int64  `json:"address_id"`
	DeliveryType string `json:"delivery_type"`
	PaymentType  string `json:"payment_type"`
}

// HandleCheckout turns the authenticated user's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.CreateOrderFromCart(userID, req.AddressID, req.DeliveryType, req.PaymentType)
	if err != nil {
		log.Printf("Error creating order for user %d: %v", userID, err)
		return respondOrderError(c, err, "Could not create order")
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the authenticated user's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	orders, err := h.service.ListUserOrders(userID)
	if err != nil {
		log.Printf("Error listing orders for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the user's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return respondOrderError(c, err, "Could not retrieve order")
	}
	if order.UserID != middleware.UserID(c) && middleware.Role(c) == "buyer" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels an order, restoring stock and adjusting the
// payment status.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	userID := middleware.UserID(c)

	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return respondOrderError(c, err, "Could not cancel order")
	}
	if order.UserID != userID && middleware.Role(c) == "buyer" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}

	cancelled, err := h.service.CancelOrder(userID, orderID)
	if err != nil {
		log.Printf("Error cancelling order %d: %v", orderID, err)
		return respondOrderError(c, err, "Could not cancel order")
	}
	return c.JSON(cancelled)
}

// HandleMarkPaid records payment for an order.
func (h *OrderHandler) HandleMarkPaid(c *fiber.Ctx) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	order, err := h.service.MarkPaid(middleware.UserID(c), orderID)
	if err != nil {
		return respondOrderError(c, err, "Could not record payment")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus advances an order along the forward path. Intended
// for staff; buyers cancel through the cancel endpoint instead.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	if role := middleware.Role(c); role != "admin" && role != "manager" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Only staff may update order status",
		})
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update",
		})
	}

	order, err := h.service.UpdateStatus(middleware.UserID(c), orderID, req.Status)
	if err != nil {
		log.Printf("Error updating status of order %d: %v", orderID, err)
		return respondOrderError(c, err, "Could not update order status")
	}
	return c.JSON(order)
}

// parseID parses an int64 route parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// respondOrderError maps business errors to client statuses; everything else
// is an infrastructure failure and becomes a 500.
func respondOrderError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case services.IsBusinessError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}
}
