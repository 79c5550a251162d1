package handlers

import (
	"log"

	"joybox/internal/middleware"
	"joybox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the user's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleListCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
}

// HandleListCart returns the user's cart lines with current prices.
func (h *CartHandler) HandleListCart(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	lines, err := h.service.ListLines(userID)
	if err != nil {
		log.Printf("Error listing cart for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(lines)
}

// CartItemRequest represents the request body for cart mutations.
type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// HandleAddItem adds a product to the cart (or grows an existing line).
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.AddItem(middleware.UserID(c), req.ProductID, req.Quantity); err != nil {
		return respondOrderError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added to cart",
	})
}

// HandleUpdateQuantity sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid productId parameter",
		})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateQuantity(middleware.UserID(c), productID, req.Quantity); err != nil {
		return respondOrderError(c, err, "Could not update cart line")
	}
	return c.JSON(fiber.Map{
		"message": "Cart line updated",
	})
}

// HandleRemoveItem removes a product line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid productId parameter",
		})
	}

	if err := h.service.RemoveItem(middleware.UserID(c), productID); err != nil {
		return respondOrderError(c, err, "Could not remove item from cart")
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(middleware.UserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
