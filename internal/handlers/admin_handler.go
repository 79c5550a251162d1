package handlers

import (
	"log"
	"strconv"

	"joybox/internal/middleware"
	"joybox/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AdminHandler handles staff-only operations: bulk price adjustment and the
// audit trail view.
type AdminHandler struct {
	pricing *services.PricingService
	audit   *services.AuditService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(pricing *services.PricingService, audit *services.AuditService) *AdminHandler {
	return &AdminHandler{
		pricing: pricing,
		audit:   audit,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Post("/price-adjustment", staffOnly(h.HandlePriceAdjustment))
	adminRoutes.Get("/audit-log", staffOnly(h.HandleAuditLog))
	adminRoutes.Get("/audit-log/:table/:id", staffOnly(h.HandleAuditHistory))
}

// PriceAdjustmentRequest represents the request body for bulk price changes.
type PriceAdjustmentRequest struct {
	CategoryID    int32           `json:"category_id"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

// HandlePriceAdjustment applies a bounded percentage change to every product
// in a category and reports the affected count.
func (h *AdminHandler) HandlePriceAdjustment(c *fiber.Ctx) error {
	var req PriceAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	affected, err := h.pricing.AdjustPricesByCategory(middleware.UserID(c), req.CategoryID, req.PercentChange)
	if err != nil {
		log.Printf("Error adjusting prices for category %d: %v", req.CategoryID, err)
		return respondOrderError(c, err, "Could not adjust prices")
	}
	return c.JSON(fiber.Map{
		"message":  "Prices updated",
		"affected": affected,
	})
}

// HandleAuditLog returns the newest audit entries.
func (h *AdminHandler) HandleAuditLog(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	entries, err := h.audit.List(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve audit log",
			"error":   err.Error(),
		})
	}
	return c.JSON(entries)
}

// HandleAuditHistory returns the audit trail of one record.
func (h *AdminHandler) HandleAuditHistory(c *fiber.Ctx) error {
	recordID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	entries, err := h.audit.History(c.Params("table"), recordID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve audit history",
			"error":   err.Error(),
		})
	}
	return c.JSON(entries)
}
