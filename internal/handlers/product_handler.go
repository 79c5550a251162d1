package handlers

import (
	"log"
	"strconv"

	"joybox/internal/middleware"
	"joybox/internal/models"
	"joybox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service   *services.ProductService
	inventory *services.InventoryService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, inventory *services.InventoryService) *ProductHandler {
	return &ProductHandler{
		service:   service,
		inventory: inventory,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/availability", h.HandleCheckAvailability)
	productRoutes.Post("/", staffOnly(h.HandleCreateProduct))
	productRoutes.Put("/:id", staffOnly(h.HandleUpdateProduct))
	productRoutes.Delete("/:id", staffOnly(h.HandleDeleteProduct))

	router.Get("/categories", h.HandleGetCategories)
	router.Post("/categories", staffOnly(h.HandleCreateCategory))
	router.Get("/brands", h.HandleGetBrands)
	router.Post("/brands", staffOnly(h.HandleCreateBrand))
}

// staffOnly guards catalog mutations behind the admin/manager roles.
func staffOnly(next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role := middleware.Role(c); role != "admin" && role != "manager" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only staff may manage the catalog",
			})
		}
		return next(c)
	}
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return respondOrderError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleGetCategories lists all categories.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a category.
func (h *ProductHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.service.CreateCategory(middleware.UserID(c), &category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create category",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleGetBrands lists all brands.
func (h *ProductHandler) HandleGetBrands(c *fiber.Ctx) error {
	brands, err := h.service.ListBrands()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve brands",
			"error":   err.Error(),
		})
	}
	return c.JSON(brands)
}

// HandleCreateBrand creates a brand.
func (h *ProductHandler) HandleCreateBrand(c *fiber.Ctx) error {
	var brand models.Brand
	if err := c.BodyParser(&brand); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.service.CreateBrand(middleware.UserID(c), &brand); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create brand",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// HandleCheckAvailability reports whether the requested quantity is in
// stock right now. The answer is advisory; checkout re-checks atomically.
func (h *ProductHandler) HandleCheckAvailability(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	qty, err := strconv.Atoi(c.Query("qty", "1"))
	if err != nil || qty <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "qty must be a positive integer",
		})
	}

	available, err := h.inventory.CheckAvailability(id, qty)
	if err != nil {
		return respondOrderError(c, err, "Could not check availability")
	}
	return c.JSON(fiber.Map{
		"product_id": id,
		"quantity":   qty,
		"available":  available,
	})
}

// HandleCreateProduct creates a catalog item.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateProduct(middleware.UserID(c), &product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a catalog item.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = id

	if err := h.service.UpdateProduct(middleware.UserID(c), &product); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return respondOrderError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a catalog item.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id parameter",
		})
	}
	if err := h.service.DeleteProduct(middleware.UserID(c), id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return respondOrderError(c, err, "Could not delete product")
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
