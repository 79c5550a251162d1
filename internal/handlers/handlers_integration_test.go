package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"joybox/internal/handlers"
	"joybox/internal/middleware"
	"joybox/internal/models"
	"joybox/internal/repositories"
	"joybox/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int64

// setupApp builds a Fiber app on an isolated in-memory SQLite database with
// the full repository/service/handler stack wired, mirroring main.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	require.NoError(t, models.SeedReference(db))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	auditRepo := repositories.NewGORMAuditRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	brandRepo := repositories.NewGORMBrandRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)

	auditService := services.NewAuditService(auditRepo, nil, 1)
	authService := services.NewAuthService(userRepo, auditService, "test_jwt_secret")
	productService := services.NewProductService(productRepo, categoryRepo, brandRepo, auditService)
	inventoryService := services.NewInventoryService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(db, orderRepo, cartRepo, productRepo, userRepo, auditService, nil)
	pricingService := services.NewPricingService(db, productRepo, categoryRepo, auditService)
	reviewService := services.NewReviewService(reviewRepo)

	app := fiber.New()
	app.Use(middleware.RequestID())

	authHandler := handlers.NewAuthHandler(authService)
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	handlers.NewProductHandler(productService, inventoryService).RegisterRoutes(protected)
	handlers.NewCartHandler(cartService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)
	handlers.NewAdminHandler(pricingService, auditService).RegisterRoutes(protected)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(protected)

	return app, db
}

// seedCatalog inserts a category, a brand and two products directly.
func seedCatalog(t *testing.T, db *gorm.DB) (int32, []models.Product) {
	t.Helper()

	category := models.Category{Name: "Electronics"}
	require.NoError(t, db.Create(&category).Error)
	brand := models.Brand{Name: "Acme", Country: "Germany"}
	require.NoError(t, db.Create(&brand).Error)

	products := []models.Product{
		{
			Name:       "Laptop",
			CategoryID: category.ID,
			BrandID:    brand.ID,
			Price:      decimal.RequireFromString("1200.00"),
			Quantity:   5,
			WeightKg:   decimal.RequireFromString("2.10"),
		},
		{
			Name:       "Mouse",
			CategoryID: category.ID,
			BrandID:    brand.ID,
			Price:      decimal.RequireFromString("25.50"),
			Quantity:   10,
			WeightKg:   decimal.RequireFromString("0.10"),
		},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return category.ID, products
}

// doJSON performs a request against the app, optionally authenticated.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

// registerAndLogin creates a buyer account and returns its JWT and id.
func registerAndLogin(t *testing.T, app *fiber.App, db *gorm.DB, email string) (string, int64) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"last_name":  "Doe",
		"first_name": "Jane",
		"email":      email,
		"password":   "password123",
		"phone":      "79990001122",
		"birth_date": "1990-04-12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	return login(t, app, email), userIDByEmail(t, db, email)
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func userIDByEmail(t *testing.T, db *gorm.DB, email string) int64 {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	return user.ID
}

// promoteToAdmin flips the account's role and returns a fresh token carrying
// the new role claim.
func promoteToAdmin(t *testing.T, app *fiber.App, db *gorm.DB, email string) string {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where("\"roleName\" = ?", models.RoleAdmin).First(&role).Error)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", email).
		Update("roleId", role.ID).Error)
	return login(t, app, email)
}

// createAddress stores a delivery address through the API.
func createAddress(t *testing.T, app *fiber.App, token string) int64 {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/addresses", token, map[string]string{
		"city":   "Berlin",
		"street": "Hauptstrasse",
		"house":  "12",
		"index":  "101000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var address models.Address
	decodeBody(t, resp, &address)
	require.NotZero(t, address.ID)
	return address.ID
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	body := map[string]string{
		"last_name":  "Doe",
		"first_name": "John",
		"email":      "john@example.com",
		"password":   "password123",
		"phone":      "79990001122",
		"birth_date": "1985-11-02",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp map[string]interface{}
	decodeBody(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Same email twice is a conflict.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	token := login(t, app, "john@example.com")

	// The token opens protected routes.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders"} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodPost, "/api/v1/checkout", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutFlow(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	token, _ := registerAndLogin(t, app, db, "buyer@example.com")
	addressID := createAddress(t, app, token)

	for _, line := range []map[string]interface{}{
		{"product_id": products[0].ID, "quantity": 2},
		{"product_id": products[1].ID, "quantity": 3},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, line)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lines []models.CartItem
	decodeBody(t, resp, &lines)
	assert.Len(t, lines, 2)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"address_id":    addressID,
		"delivery_type": models.DeliveryCourier,
		"payment_type":  models.PaymentOnline,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	// 2 x 1200.00 + 3 x 25.50
	assert.True(t, order.Total.Equal(decimal.RequireFromString("2476.50")), "total %s", order.Total)
	assert.Equal(t, models.PaymentAwaiting, order.PaymentStatus)
	assert.Len(t, order.Items, 2)

	// Stock is reserved at checkout.
	var laptop, mouse models.Product
	require.NoError(t, db.First(&laptop, products[0].ID).Error)
	require.NoError(t, db.First(&mouse, products[1].ID).Error)
	assert.Equal(t, 3, laptop.Quantity)
	assert.Equal(t, 7, mouse.Quantity)

	// The cart is consumed.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &lines)
	assert.Empty(t, lines)

	// The order shows up in the user's history.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	app, db := setupApp(t)
	token, _ := registerAndLogin(t, app, db, "empty@example.com")
	addressID := createAddress(t, app, token)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"address_id":    addressID,
		"delivery_type": models.DeliveryPickup,
		"payment_type":  models.PaymentCashOnDelivery,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutInsufficientStock(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	token, _ := registerAndLogin(t, app, db, "greedy@example.com")
	addressID := createAddress(t, app, token)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": products[0].ID,
		"quantity":   products[0].Quantity + 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"address_id":    addressID,
		"delivery_type": models.DeliveryCourier,
		"payment_type":  models.PaymentOnline,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Nothing was reserved.
	var laptop models.Product
	require.NoError(t, db.First(&laptop, products[0].ID).Error)
	assert.Equal(t, 5, laptop.Quantity)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	token, _ := registerAndLogin(t, app, db, "cancel@example.com")
	addressID := createAddress(t, app, token)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": products[0].ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"address_id":    addressID,
		"delivery_type": models.DeliveryCourier,
		"payment_type":  models.PaymentOnline,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled models.Order
	decodeBody(t, resp, &cancelled)
	require.NotNil(t, cancelled.Status)
	assert.Equal(t, models.StatusCancelled, cancelled.Status.Name)

	var laptop models.Product
	require.NoError(t, db.First(&laptop, products[0].ID).Error)
	assert.Equal(t, 5, laptop.Quantity)

	// Cancelling twice is rejected.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestBuyerCannotSeeForeignOrder(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	ownerToken, _ := registerAndLogin(t, app, db, "owner@example.com")
	addressID := createAddress(t, app, ownerToken)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", ownerToken, map[string]interface{}{
		"product_id": products[1].ID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", ownerToken, map[string]interface{}{
		"address_id":    addressID,
		"delivery_type": models.DeliveryPickup,
		"payment_type":  models.PaymentCashOnDelivery,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	strangerToken, _ := registerAndLogin(t, app, db, "stranger@example.com")
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPriceAdjustmentEndpoint(t *testing.T) {
	app, db := setupApp(t)
	categoryID, products := seedCatalog(t, db)
	_, _ = registerAndLogin(t, app, db, "staff@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/admin/price-adjustment", adminToken, map[string]interface{}{
		"category_id":    categoryID,
		"percent_change": "-10",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 2, result["affected"])

	var laptop models.Product
	require.NoError(t, db.First(&laptop, products[0].ID).Error)
	assert.True(t, laptop.Price.Equal(decimal.RequireFromString("1080.00")), "price %s", laptop.Price)

	// Out-of-bounds percentage is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/price-adjustment", adminToken, map[string]interface{}{
		"category_id":    categoryID,
		"percent_change": "-95",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Buyers never reach the admin surface.
	buyerToken, _ := registerAndLogin(t, app, db, "plain@example.com")
	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/price-adjustment", buyerToken, map[string]interface{}{
		"category_id":    categoryID,
		"percent_change": "10",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAuditLogEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	token, _ := registerAndLogin(t, app, db, "audited@example.com")
	addressID := createAddress(t, app, token)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": products[0].ID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"address_id":    addressID,
		"delivery_type": models.DeliveryCourier,
		"payment_type":  models.PaymentOnline,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	adminToken := promoteToAdmin(t, app, db, "audited@example.com")

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/audit-log?limit=50", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []models.AuditLog
	decodeBody(t, resp, &entries)
	assert.NotEmpty(t, entries)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/admin/audit-log/order/%d", order.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []models.AuditLog
	decodeBody(t, resp, &history)
	require.NotEmpty(t, history)
	assert.Equal(t, models.AuditCreate, history[0].Action)
	assert.Equal(t, "order", history[0].Table)
}

func TestAvailabilityEndpoint(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	token, _ := registerAndLogin(t, app, db, "shopper@example.com")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/availability?qty=5", products[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, true, result["available"])

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/availability?qty=6", products[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, false, result["available"])

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/9999/availability", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReviewEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, products := seedCatalog(t, db)
	token, userID := registerAndLogin(t, app, db, "reviewer@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/reviews", token, map[string]interface{}{
		"product_id":  products[0].ID,
		"rating":      4,
		"review_text": "Solid machine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var review models.Review
	decodeBody(t, resp, &review)
	assert.Equal(t, userID, review.UserID)
	assert.False(t, review.CreatedAt.IsZero())

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/reviews", products[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reviews []models.Review
	decodeBody(t, resp, &reviews)
	assert.Len(t, reviews, 1)

	// Only the author may edit.
	otherToken, _ := registerAndLogin(t, app, db, "other@example.com")
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/reviews/%d", review.ID), otherToken, map[string]interface{}{
		"rating": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogEndpoints(t *testing.T) {
	app, db := setupApp(t)
	seedCatalog(t, db)
	_, _ = registerAndLogin(t, app, db, "staff@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/categories", adminToken, map[string]interface{}{
		"category_name": "Books",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decodeBody(t, resp, &category)
	assert.NotZero(t, category.ID)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/brands", adminToken, map[string]interface{}{
		"brand_name":    "Globex",
		"brand_country": "DE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	buyerToken, _ := registerAndLogin(t, app, db, "shopper@example.com")

	resp = doJSON(t, app, http.MethodGet, "/api/v1/categories", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.Category
	decodeBody(t, resp, &categories)
	assert.Len(t, categories, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/brands", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var brands []models.Brand
	decodeBody(t, resp, &brands)
	assert.Len(t, brands, 2)

	// Catalog writes are staff only.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/categories", buyerToken, map[string]interface{}{
		"category_name": "Garden",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
