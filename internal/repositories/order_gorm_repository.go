package repositories

import (
	"fmt"

	"joybox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// WithTx returns the repository bound to the given transaction handle.
func (r *GORMOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &GORMOrderRepository{db: tx}
}

// GetAll retrieves all orders with their status and items.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Status").Preload("Items").
		Order("\"orderId\"").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with status, items and address.
func (r *GORMOrderRepository) GetByID(id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Status").Preload("Items").Preload("Items.Product").Preload("Address").
		First(&order, "\"orderId\" = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate retrieves an order (with items) under a row-level write lock.
func (r *GORMOrderRepository) GetByIDForUpdate(id int64) (*models.Order, error) {
	tx := r.db
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "order"}})
	}
	var order models.Order
	err := tx.Preload("Status").Preload("Items").
		First(&order, "\"orderId\" = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Status").Preload("Items").
		Where("\"userId\" = ?", userID).
		Order("\"createdAt\" DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// Create persists an order together with its items in one insert chain.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus moves the order to the given status id.
func (r *GORMOrderRepository) UpdateStatus(id int64, statusID int32) error {
	res := r.db.Model(&models.Order{}).
		Where("\"orderId\" = ?", id).
		Update("orderStatusId", statusID)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePaymentStatus writes the payment status of an order.
func (r *GORMOrderRepository) UpdatePaymentStatus(id int64, paymentStatus string) error {
	res := r.db.Model(&models.Order{}).
		Where("\"orderId\" = ?", id).
		Update("paymentStatus", paymentStatus)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatusID resolves a status name to its reference table id.
func (r *GORMOrderRepository) StatusID(name string) (int32, error) {
	var status models.OrderStatus
	if err := r.db.First(&status, "\"orderStatusName\" = ?", name).Error; err != nil {
		return 0, fmt.Errorf("unknown order status %q: %w", name, err)
	}
	return status.ID, nil
}
