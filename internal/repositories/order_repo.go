package repositories

import (
	"joybox/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository

	GetAll() ([]models.Order, error)
	GetByID(id int64) (*models.Order, error)
	// GetByIDForUpdate locks the order row for the duration of the
	// surrounding transaction (cancellation, status transitions).
	GetByIDForUpdate(id int64) (*models.Order, error)
	ListByUser(userID int64) ([]models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id int64, statusID int32) error
	UpdatePaymentStatus(id int64, paymentStatus string) error

	// StatusID resolves an order status name against the reference table.
	StatusID(name string) (int32, error)
}
