package repositories

import (
	"joybox/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines data access for a user's cart lines.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	// ListByUser returns the user's cart lines in insertion order, with the
	// product (and its current catalog price) preloaded. An empty cart yields
	// an empty slice, not an error.
	ListByUser(userID int64) ([]models.CartItem, error)
	GetLine(userID, productID int64) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id int64, qty int) error
	Remove(userID, productID int64) error
	Clear(userID int64) error
}
