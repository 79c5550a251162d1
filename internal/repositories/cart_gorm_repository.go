package repositories

import (
	"fmt"

	"joybox/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// WithTx returns the repository bound to the given transaction handle.
func (r *GORMCartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &GORMCartRepository{db: tx}
}

// ListByUser returns all cart lines of a user with products preloaded.
func (r *GORMCartRepository) ListByUser(userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Preload("Product").
		Where("\"userId\" = ?", userID).
		Order("\"cartId\"").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user %d: %w", userID, err)
	}
	return items, nil
}

// GetLine returns the cart line for (user, product).
func (r *GORMCartRepository) GetLine(userID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("\"userId\" = ? AND \"productId\" = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create adds a new cart line.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (r *GORMCartRepository) UpdateQuantity(id int64, qty int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("\"cartId\" = ?", id).
		Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove deletes the (user, product) cart line.
func (r *GORMCartRepository) Remove(userID, productID int64) error {
	res := r.db.Where("\"userId\" = ? AND \"productId\" = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear removes every cart line of a user. Clearing an empty cart is a no-op.
func (r *GORMCartRepository) Clear(userID int64) error {
	if err := r.db.Where("\"userId\" = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}
	return nil
}
