package services

import (
	"errors"
	"fmt"

	"joybox/internal/models"
	"joybox/internal/repositories"

	"gorm.io/gorm"
)

// CartService manages per-user cart lines. The cart is source material for
// order creation: checkout consumes it and clears it.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListLines returns the user's cart with current catalog prices. An empty
// cart is an empty slice; callers needing non-empty semantics check length.
func (s *CartService) ListLines(userID int64) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}

// AddItem puts qty units of a product into the cart. An existing line for
// the same product grows by qty instead of duplicating.
func (s *CartService) AddItem(userID, productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("cart quantity must be positive, got %d", qty)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to look up product %d: %w", productID, err)
	}

	line, err := s.cartRepo.GetLine(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.cartRepo.Create(&models.CartItem{
				UserID:    userID,
				ProductID: productID,
				Quantity:  qty,
			})
		}
		return fmt.Errorf("failed to look up cart line: %w", err)
	}
	return s.cartRepo.UpdateQuantity(line.ID, line.Quantity+qty)
}

// UpdateQuantity sets the quantity of an existing cart line.
func (s *CartService) UpdateQuantity(userID, productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("cart quantity must be positive, got %d", qty)
	}
	line, err := s.cartRepo.GetLine(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to look up cart line: %w", err)
	}
	return s.cartRepo.UpdateQuantity(line.ID, qty)
}

// RemoveItem deletes one product line from the cart.
func (s *CartService) RemoveItem(userID, productID int64) error {
	if err := s.cartRepo.Remove(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID int64) error {
	return s.cartRepo.Clear(userID)
}
