package services

import (
	"errors"
	"fmt"

	"joybox/internal/repositories"

	"gorm.io/gorm"
)

// InventoryService is the exclusive owner of per-product stock. All stock
// movement goes through Reserve and Restore.
type InventoryService struct {
	productRepo repositories.ProductRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(productRepo repositories.ProductRepository) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
	}
}

// CheckAvailability reports whether the product currently has at least qty
// units in stock. The answer is advisory only: Reserve re-checks atomically.
func (s *InventoryService) CheckAvailability(productID int64, qty int) (bool, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, fmt.Errorf("failed to check availability of product %d: %w", productID, err)
	}
	return product.Quantity >= qty, nil
}

// Reserve decrements stock by qty. The check and the decrement are one atomic
// statement; when it loses the race it returns InsufficientStockError with
// the current availability.
func (s *InventoryService) Reserve(productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}
	ok, err := s.productRepo.Reserve(productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		product, lookupErr := s.productRepo.GetByID(productID)
		if lookupErr != nil {
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to reserve product %d: %w", productID, lookupErr)
		}
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Quantity,
			Requested:   qty,
		}
	}
	return nil
}

// Restore puts qty units back into stock. Restocking is always valid, there
// is no upper bound.
func (s *InventoryService) Restore(productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("restore quantity must be positive, got %d", qty)
	}
	if err := s.productRepo.Restore(productID, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
