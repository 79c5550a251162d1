package repositories

import (
	"joybox/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines data access for products, including the stock
// operations of the inventory ledger.
type ProductRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx *gorm.DB) ProductRepository

	GetAll() ([]models.Product, error)
	GetByID(id int64) (*models.Product, error)
	// GetByIDForUpdate fetches a product under a row-level write lock so that
	// concurrent checkouts of the same product serialize.
	GetByIDForUpdate(id int64) (*models.Product, error)
	ListByCategoryForUpdate(categoryID int32) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdatePrice(id int64, price decimal.Decimal) error
	Delete(id int64) error

	// Reserve decrements stock by qty if and only if enough stock remains,
	// as one atomic statement. It returns false when stock was insufficient.
	Reserve(id int64, qty int) (bool, error)
	// Restore increments stock by qty. Restocking has no upper bound.
	Restore(id int64, qty int) error
}
