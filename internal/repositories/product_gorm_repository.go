package repositories

import (
	"fmt"

	"joybox/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// WithTx returns the repository bound to the given transaction handle.
func (r *GORMProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &GORMProductRepository{db: tx}
}

// GetAll retrieves all products with their category and brand.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").Preload("Brand").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").Preload("Brand").First(&product, "\"productId\" = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// locked applies SELECT ... FOR UPDATE where the dialect supports it.
// SQLite has no row locks; its single-writer lock serializes instead, and the
// quantity guard in Reserve keeps the invariant either way.
func (r *GORMProductRepository) locked() *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return r.db
	}
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetByIDForUpdate retrieves a product under SELECT ... FOR UPDATE.
func (r *GORMProductRepository) GetByIDForUpdate(id int64) (*models.Product, error) {
	var product models.Product
	err := r.locked().First(&product, "\"productId\" = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByCategoryForUpdate retrieves every product of a category under a write lock.
func (r *GORMProductRepository) ListByCategoryForUpdate(categoryID int32) ([]models.Product, error) {
	var products []models.Product
	err := r.locked().
		Where("\"categoryId\" = ?", categoryID).
		Order("\"productId\"").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products for category %d: %w", categoryID, err)
	}
	return products, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePrice writes a single product's price.
func (r *GORMProductRepository) UpdatePrice(id int64, price decimal.Decimal) error {
	res := r.db.Model(&models.Product{}).
		Where("\"productId\" = ?", id).
		Update("price", price)
	if res.Error != nil {
		return fmt.Errorf("failed to update price for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a product by its ID. Dependent order items and cart lines
// cascade at the database level.
func (r *GORMProductRepository) Delete(id int64) error {
	res := r.db.Delete(&models.Product{}, "\"productId\" = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reserve performs the atomic check-and-decrement. The quantity guard lives
// in the statement itself, so two concurrent reservations can never drive
// stock negative even without an outer row lock.
func (r *GORMProductRepository) Reserve(id int64, qty int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("\"productId\" = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to reserve %d of product %d: %w", qty, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Restore puts qty units back into stock.
func (r *GORMProductRepository) Restore(id int64, qty int) error {
	res := r.db.Model(&models.Product{}).
		Where("\"productId\" = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to restore %d of product %d: %w", qty, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
