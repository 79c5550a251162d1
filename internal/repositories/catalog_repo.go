package repositories

import (
	"fmt"

	"joybox/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines data access for product categories.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id int32) (*models.Category, error)
	Create(category *models.Category) error
}

// BrandRepository defines data access for brands.
type BrandRepository interface {
	GetAll() ([]models.Brand, error)
	GetByID(id int32) (*models.Brand, error)
	Create(brand *models.Brand) error
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("\"categoryId\"").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByID(id int32) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "\"categoryId\" = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GORMBrandRepository is a GORM implementation of BrandRepository.
type GORMBrandRepository struct {
	db *gorm.DB
}

// NewGORMBrandRepository creates a new instance of GORMBrandRepository.
func NewGORMBrandRepository(db *gorm.DB) *GORMBrandRepository {
	return &GORMBrandRepository{db: db}
}

func (r *GORMBrandRepository) GetAll() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("\"brandId\"").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to get all brands: %w", err)
	}
	return brands, nil
}

func (r *GORMBrandRepository) GetByID(id int32) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, "\"brandId\" = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *GORMBrandRepository) Create(brand *models.Brand) error {
	if err := r.db.Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}
