package services

import (
	"errors"
	"fmt"

	"joybox/internal/models"
	"joybox/internal/repositories"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ProductService handles catalog management. Every mutation on a product is
// a tracked audit event with before/after snapshots. Stock quantity is not
// managed here; that belongs to the inventory ledger.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	brandRepo    repositories.BrandRepository
	audit        *AuditService
	validate     *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, brandRepo repositories.BrandRepository, audit *AuditService) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		audit:        audit,
		validate:     validator.New(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct validates and creates a new product.
func (s *ProductService) CreateProduct(actorID int64, product *models.Product) error {
	if err := s.checkInvariants(product); err != nil {
		return err
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.audit.Record(actorID, models.AuditCreate, "product", product.ID, nil, Snapshot(product))
	return nil
}

// UpdateProduct validates and updates an existing product.
func (s *ProductService) UpdateProduct(actorID int64, product *models.Product) error {
	if err := s.checkInvariants(product); err != nil {
		return err
	}
	prior, err := s.repo.GetByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.repo.Update(product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.audit.Record(actorID, models.AuditUpdate, "product", product.ID, Snapshot(prior), Snapshot(product))
	return nil
}

// DeleteProduct deletes a product by its ID. Dependent order items and cart
// lines cascade at the database level.
func (s *ProductService) DeleteProduct(actorID, id int64) error {
	prior, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.audit.Record(actorID, models.AuditDelete, "product", id, Snapshot(prior), nil)
	return nil
}

// ListCategories retrieves all categories.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// ListBrands retrieves all brands.
func (s *ProductService) ListBrands() ([]models.Brand, error) {
	return s.brandRepo.GetAll()
}

// CreateCategory validates and creates a category.
func (s *ProductService) CreateCategory(actorID int64, category *models.Category) error {
	if err := s.validate.Struct(category); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return err
	}
	s.audit.Record(actorID, models.AuditCreate, "category", int64(category.ID), nil, Snapshot(category))
	return nil
}

// CreateBrand validates and creates a brand.
func (s *ProductService) CreateBrand(actorID int64, brand *models.Brand) error {
	if err := s.validate.Struct(brand); err != nil {
		return fmt.Errorf("invalid brand: %w", err)
	}
	if err := s.brandRepo.Create(brand); err != nil {
		return err
	}
	s.audit.Record(actorID, models.AuditCreate, "brand", int64(brand.ID), nil, Snapshot(brand))
	return nil
}

// checkInvariants enforces the storage-boundary rules: price positive,
// weight positive, quantity and age rating non-negative.
func (s *ProductService) checkInvariants(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	if !product.Price.IsPositive() {
		return fmt.Errorf("product price must be positive, got %s", product.Price)
	}
	if !product.WeightKg.IsPositive() {
		return fmt.Errorf("product weight must be positive, got %s", product.WeightKg)
	}
	return nil
}
