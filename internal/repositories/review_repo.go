package repositories

import (
	"fmt"

	"joybox/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines data access for product reviews.
type ReviewRepository interface {
	ListByProduct(productID int64) ([]models.Review, error)
	GetByID(id int64) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id int64) error
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) ListByProduct(productID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("\"productId\" = ?", productID).
		Order("\"createdAt\" DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %d: %w", productID, err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) GetByID(id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "\"reviewId\" = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GORMReviewRepository) Create(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update saves review edits. The model's BeforeUpdate hook stamps updatedAt.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Save(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GORMReviewRepository) Delete(id int64) error {
	res := r.db.Delete(&models.Review{}, "\"reviewId\" = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
