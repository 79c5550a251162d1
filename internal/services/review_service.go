package services

import (
	"time"

	"joybox/internal/models"
	"joybox/internal/repositories"
)

// ReviewService manages product reviews. Reviews are not tracked entities;
// the only side effect on update is the last-modified stamp applied by the
// model hook.
type ReviewService struct {
	repo repositories.ReviewRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo repositories.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

// ListByProduct returns a product's reviews, newest first.
func (s *ReviewService) ListByProduct(productID int64) ([]models.Review, error) {
	return s.repo.ListByProduct(productID)
}

// CreateReview adds a review for a product.
func (s *ReviewService) CreateReview(review *models.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	return s.repo.Create(review)
}

// UpdateReview applies rating/text edits for the review's owner. The
// updatedAt stamp comes from the model's BeforeUpdate hook.
func (s *ReviewService) UpdateReview(userID, reviewID int64, rating int, text string) (*models.Review, error) {
	review, err := s.repo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrForbidden
	}
	review.Rating = rating
	review.Text = text
	if err := s.repo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}
