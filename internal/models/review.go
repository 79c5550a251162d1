package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a product review left by a user.
type Review struct {
	ID        int64     `json:"review_id" gorm:"column:reviewId;primaryKey;autoIncrement"`
	ProductID int64     `json:"product_id" gorm:"column:productId;index" validate:"required"`
	UserID    int64     `json:"user_id" gorm:"column:userId;index" validate:"required"`
	Rating    int       `json:"rating" gorm:"column:rating" validate:"required,min=1,max=5"`
	Text      string    `json:"review_text,omitempty" gorm:"column:reviewText;type:text" validate:"omitempty,max=2000"`
	CreatedAt time.Time `json:"created_at" gorm:"column:createdAt"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updatedAt"`
}

func (Review) TableName() string { return "review" }

// BeforeUpdate stamps the last-modified timestamp on every review update.
func (r *Review) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("updatedAt", time.Now())
	return nil
}
