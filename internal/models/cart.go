package models

// CartItem is one line of a user's cart: unique per (user, product). Cart
// lines carry no price; the catalog price is read at checkout time.
type CartItem struct {
	ID        int64 `json:"cart_id" gorm:"column:cartId;primaryKey;autoIncrement"`
	UserID    int64 `json:"user_id" gorm:"column:userId;uniqueIndex:idx_cart_user_product" validate:"required"`
	ProductID int64 `json:"product_id" gorm:"column:productId;uniqueIndex:idx_cart_user_product" validate:"required"`
	Quantity  int   `json:"quantity" gorm:"column:quantity" validate:"required,gt=0"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE"`
}

func (CartItem) TableName() string { return "cart" }
