package models

import "github.com/shopspring/decimal"

// Category groups products in the catalog.
type Category struct {
	ID          int32  `json:"category_id" gorm:"column:categoryId;primaryKey;autoIncrement"`
	Name        string `json:"category_name" gorm:"column:categoryName;type:varchar(100)" validate:"required,min=2,max=100"`
	Description string `json:"category_description" gorm:"column:categoryDescription;type:text" validate:"omitempty,max=1000"`
}

// TableName maps Category onto the legacy table name.
func (Category) TableName() string { return "category" }

// Brand is a product manufacturer.
type Brand struct {
	ID          int32  `json:"brand_id" gorm:"column:brandId;primaryKey;autoIncrement"`
	Name        string `json:"brand_name" gorm:"column:brandName;type:varchar(100)" validate:"required,min=2,max=100"`
	Country     string `json:"brand_country" gorm:"column:brandCountry;type:varchar(100)" validate:"required,max=100"`
	Description string `json:"brand_description" gorm:"column:brandDescription;type:text" validate:"omitempty,max=1000"`
}

func (Brand) TableName() string { return "brand" }

// Product is a catalog item. Quantity is the on-hand stock owned by the
// inventory ledger: it is only ever changed through reserve/restore, never
// written directly by catalog updates.
type Product struct {
	ID          int64           `json:"product_id" gorm:"column:productId;primaryKey;autoIncrement"`
	Name        string          `json:"product_name" gorm:"column:productName;type:varchar(100)" validate:"required,min=2,max=100"`
	Description string          `json:"product_description" gorm:"column:productDescription;type:text" validate:"omitempty,max=2000"`
	CategoryID  int32           `json:"category_id" gorm:"column:categoryId;index" validate:"required"`
	BrandID     int32           `json:"brand_id" gorm:"column:brandId;index" validate:"required"`
	Price       decimal.Decimal `json:"price" gorm:"column:price;type:decimal(10,2)"`
	AgeRating   int             `json:"age_rating" gorm:"column:ageRating" validate:"gte=0"`
	Quantity    int             `json:"quantity" gorm:"column:quantity" validate:"gte=0"`
	WeightKg    decimal.Decimal `json:"weight_kg" gorm:"column:weightKg;type:decimal(10,2)"`
	Dimensions  string          `json:"dimensions" gorm:"column:dimensions;type:varchar(50)" validate:"omitempty,max=50"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE"`
	Brand    *Brand    `json:"brand,omitempty" gorm:"foreignKey:BrandID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "product" }
