package services

import (
	"errors"

	"joybox/internal/models"
	"joybox/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Percent bounds for bulk price changes. -90 keeps every price positive,
// 500 caps runaway spikes.
var (
	minPercent = decimal.NewFromInt(-90)
	maxPercent = decimal.NewFromInt(500)
	hundred    = decimal.NewFromInt(100)
)

// PricingService applies bounded percentage price adjustments over whole
// categories, atomically: all matching products change or none do.
type PricingService struct {
	db           *gorm.DB
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	audit        *AuditService
}

// NewPricingService creates a new PricingService.
func NewPricingService(db *gorm.DB, productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, audit *AuditService) *PricingService {
	return &PricingService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		audit:        audit,
	}
}

// AdjustPricesByCategory rewrites every product price in the category as
// round(price * (1 + percentChange/100), 2). It returns the number of
// affected products; an empty category is zero affected rows, not an error.
func (s *PricingService) AdjustPricesByCategory(actorID int64, categoryID int32, percentChange decimal.Decimal) (int64, error) {
	if percentChange.LessThan(minPercent) || percentChange.GreaterThan(maxPercent) {
		return 0, ErrInvalidPercent
	}
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCategoryNotFound
		}
		return 0, err
	}

	factor := decimal.NewFromInt(1).Add(percentChange.Div(hundred))

	var (
		affected int64
		trail    []mutation
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		batch, err := products.ListByCategoryForUpdate(categoryID)
		if err != nil {
			return err
		}
		for i := range batch {
			product := &batch[i]
			oldSnap := Snapshot(product)
			newPrice := product.Price.Mul(factor).Round(2)
			if err := products.UpdatePrice(product.ID, newPrice); err != nil {
				return err
			}
			product.Price = newPrice
			trail = append(trail, mutation{
				recordID: product.ID,
				old:      oldSnap,
				new:      Snapshot(product),
			})
		}
		affected = int64(len(batch))
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, m := range trail {
		s.audit.Record(actorID, models.AuditUpdate, "product", m.recordID, m.old, m.new)
	}
	return affected, nil
}
