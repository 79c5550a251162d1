package models

import "gorm.io/gorm"

// Migrate creates or updates every table of the core schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&Category{},
		&Brand{},
		&Product{},
		&Address{},
		&OrderStatus{},
		&Order{},
		&OrderItem{},
		&CartItem{},
		&Review{},
		&AuditLog{},
	)
}

// SeedReference fills the small reference tables (roles, order statuses).
// Seeding is idempotent.
func SeedReference(db *gorm.DB) error {
	for _, name := range []string{RoleAdmin, RoleManager, RoleBuyer} {
		if err := db.FirstOrCreate(&Role{}, Role{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range []string{StatusNew, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if err := db.FirstOrCreate(&OrderStatus{}, OrderStatus{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
