package repositories

import (
	"fmt"

	"joybox/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update updates an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a user by id.
func (r *GORMUserRepository) Delete(id int64) error {
	res := r.db.Delete(&models.User{}, "\"userId\" = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").First(&user, "\"userId\" = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RoleID resolves a role name against the reference table.
func (r *GORMUserRepository) RoleID(name string) (int32, error) {
	var role models.Role
	if err := r.db.First(&role, "\"roleName\" = ?", name).Error; err != nil {
		return 0, fmt.Errorf("unknown role %q: %w", name, err)
	}
	return role.ID, nil
}

// CreateAddress persists a delivery address.
func (r *GORMUserRepository) CreateAddress(address *models.Address) error {
	if err := r.db.Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// GetAddress retrieves an address by id.
func (r *GORMUserRepository) GetAddress(id int64) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "\"addressId\" = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
