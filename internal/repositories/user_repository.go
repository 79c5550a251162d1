package repositories

import "joybox/internal/models"

// UserRepository defines the interface for user and address data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id int64) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int64) (*models.User, error)

	RoleID(name string) (int32, error)

	CreateAddress(address *models.Address) error
	GetAddress(id int64) (*models.Address, error)
}
