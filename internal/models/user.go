package models

import "time"

// Role names seeded at migration time.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleBuyer   = "buyer"
)

// Role is a small reference table of user roles.
type Role struct {
	ID   int32  `json:"role_id" gorm:"column:roleId;primaryKey;autoIncrement"`
	Name string `json:"role_name" gorm:"column:roleName;type:varchar(100);uniqueIndex"`
}

func (Role) TableName() string { return "role" }

// User represents an account. Email is the login identity. Phone is validated
// as exactly 11 digits at the storage boundary.
type User struct {
	ID         int64     `json:"user_id" gorm:"column:userId;primaryKey;autoIncrement"`
	LastName   string    `json:"last_name" gorm:"column:lastName;type:varchar(100)" validate:"required,max=100"`
	FirstName  string    `json:"first_name" gorm:"column:firstName;type:varchar(100)" validate:"required,max=100"`
	MiddleName string    `json:"middle_name,omitempty" gorm:"column:middleName;type:varchar(100)" validate:"omitempty,max=100"`
	Email      string    `json:"email" gorm:"column:email;type:varchar(255);uniqueIndex" validate:"required,email"`
	Password   string    `json:"-" gorm:"column:password;type:varchar(100)" validate:"required,min=6"` // bcrypt hash, never serialized
	RoleID     int32     `json:"role_id" gorm:"column:roleId;index" validate:"required"`
	Phone      string    `json:"phone" gorm:"column:phone;type:varchar(11)" validate:"required,len=11,numeric"`
	BirthDate  time.Time `json:"birth_date" gorm:"column:birthDate;type:date"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:createdAt"`

	Role *Role `json:"role,omitempty" gorm:"foreignKey:RoleID;references:ID"`
}

func (User) TableName() string { return "user" }

// Address is a delivery address owned by a user. Index is a 6 digit postal code.
type Address struct {
	ID     int64  `json:"address_id" gorm:"column:addressId;primaryKey;autoIncrement"`
	UserID int64  `json:"user_id" gorm:"column:userId;index" validate:"required"`
	City   string `json:"city" gorm:"column:city;type:varchar(100)" validate:"required,max=100"`
	Street string `json:"street" gorm:"column:street;type:varchar(100)" validate:"required,max=100"`
	House  string `json:"house" gorm:"column:house;type:varchar(50)" validate:"required,max=50"`
	Flat   string `json:"flat,omitempty" gorm:"column:flat;type:varchar(10)" validate:"omitempty,max=10"`
	Index  string `json:"index" gorm:"column:index;type:varchar(6)" validate:"required,len=6,numeric"`
}

func (Address) TableName() string { return "address" }
