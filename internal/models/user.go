package models

// Roles a user can hold.
const (
	RoleUser     = "user"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
	RoleDelivery = "delivery"
)

// User represents an account of the marketplace.
type User struct {
	Base
	Name     string `json:"name" gorm:"type:varchar(100)"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Phone    string `json:"phone" gorm:"type:varchar(30)"`
	Password string `json:"-" gorm:"type:varchar(255)"`
	Role     string `json:"role" gorm:"type:varchar(20);index;default:user"`
}
