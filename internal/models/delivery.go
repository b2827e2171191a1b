package models

// DeliveryPerson is a courier that can be assigned to orders.
type DeliveryPerson struct {
	Base
	Name        string `json:"name" gorm:"type:varchar(100)"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Phone       string `json:"phone" gorm:"type:varchar(30)"`
	VehicleType string `json:"vehicleType" gorm:"type:varchar(30)"`
	Zone        string `json:"zone" gorm:"type:varchar(100)"`
	IsBlocked   bool   `json:"isBlocked" gorm:"not null;default:false"`
	IsAvailable bool   `json:"isAvailable" gorm:"not null"`
}
