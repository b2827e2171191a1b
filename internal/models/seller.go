package models

import "time"

// SellerRequest is an application submitted by a user to become a seller.
type SellerRequest struct {
	Base
	UserID       string     `json:"userId" gorm:"type:varchar(36);index"`
	User         *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BusinessName string     `json:"businessName" gorm:"type:varchar(150)"`
	Email        string     `json:"email" gorm:"type:varchar(255)"`
	Phone        string     `json:"phone" gorm:"type:varchar(30)"`
	Address      string     `json:"address"`
	Description  string     `json:"description"`
	Status       string     `json:"status" gorm:"type:varchar(20);index;default:pending"`
	RejectReason string     `json:"rejectReason,omitempty"`
	ReviewedBy   *string    `json:"reviewedBy,omitempty" gorm:"type:varchar(36)"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
}

// SellerProfile is created when a seller request is approved.
type SellerProfile struct {
	Base
	UserID       string  `json:"userId" gorm:"type:varchar(36);uniqueIndex"`
	BusinessName string  `json:"businessName" gorm:"type:varchar(150)"`
	Email        string  `json:"email" gorm:"type:varchar(255)"`
	Phone        string  `json:"phone" gorm:"type:varchar(30)"`
	Address      string  `json:"address"`
	Description  string  `json:"description"`
	Balance      float64 `json:"balance" gorm:"not null;default:0"`
	IsActive     bool    `json:"isActive" gorm:"not null"`
}
