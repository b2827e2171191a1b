package models

import "time"

// Withdrawal is a seller's request to cash out part of their balance.
type Withdrawal struct {
	Base
	SellerID    string     `json:"sellerId" gorm:"type:varchar(36);index"`
	Amount      float64    `json:"amount"`
	Method      string     `json:"method" gorm:"type:varchar(30)"`
	Account     string     `json:"account" gorm:"type:varchar(100)"`
	Status      string     `json:"status" gorm:"type:varchar(20);index;default:pending"`
	Note        string     `json:"note,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}
