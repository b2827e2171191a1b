package models

// OrderItem represents a single item within an order.
type OrderItem struct {
	Base
	OrderID   string  `json:"orderId" gorm:"type:varchar(36);index"`
	ProductID string  `json:"productId" gorm:"type:varchar(36);index"`
	SellerID  string  `json:"sellerId" gorm:"type:varchar(36);index"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // Price at the time of order
}

// Order represents a customer order.
type Order struct {
	Base
	UserID           string      `json:"userId" gorm:"type:varchar(36);index"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount      float64     `json:"totalAmount"`
	Status           string      `json:"status" gorm:"type:varchar(20);index;default:pending"`
	ShippingAddress  string      `json:"shippingAddress"`
	DeliveryPersonID *string     `json:"deliveryPersonId,omitempty" gorm:"type:varchar(36);index"`
}

// Payment records a payment made for an order.
type Payment struct {
	Base
	OrderID   string  `json:"orderId" gorm:"type:varchar(36);index"`
	UserID    string  `json:"userId" gorm:"type:varchar(36);index"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method" gorm:"type:varchar(20)"`
	Status    string  `json:"status" gorm:"type:varchar(20);index;default:pending"`
	Reference string  `json:"reference" gorm:"type:varchar(64);uniqueIndex"`
}

// Payment methods.
const (
	PaymentCard        = "card"
	PaymentMobileMoney = "mobile_money"
	PaymentCash        = "cash"
)
