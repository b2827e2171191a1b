package models

// Cart holds the items a user intends to buy. There is one cart per user.
type Cart struct {
	Base
	UserID string     `json:"userId" gorm:"type:varchar(36);uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Total  float64    `json:"total" gorm:"-"`
}

// CartItem is a single product line of a cart.
type CartItem struct {
	Base
	CartID    string   `json:"cartId" gorm:"type:varchar(36);uniqueIndex:idx_cart_product"`
	ProductID string   `json:"productId" gorm:"type:varchar(36);uniqueIndex:idx_cart_product"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
}

// ComputeTotal sets Total from the item lines. Totals are never stored.
func (c *Cart) ComputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	c.Total = total
}
