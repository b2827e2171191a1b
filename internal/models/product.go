package models

// Product is an item sold by a seller.
type Product struct {
	Base
	SellerID    string  `json:"sellerId" gorm:"type:varchar(36);index"`
	Name        string  `json:"name" gorm:"type:varchar(100)"`
	Description string  `json:"description" gorm:"type:varchar(500)"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// Review is a rating left by a user on a product.
type Review struct {
	Base
	ProductID string `json:"productId" gorm:"type:varchar(36);uniqueIndex:idx_review_user_product"`
	UserID    string `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_review_user_product"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
