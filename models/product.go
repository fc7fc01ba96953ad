package models

import "time"

// Product is a catalog record. Orders never reference it live; they copy
// the fields they need into an OrderItem at creation time.
type Product struct {
	ProductID   string    `json:"productId" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Brand       string    `json:"brand" bson:"brand"`
	Price       float64   `json:"price" bson:"price"`
	Sizes       []int     `json:"sizes" bson:"sizes"`
	Image       string    `json:"image" bson:"image"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DefaultSize is used when a cart line is added without an explicit size.
func (p *Product) DefaultSize() int {
	if len(p.Sizes) == 0 {
		return 0
	}
	return p.Sizes[0]
}

// Brand groups products for the storefront filter and the admin back-office.
type Brand struct {
	BrandID     string    `json:"brandId" bson:"brandid"`
	Name        string    `json:"name" bson:"name"`
	Logo        string    `json:"logo,omitempty" bson:"logo,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
