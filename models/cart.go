package models

import "time"

// CartLine is one product+size selection in a shopper's cart. Price and the
// display fields are snapshots taken when the line was added; the line is
// keyed by (ProductID, Size).
type CartLine struct {
	ProductID string    `json:"productId" bson:"productid"`
	Name      string    `json:"name" bson:"name"`
	Brand     string    `json:"brand" bson:"brand"`
	Price     float64   `json:"price" bson:"price"`
	Image     string    `json:"image" bson:"image"`
	Size      int       `json:"size" bson:"size"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Selected  bool      `json:"selected" bson:"selected"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}
