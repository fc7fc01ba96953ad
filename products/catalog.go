package products

import (
	"context"

	"solemart/apperr"
	"solemart/db"
	"solemart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalog is the catalog resolver the order ledger snapshots from.
type MongoCatalog struct {
	Col *mongo.Collection
}

func NewMongoCatalog() *MongoCatalog {
	return &MongoCatalog{Col: db.ProductCollection}
}

func (c *MongoCatalog) Product(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := c.Col.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("product", productID)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
