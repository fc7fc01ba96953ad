package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"solemart/db"
	"solemart/models"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetProducts returns the catalog, with optional ?brand= and ?search=
// filters and pagination.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Brand != "" {
		filter["brand"] = opts.Brand
	}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: opts.Search, Options: "i"}}
	}

	total, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("GetProducts count error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}

	findOpts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cursor, err := db.ProductCollection.Find(ctx, filter, findOpts)
	if err != nil {
		log.Println("GetProducts find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetProducts decode error:", err)
		http.Error(w, "Error reading product data", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products":    list,
		"total":       total,
		"currentPage": opts.Page,
	})
}

// GetProduct returns one product by id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func validateProduct(p *models.Product) string {
	if p.Name == "" || len(p.Name) > 100 {
		return "Name must be between 1 and 100 characters"
	}
	if p.Brand == "" {
		return "Brand is required"
	}
	if p.Price <= 0 {
		return "Price must be a positive number"
	}
	if len(p.Sizes) == 0 {
		return "At least one size is required"
	}
	return ""
}

// CreateProduct handles POST /api/products (admin).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if msg := validateProduct(&product); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	product.ProductID = utils.GenerateID(14)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct insert error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// EditProduct handles PUT /api/products/:id (admin).
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if msg := validateProduct(&product); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"brand":       product.Brand,
		"price":       product.Price,
		"sizes":       product.Sizes,
		"description": product.Description,
		"updatedAt":   time.Now(),
	}}
	res, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": ps.ByName("id")}, update)
	if err != nil {
		log.Println("EditProduct update error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct handles DELETE /api/products/:id (admin). Placed orders
// keep their snapshots, so deleting a product never rewrites history.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": ps.ByName("id")})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
