package brands

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"solemart/db"
	"solemart/models"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBrands returns active brands sorted by name.
func GetBrands(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := db.BrandCollection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		log.Println("GetBrands find error:", err)
		http.Error(w, "Could not retrieve brands", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Brand
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading brand data", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Brand{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

type brandWithCount struct {
	models.Brand `bson:",inline"`
	ProductCount int64 `json:"productCount"`
}

// GetBrandsAdmin returns every brand, active or not, with per-brand
// product counts.
func GetBrandsAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := db.BrandCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Could not retrieve brands", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Brand
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading brand data", http.StatusInternalServerError)
		return
	}

	out := make([]brandWithCount, 0, len(list))
	for _, b := range list {
		count, err := db.ProductCollection.CountDocuments(ctx, bson.M{"brand": b.Name})
		if err != nil {
			log.Println("GetBrandsAdmin count error:", err)
		}
		out = append(out, brandWithCount{Brand: b, ProductCount: count})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// CreateBrand handles POST /api/brands (admin). Duplicate names are
// rejected.
func CreateBrand(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Name        string `json:"name"`
		Logo        string `json:"logo"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		http.Error(w, "Brand name is required", http.StatusBadRequest)
		return
	}

	err := db.BrandCollection.FindOne(ctx, bson.M{"name": payload.Name}).Err()
	if err == nil {
		http.Error(w, "Brand already exists", http.StatusBadRequest)
		return
	}
	if err != mongo.ErrNoDocuments {
		http.Error(w, "Could not check brand", http.StatusInternalServerError)
		return
	}

	brand := models.Brand{
		BrandID:     utils.GenerateID(12),
		Name:        payload.Name,
		Logo:        payload.Logo,
		Description: payload.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if _, err := db.BrandCollection.InsertOne(ctx, brand); err != nil {
		log.Println("CreateBrand insert error:", err)
		http.Error(w, "Failed to create brand", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, brand)
}

// UpdateBrand handles PUT /api/brands/:id (admin).
func UpdateBrand(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Name        string `json:"name"`
		Logo        string `json:"logo"`
		Description string `json:"description"`
		IsActive    *bool  `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if name := strings.TrimSpace(payload.Name); name != "" {
		set["name"] = name
	}
	if payload.Logo != "" {
		set["logo"] = payload.Logo
	}
	if payload.Description != "" {
		set["description"] = payload.Description
	}
	if payload.IsActive != nil {
		set["isActive"] = *payload.IsActive
	}
	if len(set) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	res, err := db.BrandCollection.UpdateOne(ctx, bson.M{"brandid": ps.ByName("id")}, bson.M{"$set": set})
	if err != nil {
		http.Error(w, "Failed to update brand", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Brand not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteBrand handles DELETE /api/brands/:id (admin). Brands still
// referenced by products cannot be removed.
func DeleteBrand(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var brand models.Brand
	err := db.BrandCollection.FindOne(ctx, bson.M{"brandid": ps.ByName("id")}).Decode(&brand)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Brand not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve brand", http.StatusInternalServerError)
		return
	}

	count, err := db.ProductCollection.CountDocuments(ctx, bson.M{"brand": brand.Name})
	if err != nil {
		http.Error(w, "Could not check brand usage", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "Cannot delete brand with existing products", http.StatusBadRequest)
		return
	}

	if _, err := db.BrandCollection.DeleteOne(ctx, bson.M{"brandid": brand.BrandID}); err != nil {
		http.Error(w, "Failed to delete brand", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
