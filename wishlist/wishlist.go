package wishlist

import (
	"context"
	"log"
	"net/http"
	"time"

	"solemart/db"
	"solemart/models"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func loadUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func resolve(ctx context.Context, productIDs []string) []models.Product {
	if len(productIDs) == 0 {
		return []models.Product{}
	}
	cursor, err := db.ProductCollection.Find(ctx, bson.M{"productid": bson.M{"$in": productIDs}})
	if err != nil {
		log.Println("wishlist resolve error:", err)
		return []models.Product{}
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		return []models.Product{}
	}
	return list
}

// GetWishlist returns the user's wishlist resolved to products.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := loadUser(ctx, userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resolve(ctx, user.Wishlist))
}

// AddToWishlist handles POST /api/wishlist/:productid. Duplicates are an
// error, matching the storefront's toggle behavior.
func AddToWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Err()
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not check product", http.StatusInternalServerError)
		return
	}

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$addToSet": bson.M{"wishlist": productID}},
	)
	if err != nil {
		log.Println("AddToWishlist update error:", err)
		http.Error(w, "Failed to update wishlist", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if res.ModifiedCount == 0 {
		http.Error(w, "Product already in wishlist", http.StatusBadRequest)
		return
	}

	user, err := loadUser(ctx, userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resolve(ctx, user.Wishlist))
}

// RemoveFromWishlist handles DELETE /api/wishlist/:productid.
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$pull": bson.M{"wishlist": ps.ByName("productid")}},
	)
	if err != nil {
		http.Error(w, "Failed to update wishlist", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user, err := loadUser(ctx, userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resolve(ctx, user.Wishlist))
}
