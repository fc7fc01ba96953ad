package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"solemart/db"
	"solemart/models"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUsers returns every user, without password hashes.
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.UserCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Could not retrieve users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		http.Error(w, "Error reading user data", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GetUser returns one user by id.
func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": ps.ByName("id")}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve user", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateUserRole handles PUT /api/admin/users/:id/role.
func UpdateUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.Role != models.RoleUser && payload.Role != models.RoleAdmin {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	// an admin cannot demote themselves
	if ps.ByName("id") == utils.GetUserIDFromRequest(r) && payload.Role != models.RoleAdmin {
		http.Error(w, "Cannot change your own role", http.StatusBadRequest)
		return
	}

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": ps.ByName("id")},
		bson.M{"$set": bson.M{"role": payload.Role}},
	)
	if err != nil {
		http.Error(w, "Failed to update role", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteUser handles DELETE /api/admin/users/:id. Orders are kept; they
// reference the user id, not the document.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if ps.ByName("id") == utils.GetUserIDFromRequest(r) {
		http.Error(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"userid": ps.ByName("id")})
	if err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetDashboardStats returns site-wide counts for the admin landing page.
func GetDashboardStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userCount, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not compute stats", http.StatusInternalServerError)
		return
	}
	productCount, err := db.ProductCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not compute stats", http.StatusInternalServerError)
		return
	}
	orderCount, err := db.OrderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not compute stats", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"totalUsers":    userCount,
		"totalProducts": productCount,
		"totalOrders":   orderCount,
	})
}
