package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"solemart/db"
	"solemart/models"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// DefaultPersister backs the HTTP cart endpoints. main wires the Redis
// persister here; the in-memory fallback keeps the cart usable without it.
var DefaultPersister Persister = NewMemoryPersister()

func openSessionStore(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return Open(r.Context(), userID, DefaultPersister), true
}

type cartView struct {
	Lines         []models.CartLine `json:"lines"`
	Count         int               `json:"count"`
	Total         float64           `json:"total"`
	SelectedCount int               `json:"selectedCount"`
	SelectedTotal float64           `json:"selectedTotal"`
}

func viewOf(s *Store) cartView {
	count, total := s.Totals(false)
	selCount, selTotal := s.Totals(true)
	lines := s.Lines()
	if lines == nil {
		lines = []models.CartLine{}
	}
	return cartView{
		Lines:         lines,
		Count:         count,
		Total:         total,
		SelectedCount: selCount,
		SelectedTotal: selTotal,
	}
}

// GetCart returns the session's lines with both all-lines and selected-only
// totals.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, viewOf(store))
}

// AddToCart resolves the product and adds or increments the matching line.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      int    `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": payload.ProductID}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	store.AddLine(ctx, &product, payload.Quantity, payload.Size)
	utils.RespondWithJSON(w, http.StatusCreated, viewOf(store))
}

func lineKey(ps httprouter.Params) (string, int, bool) {
	productID := ps.ByName("productid")
	size, err := strconv.Atoi(ps.ByName("size"))
	if productID == "" || err != nil {
		return "", 0, false
	}
	return productID, size, true
}

// RemoveFromCart deletes the line; removing an absent line still succeeds.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, size, ok := lineKey(ps)
	if !ok {
		http.Error(w, "Invalid cart line key", http.StatusBadRequest)
		return
	}
	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}
	store.RemoveLine(r.Context(), productID, size)
	utils.RespondWithJSON(w, http.StatusOK, viewOf(store))
}

// UpdateCartQuantity sets the line quantity; zero or less removes the line.
func UpdateCartQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, size, ok := lineKey(ps)
	if !ok {
		http.Error(w, "Invalid cart line key", http.StatusBadRequest)
		return
	}

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}
	store.UpdateQuantity(r.Context(), productID, size, payload.Quantity)
	utils.RespondWithJSON(w, http.StatusOK, viewOf(store))
}

// ToggleSelectLine flips one line's selection flag.
func ToggleSelectLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID, size, ok := lineKey(ps)
	if !ok {
		http.Error(w, "Invalid cart line key", http.StatusBadRequest)
		return
	}
	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}
	store.ToggleSelect(r.Context(), productID, size)
	utils.RespondWithJSON(w, http.StatusOK, viewOf(store))
}

// ToggleSelectAllLines selects everything unless everything is already
// selected, in which case it deselects everything.
func ToggleSelectAllLines(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}
	store.ToggleSelectAll(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, viewOf(store))
}

// GetCartTotals returns {count,total}; ?selected=true restricts the sums to
// selected lines.
func GetCartTotals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	store, ok := openSessionStore(w, r)
	if !ok {
		return
	}
	selectedOnly := r.URL.Query().Get("selected") == "true"
	count, total := store.Totals(selectedOnly)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": count, "total": total})
}
