package checkout

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"solemart/cart"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	orchestrator *Orchestrator
}

func NewHandlers(orchestrator *Orchestrator) *Handlers {
	return &Handlers{orchestrator: orchestrator}
}

// Checkout handles POST /api/checkout.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Checkout decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	store := cart.Open(ctx, userID, cart.DefaultPersister)
	order, err := h.orchestrator.Checkout(ctx, store, userID, req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// ShippingOptionsHandler handles GET /api/shipping-options.
func ShippingOptionsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"shippingOptions": ShippingOptions,
		"paymentMethods":  PaymentMethods,
	})
}
