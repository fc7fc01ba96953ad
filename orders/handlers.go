package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"solemart/models"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers is the HTTP surface over the ledger.
type Handlers struct {
	ledger *Ledger
}

func NewHandlers(ledger *Ledger) *Handlers {
	return &Handlers{ledger: ledger}
}

// CreateOrder handles POST /api/orders.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Println("CreateOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := h.ledger.Create(ctx, userID, in)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// MyOrders handles GET /api/orders/myorders, newest first.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.ledger.ListForUser(ctx, userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id. Owner or admin only.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.ledger.Get(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdminRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// ListAll handles GET /api/orders/admin/all with ?status=&page=&limit=.
func (h *Handlers) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)
	orders, total, err := h.ledger.ListAll(ctx, opts.Status, opts.Page, opts.Limit)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	totalPages := total / int64(opts.Limit)
	if total%int64(opts.Limit) != 0 {
		totalPages++
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders":      orders,
		"totalOrders": total,
		"totalPages":  totalPages,
		"currentPage": opts.Page,
	})
}

// UpdateStatus handles PUT /api/orders/:id/status (admin).
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := h.ledger.UpdateStatus(ctx, ps.ByName("id"), payload.Status, payload.Note)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// CancelOrder handles PUT /api/orders/:id/cancel. Owner or admin only.
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		// missing/empty body means "use the default reason"
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	order, err := h.ledger.Cancel(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdminRequest(r), payload.Reason)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// Stats handles GET /api/orders/admin/stats (admin).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.ledger.Stats(ctx)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
