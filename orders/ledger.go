package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solemart/apperr"
	"solemart/models"
	"solemart/utils"
)

// Store is the persistence port for placed orders. Insert must fail with an
// apperr.ConflictError when the orderNumber is already taken.
type Store interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	LastSequence(ctx context.Context, dayPrefix string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error)
	Recent(ctx context.Context, n int) ([]models.Order, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CompletedRevenue(ctx context.Context) (float64, error)
}

// Sequencer mints the next per-day order sequence atomically.
type Sequencer interface {
	Next(ctx context.Context, day string) (int, error)
}

// Catalog resolves products for item snapshots.
type Catalog interface {
	Product(ctx context.Context, productID string) (*models.Product, error)
}

// Ledger owns order creation, the order-number scheme and the status state
// machine.
type Ledger struct {
	store   Store
	seq     Sequencer
	catalog Catalog
	hub     *Hub
	now     func() time.Time
}

func NewLedger(store Store, seq Sequencer, catalog Catalog) *Ledger {
	return &Ledger{
		store:   store,
		seq:     seq,
		catalog: catalog,
		now:     time.Now,
	}
}

// SetHub attaches the live admin feed. Optional.
func (l *Ledger) SetHub(h *Hub) { l.hub = h }

type ItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
	Size      int    `json:"size"`
}

type CreateInput struct {
	Items           []ItemInput            `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	ShippingService models.ShippingService `json:"shippingService"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

func validateCreateInput(in CreateInput) error {
	if len(in.Items) == 0 {
		return apperr.Validation("no order items")
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return apperr.Validation("order item is missing a product id")
		}
		if it.Quantity < 1 {
			return apperr.Validation("order item quantity must be at least 1")
		}
	}
	addr := in.ShippingAddress
	if addr.FullName == "" || addr.Phone == "" || addr.Address == "" ||
		addr.City == "" || addr.Province == "" || addr.PostalCode == "" {
		return apperr.Validation("shipping address is incomplete")
	}
	if in.ShippingService.Name == "" || in.ShippingService.EstimatedDays == "" {
		return apperr.Validation("shipping service is required")
	}
	if in.ShippingService.Cost < 0 {
		return apperr.Validation("shipping cost must not be negative")
	}
	if in.PaymentMethod == "" {
		return apperr.Validation("payment method is required")
	}
	return nil
}

const maxNumberAttempts = 5

// Create builds and persists a new pending order. Item prices are
// snapshotted from the catalog at this moment; the whole order is written
// in a single insert so an aborted request never leaves a partial order.
func (l *Ledger) Create(ctx context.Context, userID string, in CreateInput) (*models.Order, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	var items []models.OrderItem
	var itemsPrice float64
	for _, it := range in.Items {
		product, err := l.catalog.Product(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Brand:     product.Brand,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
		})
		itemsPrice += product.Price * float64(it.Quantity)
	}

	now := l.now()
	order := &models.Order{
		OrderID:         utils.GetUUID(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		ShippingService: in.ShippingService,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   in.ShippingService.Cost,
		TotalPrice:      itemsPrice + in.ShippingService.Cost,
		Status:          models.StatusPending,
		StatusHistory: []models.StatusEntry{
			{Status: models.StatusPending, Note: defaultNote(models.StatusPending), UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	day := now.Format("20060102")
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		seq, err := l.seq.Next(ctx, day)
		if err != nil {
			// Counter unavailable; derive the sequence from stored orders
			// and let the unique index catch collisions.
			last, lerr := l.store.LastSequence(ctx, "ORD"+day)
			if lerr != nil {
				return nil, lerr
			}
			seq = last + 1
		}

		order.OrderNumber = fmt.Sprintf("ORD%s%04d", day, seq)
		err = l.store.Insert(ctx, order)
		var conflict *apperr.ConflictError
		if errors.As(err, &conflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		l.announce(order)
		return order, nil
	}
	return nil, apperr.Conflict("could not allocate an order number after %d attempts", maxNumberAttempts)
}

// UpdateStatus moves the order to newStatus and appends a history entry.
// Terminal orders and unrecognized statuses are hard errors.
func (l *Ledger) UpdateStatus(ctx context.Context, orderID, newStatus, note string) (*models.Order, error) {
	if !validStatuses[newStatus] {
		return nil, &apperr.InvalidTransitionError{To: newStatus, Msg: fmt.Sprintf("invalid status: %q", newStatus)}
	}

	order, err := l.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if isTerminal(order.Status) {
		return nil, &apperr.InvalidTransitionError{
			From: order.Status,
			To:   newStatus,
			Msg:  fmt.Sprintf("cannot update order that is already %s", order.Status),
		}
	}

	if note == "" {
		note = defaultNote(newStatus)
	}
	now := l.now()
	order.Status = newStatus
	order.StatusHistory = append(order.StatusHistory, models.StatusEntry{
		Status:    newStatus,
		Note:      note,
		UpdatedAt: now,
	})
	order.UpdatedAt = now

	if err := l.store.Update(ctx, order); err != nil {
		return nil, err
	}
	l.announce(order)
	return order, nil
}

// Cancel marks the order cancelled. Only the owner or an admin may cancel,
// and only while the order is still pending or confirmed.
func (l *Ledger) Cancel(ctx context.Context, orderID, requesterID string, requesterIsAdmin bool, reason string) (*models.Order, error) {
	order, err := l.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !requesterIsAdmin {
		return nil, apperr.Forbidden("not authorized to cancel this order")
	}
	if !cancellable(order.Status) {
		return nil, &apperr.InvalidTransitionError{
			From: order.Status,
			To:   models.StatusCancelled,
			Msg:  fmt.Sprintf("cannot cancel order with status: %s", order.Status),
		}
	}

	if reason == "" {
		reason = "cancelled by user"
	}
	now := l.now()
	order.Status = models.StatusCancelled
	order.CancelReason = reason
	order.StatusHistory = append(order.StatusHistory, models.StatusEntry{
		Status:    models.StatusCancelled,
		Note:      reason,
		UpdatedAt: now,
	})
	order.UpdatedAt = now

	if err := l.store.Update(ctx, order); err != nil {
		return nil, err
	}
	l.announce(order)
	return order, nil
}

// Get returns the order if the requester owns it or is an admin.
func (l *Ledger) Get(ctx context.Context, orderID, requesterID string, requesterIsAdmin bool) (*models.Order, error) {
	order, err := l.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !requesterIsAdmin {
		return nil, apperr.Forbidden("not authorized to view this order")
	}
	return order, nil
}

// ListForUser returns the user's orders, newest first.
func (l *Ledger) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return l.store.ListByUser(ctx, userID)
}

// ListAll is the admin read path; status "" or "all" disables filtering.
func (l *Ledger) ListAll(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	if status == "all" {
		status = ""
	}
	if status != "" && !validStatuses[status] {
		return nil, 0, apperr.Validation("invalid status filter: %q", status)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return l.store.List(ctx, status, page, limit)
}

// Stats aggregates per-status counts, revenue over completed orders only,
// and the five most recent orders.
func (l *Ledger) Stats(ctx context.Context) (*models.OrderStats, error) {
	counts, err := l.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := l.store.CompletedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := l.store.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}

	stats := &models.OrderStats{
		PendingOrders:   counts[models.StatusPending],
		ConfirmedOrders: counts[models.StatusConfirmed],
		ShippedOrders:   counts[models.StatusShipped],
		CompletedOrders: counts[models.StatusCompleted],
		CancelledOrders: counts[models.StatusCancelled],
		TotalRevenue:    revenue,
		RecentOrders:    recent,
	}
	for _, c := range counts {
		stats.TotalOrders += c
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []models.Order{}
	}
	return stats, nil
}

func (l *Ledger) announce(order *models.Order) {
	if l.hub != nil {
		l.hub.BroadcastOrderUpdate(order)
	}
}
