// Package checkout bridges the cart store and the order ledger. It reads
// only the selected cart lines, delegates order creation, and consumes
// exactly those lines on success. A failed checkout leaves the cart as it
// was.
package checkout

import (
	"context"

	"solemart/apperr"
	"solemart/cart"
	"solemart/models"
	"solemart/orders"
)

type Orchestrator struct {
	ledger *orders.Ledger
}

func NewOrchestrator(ledger *orders.Ledger) *Orchestrator {
	return &Orchestrator{ledger: ledger}
}

type Request struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	ShippingService string                 `json:"shippingService"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// Checkout turns the cart's selected lines into an order. Selection is
// checked before the ledger is contacted, and the cart is only mutated
// after the order exists.
func (o *Orchestrator) Checkout(ctx context.Context, store *cart.Store, userID string, req Request) (*models.Order, error) {
	selected := store.SelectedLines()
	if len(selected) == 0 {
		return nil, apperr.Validation("no items selected for checkout")
	}

	service, ok := shippingByName(req.ShippingService)
	if !ok {
		return nil, apperr.Validation("unknown shipping service: %q", req.ShippingService)
	}
	if !validPaymentMethod(req.PaymentMethod) {
		return nil, apperr.Validation("unknown payment method: %q", req.PaymentMethod)
	}

	items := make([]orders.ItemInput, 0, len(selected))
	for _, line := range selected {
		items = append(items, orders.ItemInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Size:      line.Size,
		})
	}

	order, err := o.ledger.Create(ctx, userID, orders.CreateInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		ShippingService: service,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	store.RemoveSelected(ctx)
	return order, nil
}
