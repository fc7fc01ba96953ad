package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"solemart/apperr"
	"solemart/models"
)

// memStore is an in-memory Store that enforces the orderNumber uniqueness
// the Mongo index provides in production.
type memStore struct {
	mu       sync.Mutex
	orders   map[string]*models.Order
	byNumber map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		orders:   make(map[string]*models.Order),
		byNumber: make(map[string]string),
	}
}

func (m *memStore) Insert(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byNumber[o.OrderNumber]; taken {
		return apperr.Conflict("order number %s already exists", o.OrderNumber)
	}
	cp := *o
	m.orders[o.OrderID] = &cp
	m.byNumber[o.OrderNumber] = o.OrderID
	return nil
}

func (m *memStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperr.NotFound("order", orderID)
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.OrderID]; !ok {
		return apperr.NotFound("order", o.OrderID)
	}
	cp := *o
	m.orders[o.OrderID] = &cp
	return nil
}

func (m *memStore) LastSequence(ctx context.Context, dayPrefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last := 0
	for number := range m.byNumber {
		if !strings.HasPrefix(number, dayPrefix) {
			continue
		}
		var seq int
		if _, err := fmt.Sscanf(number[len(dayPrefix):], "%04d", &seq); err == nil && seq > last {
			last = seq
		}
	}
	return last, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memStore) Recent(ctx context.Context, n int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *memStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64)
	for _, o := range m.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (m *memStore) CompletedRevenue(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, o := range m.orders {
		if o.Status == models.StatusCompleted {
			total += o.TotalPrice
		}
	}
	return total, nil
}

// memSequencer mirrors the Redis INCR behaviour per day key.
type memSequencer struct {
	mu   sync.Mutex
	seqs map[string]int
	err  error
}

func (m *memSequencer) Next(ctx context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.seqs == nil {
		m.seqs = make(map[string]int)
	}
	m.seqs[day]++
	return m.seqs[day], nil
}

type memCatalog struct {
	products map[string]*models.Product
}

func (m *memCatalog) Product(ctx context.Context, productID string) (*models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, apperr.NotFound("product", productID)
	}
	cp := *p
	return &cp, nil
}

func testCatalog() *memCatalog {
	return &memCatalog{products: map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "Court Classic", Brand: "Nakiri", Price: 20000, Sizes: []int{40, 41, 42}},
		"p2": {ProductID: "p2", Name: "Trail Low", Brand: "Arwana", Price: 15000, Sizes: []int{39, 40}},
	}}
}

func testLedger() (*Ledger, *memStore) {
	store := newMemStore()
	l := NewLedger(store, &memSequencer{}, testCatalog())
	return l, store
}

func testInput() CreateInput {
	return CreateInput{
		Items: []ItemInput{
			{ProductID: "p1", Quantity: 2, Size: 41},
			{ProductID: "p2", Quantity: 1, Size: 40},
		},
		ShippingAddress: models.ShippingAddress{
			FullName:   "Budi Santoso",
			Phone:      "081234567890",
			Address:    "Jl. Melati No. 5",
			City:       "Bandung",
			Province:   "Jawa Barat",
			PostalCode: "40111",
		},
		ShippingService: models.ShippingService{Name: "JNE Regular", Cost: 15000, EstimatedDays: "3-4 hari"},
		PaymentMethod:   "COD",
	}
}

func TestCreateSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()

	order, err := l.Create(ctx, "u1", testInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.ItemsPrice != 55000 {
		t.Errorf("itemsPrice: expected 55000, got %v", order.ItemsPrice)
	}
	if order.ShippingPrice != 15000 {
		t.Errorf("shippingPrice: expected 15000, got %v", order.ShippingPrice)
	}
	if order.TotalPrice != 70000 {
		t.Errorf("totalPrice: expected 70000, got %v", order.TotalPrice)
	}
	if order.Status != models.StatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}
	if len(order.StatusHistory) != 1 || order.StatusHistory[0].Note != "order created" {
		t.Errorf("expected seeded history entry, got %+v", order.StatusHistory)
	}
	if len(order.Items) != 2 || order.Items[0].Name != "Court Classic" {
		t.Errorf("items were not snapshotted from the catalog: %+v", order.Items)
	}
}

func TestCreateOrderNumberFormat(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	l.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	first, err := l.Create(ctx, "u1", testInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.OrderNumber != "ORD202603140001" {
		t.Errorf("expected ORD202603140001, got %s", first.OrderNumber)
	}

	second, err := l.Create(ctx, "u1", testInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.OrderNumber != "ORD202603140002" {
		t.Errorf("expected ORD202603140002, got %s", second.OrderNumber)
	}

	// next day restarts the sequence
	l.now = func() time.Time { return time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC) }
	third, err := l.Create(ctx, "u1", testInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if third.OrderNumber != "ORD202603150001" {
		t.Errorf("expected ORD202603150001, got %s", third.OrderNumber)
	}
}

func TestCreateConcurrentNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	l.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	const n = 20
	numbers := make(chan string, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := l.Create(ctx, "u1", testInput())
			if err != nil {
				errs <- err
				return
			}
			numbers <- order.OrderNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent Create failed: %v", err)
	}

	seen := make(map[string]bool)
	for number := range numbers {
		if seen[number] {
			t.Fatalf("duplicate order number %s", number)
		}
		seen[number] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct numbers, got %d", n, len(seen))
	}
}

func TestCreateFallsBackWhenSequencerFails(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	l := NewLedger(store, &memSequencer{err: errors.New("redis down")}, testCatalog())
	l.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	first, err := l.Create(ctx, "u1", testInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := l.Create(ctx, "u1", testInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.OrderNumber != "ORD202603140001" || second.OrderNumber != "ORD202603140002" {
		t.Errorf("fallback numbering broken: %s, %s", first.OrderNumber, second.OrderNumber)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"no items", func(in *CreateInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateInput) { in.Items[0].Quantity = 0 }},
		{"missing product id", func(in *CreateInput) { in.Items[0].ProductID = "" }},
		{"missing address city", func(in *CreateInput) { in.ShippingAddress.City = "" }},
		{"missing shipping service", func(in *CreateInput) { in.ShippingService = models.ShippingService{} }},
		{"missing payment method", func(in *CreateInput) { in.PaymentMethod = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testInput()
			tc.mutate(&in)
			_, err := l.Create(ctx, "u1", in)
			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	_, err := l.Create(ctx, "u1", CreateInput{
		Items:           []ItemInput{{ProductID: "nope", Quantity: 1}},
		ShippingAddress: testInput().ShippingAddress,
		ShippingService: testInput().ShippingService,
		PaymentMethod:   "COD",
	})
	var nferr *apperr.NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("expected not-found for unknown product, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	order, _ := l.Create(ctx, "u1", testInput())

	// pending straight to shipped is allowed
	updated, err := l.UpdateStatus(ctx, order.OrderID, models.StatusShipped, "")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.StatusShipped {
		t.Errorf("expected shipped, got %s", updated.Status)
	}
	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	if last.Note != "order is being shipped" {
		t.Errorf("expected default shipped note, got %q", last.Note)
	}

	updated, err = l.UpdateStatus(ctx, order.OrderID, models.StatusCompleted, "left at the door")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got := updated.StatusHistory[len(updated.StatusHistory)-1].Note; got != "left at the door" {
		t.Errorf("custom note lost, got %q", got)
	}
	if len(updated.StatusHistory) != 3 {
		t.Errorf("history should be append-only, got %d entries", len(updated.StatusHistory))
	}

	// completed is terminal
	_, err = l.UpdateStatus(ctx, order.OrderID, models.StatusPending, "")
	var terr *apperr.InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected invalid transition from terminal state, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	order, _ := l.Create(ctx, "u1", testInput())

	_, err := l.UpdateStatus(ctx, order.OrderID, "teleported", "")
	var terr *apperr.InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}

	got, _ := l.Get(ctx, order.OrderID, "u1", false)
	if got.Status != models.StatusPending || len(got.StatusHistory) != 1 {
		t.Errorf("rejected update must not touch the order: %s, %d history entries", got.Status, len(got.StatusHistory))
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	order, _ := l.Create(ctx, "u1", testInput())

	cancelled, err := l.Cancel(ctx, order.OrderID, "u1", false, "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelReason != "cancelled by user" {
		t.Errorf("expected default reason, got %q", cancelled.CancelReason)
	}
	last := cancelled.StatusHistory[len(cancelled.StatusHistory)-1]
	if last.Note != "cancelled by user" {
		t.Errorf("history note should carry the reason, got %q", last.Note)
	}
}

func TestCancelOnlyFromPendingOrConfirmed(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()

	confirmed, _ := l.Create(ctx, "u1", testInput())
	l.UpdateStatus(ctx, confirmed.OrderID, models.StatusConfirmed, "")
	if _, err := l.Cancel(ctx, confirmed.OrderID, "u1", false, "changed my mind"); err != nil {
		t.Errorf("cancelling a confirmed order should work: %v", err)
	}

	shipped, _ := l.Create(ctx, "u1", testInput())
	l.UpdateStatus(ctx, shipped.OrderID, models.StatusShipped, "")
	_, err := l.Cancel(ctx, shipped.OrderID, "u1", false, "")
	var terr *apperr.InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Errorf("expected invalid transition cancelling a shipped order, got %v", err)
	}
}

func TestCancelOwnership(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	order, _ := l.Create(ctx, "u1", testInput())

	_, err := l.Cancel(ctx, order.OrderID, "u2", false, "")
	var ferr *apperr.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	if _, err := l.Cancel(ctx, order.OrderID, "u2", true, "fraud review"); err != nil {
		t.Errorf("admin cancel should succeed: %v", err)
	}
}

func TestGetOwnership(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	order, _ := l.Create(ctx, "u1", testInput())

	if _, err := l.Get(ctx, order.OrderID, "u1", false); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := l.Get(ctx, order.OrderID, "u2", true); err != nil {
		t.Errorf("admin read failed: %v", err)
	}

	_, err := l.Get(ctx, order.OrderID, "u2", false)
	var ferr *apperr.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Errorf("expected forbidden for stranger, got %v", err)
	}

	_, err = l.Get(ctx, "missing", "u1", false)
	var nferr *apperr.NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestListAllStatusFilter(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()
	l.Create(ctx, "u1", testInput())

	if _, _, err := l.ListAll(ctx, "all", 1, 20); err != nil {
		t.Errorf("status all should disable filtering: %v", err)
	}

	_, _, err := l.ListAll(ctx, "lost-in-transit", 1, 20)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for bogus filter, got %v", err)
	}
}

func TestStatsRevenueCountsCompletedOnly(t *testing.T) {
	ctx := context.Background()
	l, _ := testLedger()

	done, _ := l.Create(ctx, "u1", testInput())
	l.UpdateStatus(ctx, done.OrderID, models.StatusCompleted, "")
	l.Create(ctx, "u1", testInput()) // stays pending

	stats, err := l.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("expected 2 total orders, got %d", stats.TotalOrders)
	}
	if stats.CompletedOrders != 1 || stats.PendingOrders != 1 {
		t.Errorf("per-status counts wrong: %+v", stats)
	}
	if stats.TotalRevenue != 70000 {
		t.Errorf("revenue should cover completed orders only, got %v", stats.TotalRevenue)
	}
	if len(stats.RecentOrders) != 2 {
		t.Errorf("expected 2 recent orders, got %d", len(stats.RecentOrders))
	}
}
