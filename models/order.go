package models

import "time"

// Order statuses. Completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// OrderItem is an immutable snapshot of a product at order time, so later
// catalog edits never change historical orders.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productid"`
	Name      string  `json:"name" bson:"name"`
	Brand     string  `json:"brand" bson:"brand"`
	Image     string  `json:"image" bson:"image"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Size      int     `json:"size" bson:"size"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullName"`
	Phone      string `json:"phone" bson:"phone"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	Province   string `json:"province" bson:"province"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
}

type ShippingService struct {
	Name          string  `json:"name" bson:"name"`
	Cost          float64 `json:"cost" bson:"cost"`
	EstimatedDays string  `json:"estimatedDays" bson:"estimatedDays"`
}

// StatusEntry is one append-only statusHistory record.
type StatusEntry struct {
	Status    string    `json:"status" bson:"status"`
	Note      string    `json:"note" bson:"note"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Order is a placed order. OrderNumber is unique and immutable once
// assigned; TotalPrice is always ItemsPrice + ShippingPrice.
type Order struct {
	OrderID         string          `json:"orderId" bson:"orderid"`
	OrderNumber     string          `json:"orderNumber" bson:"orderNumber"`
	UserID          string          `json:"userId" bson:"userid"`
	Items           []OrderItem     `json:"items" bson:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	ShippingService ShippingService `json:"shippingService" bson:"shippingService"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice" bson:"itemsPrice"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice" bson:"totalPrice"`
	Status          string          `json:"status" bson:"status"`
	StatusHistory   []StatusEntry   `json:"statusHistory" bson:"statusHistory"`
	CancelReason    string          `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// OrderStats is the admin dashboard aggregate. Revenue counts completed
// orders only.
type OrderStats struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	ConfirmedOrders int64   `json:"confirmedOrders"`
	ShippedOrders   int64   `json:"shippedOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	CancelledOrders int64   `json:"cancelledOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	RecentOrders    []Order `json:"recentOrders"`
}
