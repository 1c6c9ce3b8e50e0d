package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ShippingAddress is the delivery address captured at checkout.
// State holds one of the 32 two-or-three letter state codes.
type ShippingAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Colony     string `json:"colony"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	References string `json:"references,omitempty"`
}

// Order is a placed order. Number is the human-readable reference shown to
// the customer (e.g. KAAK-2026-000042); it is assigned by the repository
// from a per-year sequence so references sort in creation order.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Shipping      ShippingAddress `json:"shipping"`
	Items         []CartItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Currency      string          `json:"currency"`
	PaymentID     string          `json:"payment_id"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RentalBooking is created per rental line of an order. Each booking gets
// its own reference (RNT-2026-000007) for the rental logistics team.
type RentalBooking struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	EventDate    time.Time       `json:"event_date"`
	EventAddress string          `json:"event_address"`
	GuestCount   int             `json:"guest_count"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrderNumberPrefix and BookingNumberPrefix scope references to the shop.
const (
	OrderNumberPrefix   = "KAAK"
	BookingNumberPrefix = "RNT"
)
