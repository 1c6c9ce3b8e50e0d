package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maxruizg/Kaak-ecommerce/internal/cart"
	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
	"github.com/maxruizg/Kaak-ecommerce/internal/payment"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Generic form-level messages; internal detail goes to the log, never to
// the customer.
const (
	msgPaymentFailed = "No pudimos procesar tu pago. Intenta de nuevo."
	msgOrderFailed   = "No pudimos completar tu pedido. Intenta de nuevo."
)

// OrderStore persists the order and its bookings in one transaction and
// assigns their reference numbers.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order, bookings []domain.RentalBooking) error
}

// Submission is the raw checkout form split into its field groups.
type Submission struct {
	Contact  ContactForm  `json:"contact"`
	Shipping ShippingForm `json:"shipping"`
	Rental   RentalForm   `json:"rental"`
}

// Confirmation is what the customer sees after a successful checkout.
type Confirmation struct {
	OrderNumber    string          `json:"orderNumber"`
	BookingNumbers []string        `json:"bookingNumbers,omitempty"`
	PaymentID      string          `json:"paymentId"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ItemCount      int             `json:"itemCount"`
}

// Service orchestrates checkout: validate, charge, persist. Cart clearing
// is the transport layer's job once Submit succeeds.
type Service struct {
	gateway payment.Gateway
	orders  OrderStore
}

func NewService(gateway payment.Gateway, orders OrderStore) *Service {
	return &Service{gateway: gateway, orders: orders}
}

// Submit runs the whole checkout for one cart. Validation errors come
// back as FieldErrors with no side effects; payment or persistence
// failures come back under the "_form" key, leaving the cart intact so
// the customer can retry. A non-nil Confirmation means exactly one order
// was created. There is no idempotency key: a double submit creates two
// independent orders.
func (s *Service) Submit(ctx context.Context, c domain.Cart, sub Submission) (*Confirmation, FieldErrors, error) {
	if c.IsEmpty() {
		return nil, nil, ErrEmptyCart
	}

	errs := ValidateContact(sub.Contact).Merge(ValidateShipping(sub.Shipping))
	if c.HasRentalItems() {
		errs = errs.Merge(ValidateRental(sub.Rental))
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}

	totals := cart.Totals(c)
	customerName := fmt.Sprintf("%s %s", sub.Contact.FirstName, sub.Contact.LastName)

	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.CreateParams{
		Amount:        totals.Subtotal,
		Currency:      "MXN",
		CustomerEmail: sub.Contact.Email,
		CustomerName:  customerName,
		Description:   fmt.Sprintf("Pedido de %d artículos", totals.ItemCount),
	})
	if err != nil {
		log.Printf("payment intent failed: %v", err)
		return nil, FieldErrors{FormErrorKey: msgPaymentFailed}, nil
	}

	order := &domain.Order{
		ID:            uuid.New(),
		CustomerName:  customerName,
		CustomerEmail: sub.Contact.Email,
		CustomerPhone: sub.Contact.Phone,
		Shipping: domain.ShippingAddress{
			Street:     sub.Shipping.Street,
			Number:     sub.Shipping.Number,
			Colony:     sub.Shipping.Colony,
			City:       sub.Shipping.City,
			State:      sub.Shipping.State,
			PostalCode: sub.Shipping.PostalCode,
			References: sub.Shipping.References,
		},
		Items:     c.Items,
		Subtotal:  totals.Subtotal,
		Currency:  intent.Currency,
		PaymentID: intent.ID,
		Status:    domain.OrderStatusPaid,
		CreatedAt: time.Now(),
	}

	bookings := buildBookings(order, c, sub.Rental)

	if err := s.orders.CreateOrder(ctx, order, bookings); err != nil {
		log.Printf("order persistence failed for payment %s: %v", intent.ID, err)
		return nil, FieldErrors{FormErrorKey: msgOrderFailed}, nil
	}

	numbers := make([]string, len(bookings))
	for i, b := range bookings {
		numbers[i] = b.Number
	}

	return &Confirmation{
		OrderNumber:    order.Number,
		BookingNumbers: numbers,
		PaymentID:      intent.ID,
		Subtotal:       totals.Subtotal,
		ItemCount:      totals.ItemCount,
	}, nil, nil
}

// buildBookings creates one booking per rental line. The event date was
// validated already; parse errors cannot occur here.
func buildBookings(order *domain.Order, c domain.Cart, rental RentalForm) []domain.RentalBooking {
	rentalLines := c.RentalItems()
	if len(rentalLines) == 0 {
		return nil
	}

	eventDate, _ := time.Parse(EventDateLayout, rental.EventDate)

	bookings := make([]domain.RentalBooking, 0, len(rentalLines))
	for _, line := range rentalLines {
		bookings = append(bookings, domain.RentalBooking{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			EventDate:    eventDate,
			EventAddress: rental.EventAddress,
			GuestCount:   rental.GuestCount,
			TotalCost:    line.LineTotal(),
			CreatedAt:    order.CreatedAt,
		})
	}
	return bookings
}
