// Package payment holds the payment-gateway contract and the PayCode stub
// used until the live integration lands.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the terminal outcome of a payment intent.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrPaymentDeclined is returned when the gateway refuses the charge.
var ErrPaymentDeclined = errors.New("payment declined")

// CreateParams describes one charge request.
type CreateParams struct {
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	CustomerName  string
	Description   string
}

// Intent is the gateway's record of a charge.
type Intent struct {
	ID        string          `json:"id"`
	Status    Status          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Gateway creates payment intents. The call is synchronous; no webhook or
// async settlement is modeled.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params CreateParams) (*Intent, error)
}

// GetResponseStatus decides the outcome of each stub charge. Seam for
// tests; production stub always completes.
type GetResponseStatus interface {
	GetStatus() (Status, string)
}

// AlwaysCompleted is the default stub outcome.
type AlwaysCompleted struct{}

func (AlwaysCompleted) GetStatus() (Status, string) {
	return StatusCompleted, ""
}

// StubGateway mimics the PayCode API without any network call.
type StubGateway struct {
	status GetResponseStatus
}

func NewStubGateway(s GetResponseStatus) *StubGateway {
	if s == nil {
		s = AlwaysCompleted{}
	}
	return &StubGateway{status: s}
}

func (g *StubGateway) CreatePaymentIntent(_ context.Context, params CreateParams) (*Intent, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive, got %s", params.Amount)
	}

	currency := params.Currency
	if currency == "" {
		currency = "MXN"
	}

	status, reason := g.status.GetStatus()
	if status != StatusCompleted {
		if reason == "" {
			reason = "unknown reason"
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, reason)
	}

	return &Intent{
		ID:        fmt.Sprintf("pc_%s", uuid.NewString()),
		Status:    StatusCompleted,
		Amount:    params.Amount,
		Currency:  currency,
		CreatedAt: time.Now(),
	}, nil
}
