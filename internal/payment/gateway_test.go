package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatus struct {
	status Status
	reason string
}

func (f fixedStatus) GetStatus() (Status, string) {
	return f.status, f.reason
}

func TestStubGateway_CompletesCharge(t *testing.T) {
	sut := NewStubGateway(nil)

	intent, err := sut.CreatePaymentIntent(context.Background(), CreateParams{
		Amount:        decimal.NewFromInt(12000),
		CustomerEmail: "ana@example.com",
		CustomerName:  "Ana Poot",
		Description:   "Pedido de 2 artículos",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, intent.Status)
	assert.True(t, strings.HasPrefix(intent.ID, "pc_"))
	assert.Equal(t, "MXN", intent.Currency)
	assert.True(t, intent.Amount.Equal(decimal.NewFromInt(12000)))
	assert.False(t, intent.CreatedAt.IsZero())
}

func TestStubGateway_UniqueIntentIDs(t *testing.T) {
	sut := NewStubGateway(nil)
	params := CreateParams{Amount: decimal.NewFromInt(100)}

	first, err := sut.CreatePaymentIntent(context.Background(), params)
	require.NoError(t, err)
	second, err := sut.CreatePaymentIntent(context.Background(), params)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestStubGateway_DeclinedCharge(t *testing.T) {
	sut := NewStubGateway(fixedStatus{status: StatusFailed, reason: "insufficient funds"})

	_, err := sut.CreatePaymentIntent(context.Background(), CreateParams{
		Amount: decimal.NewFromInt(500),
	})
	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestStubGateway_RejectsNonPositiveAmount(t *testing.T) {
	sut := NewStubGateway(nil)

	_, err := sut.CreatePaymentIntent(context.Background(), CreateParams{Amount: decimal.Zero})
	require.Error(t, err)

	_, err = sut.CreatePaymentIntent(context.Background(), CreateParams{Amount: decimal.NewFromInt(-5)})
	require.Error(t, err)
}
