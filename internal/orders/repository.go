// Package orders persists placed orders and rental bookings, assigns
// their reference numbers, and feeds the order-events outbox.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this payment already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is one pending row of the transactional outbox.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// Repository stores orders. CreateOrder assigns Number on the order and
// each booking from a per-year counter, so references sort in creation
// order within a year.
type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order, bookings []domain.RentalBooking) error
	GetOrderByNumber(ctx context.Context, number string) (*domain.Order, []domain.RentalBooking, error)
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id int64) error
	RunMigrations(*Credentials) error
	Close() error
}
