package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

// MemoryRepository stands in for Postgres when no database is configured.
// Orders live in process memory and every write is logged, which is
// enough for local development of the storefront flow.
type MemoryRepository struct {
	mu       sync.Mutex
	counters map[string]int64
	orders   map[string]*domain.Order
	bookings map[string][]domain.RentalBooking
	events   []*OutboxEvent
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		counters: make(map[string]int64),
		orders:   make(map[string]*domain.Order),
		bookings: make(map[string][]domain.RentalBooking),
	}
}

func (m *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order, bookings []domain.RentalBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	year := order.CreatedAt.Year()
	if order.Number == "" {
		order.Number = m.nextReferenceLocked(domain.OrderNumberPrefix, year)
	}
	for i := range bookings {
		bookings[i].Number = m.nextReferenceLocked(domain.BookingNumberPrefix, year)
	}

	m.orders[order.Number] = order
	m.bookings[order.Number] = bookings

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.Number,
	})
	m.nextID++
	m.events = append(m.events, &OutboxEvent{
		ID:          m.nextID,
		AggregateID: order.ID.String(),
		EventType:   eventTypeOrderCreated,
		Payload:     payload,
		CreatedAt:   order.CreatedAt,
	})

	log.Printf("order %s stored in memory (%d items, %d bookings)", order.Number, len(order.Items), len(bookings))
	return nil
}

func (m *MemoryRepository) GetOrderByNumber(_ context.Context, number string) (*domain.Order, []domain.RentalBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[number]
	if !ok {
		return nil, nil, ErrOrderNotFound
	}
	return order, m.bookings[number], nil
}

func (m *MemoryRepository) GetUnpublishedEvents(_ context.Context, limit int) ([]*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit > len(m.events) {
		limit = len(m.events)
	}
	events := make([]*OutboxEvent, limit)
	copy(events, m.events[:limit])
	return events, nil
}

func (m *MemoryRepository) MarkEventPublished(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, ev := range m.events {
		if ev.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryRepository) RunMigrations(*Credentials) error {
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}

func (m *MemoryRepository) nextReferenceLocked(prefix string, year int) string {
	key := fmt.Sprintf("%s-%d", prefix, year)
	m.counters[key]++
	return fmt.Sprintf("%s-%d-%06d", prefix, year, m.counters[key])
}
