package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

const eventTypeOrderCreated = "order.created"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cred *Credentials) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// CreateOrder writes the order, its bookings, and the outbox event in one
// transaction. Reference numbers are assigned here from per-year counters
// and written back into order and bookings.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order, bookings []domain.RentalBooking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	year := order.CreatedAt.Year()
	if order.Number == "" {
		order.Number, err = nextReference(ctx, tx, domain.OrderNumberPrefix, year)
		if err != nil {
			return err
		}
	}

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}

	for i := range bookings {
		bookings[i].Number, err = nextReference(ctx, tx, domain.BookingNumberPrefix, year)
		if err != nil {
			return err
		}
		if err := insertBooking(ctx, tx, &bookings[i]); err != nil {
			return err
		}
	}

	if err := insertOutboxEvent(ctx, tx, order, bookings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func nextReference(ctx context.Context, tx *sql.Tx, prefix string, year int) (string, error) {
	query := `INSERT INTO reference_counters (prefix, year, counter)
	          VALUES ($1, $2, 1)
	          ON CONFLICT (prefix, year)
	          DO UPDATE SET counter = reference_counters.counter + 1
	          RETURNING counter`

	var counter int64
	if err := tx.QueryRowContext(ctx, query, prefix, year).Scan(&counter); err != nil {
		return "", fmt.Errorf("next %s reference: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, counter), nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	shippingJSON, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `INSERT INTO orders (id, number, customer_name, customer_email, customer_phone,
	                              shipping, items, subtotal, currency, payment_id, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.Number,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		shippingJSON,
		itemsJSON,
		order.Subtotal,
		order.Currency,
		order.PaymentID,
		order.Status,
		order.CreatedAt)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func insertBooking(ctx context.Context, tx *sql.Tx, b *domain.RentalBooking) error {
	query := `INSERT INTO rental_bookings (id, number, order_id, product_id, product_name,
	                                       event_date, event_address, guest_count, total_cost, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.ExecContext(ctx, query,
		b.ID,
		b.Number,
		b.OrderID,
		b.ProductID,
		b.ProductName,
		b.EventDate,
		b.EventAddress,
		b.GuestCount,
		b.TotalCost,
		b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func insertOutboxEvent(ctx context.Context, tx *sql.Tx, order *domain.Order, bookings []domain.RentalBooking) error {
	bookingNumbers := make([]string, len(bookings))
	for i, b := range bookings {
		bookingNumbers[i] = b.Number
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":        order.ID,
		"order_number":    order.Number,
		"customer_email":  order.CustomerEmail,
		"subtotal":        order.Subtotal,
		"currency":        order.Currency,
		"booking_numbers": bookingNumbers,
		"created_at":      order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	query := `INSERT INTO outbox_events (aggregate_id, event_type, payload, created_at)
	          VALUES ($1, $2, $3, $4)`

	if _, err := tx.ExecContext(ctx, query, order.ID.String(), eventTypeOrderCreated, payload, order.CreatedAt); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, []domain.RentalBooking, error) {
	query := `SELECT id, number, customer_name, customer_email, customer_phone,
	                 shipping, items, subtotal, currency, payment_id, status, created_at
	          FROM orders WHERE number = $1`

	var order domain.Order
	var itemsJSON, shippingJSON []byte
	err := r.db.QueryRowContext(ctx, query, number).Scan(
		&order.ID,
		&order.Number,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&shippingJSON,
		&itemsJSON,
		&order.Subtotal,
		&order.Currency,
		&order.PaymentID,
		&order.Status,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query order by number: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(shippingJSON, &order.Shipping); err != nil {
		return nil, nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}

	bookings, err := r.bookingsForOrder(ctx, order.ID.String())
	if err != nil {
		return nil, nil, err
	}

	return &order, bookings, nil
}

func (r *PostgresRepository) bookingsForOrder(ctx context.Context, orderID string) ([]domain.RentalBooking, error) {
	query := `SELECT id, number, order_id, product_id, product_name,
	                 event_date, event_address, guest_count, total_cost, created_at
	          FROM rental_bookings WHERE order_id = $1 ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query bookings by order id: %w", err)
	}
	defer rows.Close()

	var bookings []domain.RentalBooking
	for rows.Next() {
		var b domain.RentalBooking
		if err := rows.Scan(
			&b.ID,
			&b.Number,
			&b.OrderID,
			&b.ProductID,
			&b.ProductName,
			&b.EventDate,
			&b.EventAddress,
			&b.GuestCount,
			&b.TotalCost,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return bookings, nil
}

func (r *PostgresRepository) GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM outbox_events WHERE published_at IS NULL
	          ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) MarkEventPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET published_at = $1 WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("mark event published: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
