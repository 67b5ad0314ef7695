package ports

import (
	"context"
	"time"

	"farmstand/internal/orders/domain"
	"farmstand/pkg/pagination"
)

// ListFilter narrows an order listing
type ListFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Phone     string
	Page      pagination.Params
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// PlaceOrder persists a new order as one atomic unit: it allocates the
	// next daily order number, inserts the order with its items, and runs a
	// conditional stock decrement for every item. Any failure, including a
	// product running short at decrement time, rolls the whole placement
	// back. Returns the IDs of products the placement drained to zero.
	PlaceOrder(ctx context.Context, order *domain.Order) (depleted []uint, err error)

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id uint) (*domain.Order, error)

	// GetByOrderNumber retrieves an order by its human-readable number
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)

	// List retrieves orders matching the filter, newest first, with the total count
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, int64, error)

	// Recent retrieves the most recent orders
	Recent(ctx context.Context, limit int) ([]*domain.Order, error)

	// ByCustomerPhone retrieves a customer's orders, newest first
	ByCustomerPhone(ctx context.Context, phone string, limit int) ([]*domain.Order, error)

	// Update persists status, history and delivery detail changes
	Update(ctx context.Context, order *domain.Order) error

	// Cancel persists a cancelled order and restores stock for its items in
	// one transaction. Items whose product no longer exists are skipped;
	// their product IDs are returned so the caller can surface a warning.
	Cancel(ctx context.Context, order *domain.Order) (skipped []uint, err error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishOrderPlaced publishes an order placed event
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error

	// PublishOrderCancelled publishes an order cancelled event
	PublishOrderCancelled(ctx context.Context, order *domain.Order) error

	// PublishProductOutOfStock publishes an out-of-stock alert
	PublishProductOutOfStock(ctx context.Context, productID uint, name string) error
}

// ProductInfo is the catalog snapshot needed to build a line item
type ProductInfo struct {
	ID          uint
	Name        string
	Price       float64
	Unit        string
	Stock       int
	IsAvailable bool
}

// CatalogClient defines the interface for catalog lookups at placement time
type CatalogClient interface {
	// GetProduct retrieves a product's current price and stock
	GetProduct(ctx context.Context, id uint) (*ProductInfo, error)
}
