package events

import "time"

// Exchange names
const (
	ExchangeOrders = "orders.events"
)

// Routing keys
const (
	RoutingKeyOrderPlaced       = "order.placed"
	RoutingKeyOrderCancelled    = "order.cancelled"
	RoutingKeyProductOutOfStock = "product.out_of_stock"
)

// OrderPlacedEvent is published when an order is placed
type OrderPlacedEvent struct {
	Version   string             `json:"version"`
	EventType string             `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	TraceID   string             `json:"trace_id"`
	Payload   OrderPlacedPayload `json:"payload"`
}

// OrderPlacedPayload contains order data
type OrderPlacedPayload struct {
	ID            uint      `json:"id"`
	OrderNumber   string    `json:"order_number"`
	CustomerPhone string    `json:"customer_phone"`
	ItemCount     int       `json:"item_count"`
	FinalAmount   float64   `json:"final_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(id uint, orderNumber, customerPhone string, itemCount int, finalAmount float64, createdAt time.Time, traceID string) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		Version:   "1.0",
		EventType: "order.placed",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: OrderPlacedPayload{
			ID:            id,
			OrderNumber:   orderNumber,
			CustomerPhone: customerPhone,
			ItemCount:     itemCount,
			FinalAmount:   finalAmount,
			CreatedAt:     createdAt,
		},
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	Version   string                `json:"version"`
	EventType string                `json:"event_type"`
	Timestamp time.Time             `json:"timestamp"`
	TraceID   string                `json:"trace_id"`
	Payload   OrderCancelledPayload `json:"payload"`
}

// OrderCancelledPayload contains cancellation data
type OrderCancelledPayload struct {
	ID          uint    `json:"id"`
	OrderNumber string  `json:"order_number"`
	Reason      string  `json:"reason"`
	FinalAmount float64 `json:"final_amount"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(id uint, orderNumber, reason string, finalAmount float64, traceID string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		Version:   "1.0",
		EventType: "order.cancelled",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: OrderCancelledPayload{
			ID:          id,
			OrderNumber: orderNumber,
			Reason:      reason,
			FinalAmount: finalAmount,
		},
	}
}

// ProductOutOfStockEvent is published when a placement drains a product's stock
type ProductOutOfStockEvent struct {
	Version   string                   `json:"version"`
	EventType string                   `json:"event_type"`
	Timestamp time.Time                `json:"timestamp"`
	TraceID   string                   `json:"trace_id"`
	Payload   ProductOutOfStockPayload `json:"payload"`
}

// ProductOutOfStockPayload identifies the drained product
type ProductOutOfStockPayload struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
}

// NewProductOutOfStockEvent creates a new ProductOutOfStockEvent
func NewProductOutOfStockEvent(productID uint, name, traceID string) *ProductOutOfStockEvent {
	return &ProductOutOfStockEvent{
		Version:   "1.0",
		EventType: "product.out_of_stock",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: ProductOutOfStockPayload{
			ProductID: productID,
			Name:      name,
		},
	}
}
