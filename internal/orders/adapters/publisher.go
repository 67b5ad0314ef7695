package adapters

import (
	"context"

	"farmstand/internal/orders/domain"
	"farmstand/pkg/events"
	"farmstand/pkg/logger"
	"farmstand/pkg/rabbitmq"
)

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishOrderPlaced publishes an order placed event
func (p *RabbitMQPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewOrderPlacedEvent(
		order.ID,
		order.OrderNumber,
		order.CustomerPhone,
		len(order.Items),
		order.FinalAmount,
		order.CreatedAt,
		traceID,
	)

	return p.publisher.Publish(ctx, events.RoutingKeyOrderPlaced, event)
}

// PublishOrderCancelled publishes an order cancelled event
func (p *RabbitMQPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewOrderCancelledEvent(
		order.ID,
		order.OrderNumber,
		order.CancellationReason,
		order.FinalAmount,
		traceID,
	)

	return p.publisher.Publish(ctx, events.RoutingKeyOrderCancelled, event)
}

// PublishProductOutOfStock publishes an out-of-stock alert
func (p *RabbitMQPublisher) PublishProductOutOfStock(ctx context.Context, productID uint, name string) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewProductOutOfStockEvent(productID, name, traceID)

	return p.publisher.Publish(ctx, events.RoutingKeyProductOutOfStock, event)
}
