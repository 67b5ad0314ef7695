package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	catalogdomain "farmstand/internal/catalog/domain"
	"farmstand/internal/orders/domain"
	"farmstand/internal/orders/ports"
	"farmstand/pkg/logger"
	"farmstand/pkg/pagination"
)

// OrderUseCase handles order placement and lifecycle business logic
type OrderUseCase struct {
	repo      ports.OrderRepository
	catalog   ports.CatalogClient
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewOrderUseCase creates a new order use case
func NewOrderUseCase(
	repo ports.OrderRepository,
	catalog ports.CatalogClient,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

// OrderItemInput is one requested cart line
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// PlaceOrderInput represents the input for placing an order
type PlaceOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	PaymentMethod   string
	Notes           string
	Discount        float64
	DeliveryFee     float64
	Items           []OrderItemInput
}

// PlaceOrder validates the cart against a fresh read of every product,
// snapshots current prices into line items, and commits the order together
// with its stock decrements as one atomic unit. Client-supplied prices are
// never trusted.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	names := make(map[uint]string, len(input.Items))
	for _, requested := range input.Items {
		if requested.Quantity < 1 {
			return nil, domain.ErrInvalidItemQuantity
		}

		product, err := uc.catalog.GetProduct(ctx, requested.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < requested.Quantity {
			return nil, catalogdomain.NewInsufficientStock(product.Name, product.Stock, requested.Quantity)
		}

		names[product.ID] = product.Name
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Unit:      product.Unit,
			Quantity:  requested.Quantity,
		})
	}

	order, err := domain.NewOrder(
		domain.Customer{
			Name:    input.CustomerName,
			Email:   input.CustomerEmail,
			Phone:   input.CustomerPhone,
			Address: input.DeliveryAddress,
		},
		items,
		domain.PaymentMethod(input.PaymentMethod),
		input.Discount,
		input.DeliveryFee,
		input.Notes,
	)
	if err != nil {
		return nil, err
	}

	depleted, err := uc.repo.PlaceOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	// Events are best-effort; placement already committed.
	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderPlaced(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order placed event",
				zap.Error(err),
				zap.Uint("order_id", order.ID),
			)
		}
		for _, productID := range depleted {
			if err := uc.publisher.PublishProductOutOfStock(ctx, productID, names[productID]); err != nil {
				uc.log.WithContext(ctx).Error("failed to publish out of stock event",
					zap.Error(err),
					zap.Uint("product_id", productID),
				)
			}
		}
	}

	uc.log.WithContext(ctx).Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.Float64("final_amount", order.FinalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order by ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.repo.GetByID(ctx, id)
}

// TrackOrder retrieves an order by its human-readable number
func (uc *OrderUseCase) TrackOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return uc.repo.GetByOrderNumber(ctx, orderNumber)
}

// ListOrdersInput represents listing filters
type ListOrdersInput struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Phone     string
	Page      int
	Limit     int
}

// ListOrdersOutput is a page of orders
type ListOrdersOutput struct {
	Orders     []*domain.Order
	Pagination pagination.Meta
}

// ListOrders retrieves orders matching the filters
func (uc *OrderUseCase) ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersOutput, error) {
	page := pagination.Normalize(input.Page, input.Limit)

	orders, total, err := uc.repo.List(ctx, ports.ListFilter{
		Status:    input.Status,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Phone:     input.Phone,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	return &ListOrdersOutput{
		Orders:     orders,
		Pagination: pagination.NewMeta(total, page),
	}, nil
}

// RecentOrders retrieves the most recent orders
func (uc *OrderUseCase) RecentOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	return uc.repo.Recent(ctx, limit)
}

// OrdersByPhone retrieves a customer's orders
func (uc *OrderUseCase) OrdersByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	return uc.repo.ByCustomerPhone(ctx, phone, 20)
}

// UpdateStatusInput represents a status transition request
type UpdateStatusInput struct {
	OrderID   uint
	Status    string
	UpdatedBy string
	Notes     string
}

// UpdateStatus sets a new order status and appends to the history
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Order, error) {
	order, err := uc.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if err := order.ApplyStatus(domain.OrderStatus(input.Status), input.UpdatedBy, input.Notes); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("status", input.Status),
		zap.String("updated_by", input.UpdatedBy),
	)

	return order, nil
}

// CancelOrderInput represents a cancellation request
type CancelOrderInput struct {
	OrderID   uint
	Reason    string
	UpdatedBy string
}

// CancelOrderOutput carries the cancelled order plus any products whose
// stock could not be restored because they were deleted
type CancelOrderOutput struct {
	Order           *domain.Order
	SkippedProducts []uint
}

// CancelOrder cancels a non-delivered order and restores stock for every
// line item exactly once
func (uc *OrderUseCase) CancelOrder(ctx context.Context, input CancelOrderInput) (*CancelOrderOutput, error) {
	order, err := uc.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if err := order.ApplyCancel(input.Reason, input.UpdatedBy); err != nil {
		return nil, err
	}

	skipped, err := uc.repo.Cancel(ctx, order)
	if err != nil {
		return nil, err
	}

	if len(skipped) > 0 {
		uc.log.WithContext(ctx).Warn("stock not restored for deleted products",
			zap.Uint("order_id", order.ID),
			zap.Uints("product_ids", skipped),
		)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCancelled(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order cancelled event",
				zap.Error(err),
				zap.Uint("order_id", order.ID),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order cancelled",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", input.Reason),
	)

	return &CancelOrderOutput{Order: order, SkippedProducts: skipped}, nil
}

// UpdateDeliveryInput represents a delivery detail update
type UpdateDeliveryInput struct {
	OrderID               uint
	DeliveryDate          *time.Time
	EstimatedDeliveryTime string
	TrackingNumber        string
}

// UpdateDelivery sets delivery details on an order
func (uc *OrderUseCase) UpdateDelivery(ctx context.Context, input UpdateDeliveryInput) (*domain.Order, error) {
	order, err := uc.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if input.DeliveryDate != nil {
		order.DeliveryDate = input.DeliveryDate
	}
	if input.EstimatedDeliveryTime != "" {
		order.EstimatedDeliveryTime = input.EstimatedDeliveryTime
	}
	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}

	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}
