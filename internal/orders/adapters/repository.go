package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "farmstand/internal/catalog/domain"
	"farmstand/internal/orders/domain"
	"farmstand/internal/orders/ports"
	apperrors "farmstand/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID                    uint             `gorm:"primaryKey"`
	OrderNumber           string           `gorm:"size:16;uniqueIndex;not null"`
	CustomerName          string           `gorm:"size:100;not null"`
	CustomerEmail         string           `gorm:"size:255"`
	CustomerPhone         string           `gorm:"size:30;not null;index"`
	DeliveryAddress       string           `gorm:"size:500;not null"`
	PaymentMethod         string           `gorm:"size:20;not null;default:'Pay on Delivery'"`
	PaymentStatus         string           `gorm:"size:10;not null;default:'Pending'"`
	Items                 []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount           float64          `gorm:"not null"`
	Discount              float64          `gorm:"not null;default:0"`
	DeliveryFee           float64          `gorm:"not null;default:0"`
	FinalAmount           float64          `gorm:"not null"`
	Status                string           `gorm:"size:20;not null;default:'Pending';index:idx_orders_status_created"`
	Notes                 string           `gorm:"size:500"`
	DeliveryDate          *time.Time
	EstimatedDeliveryTime string         `gorm:"size:100"`
	TrackingNumber        string         `gorm:"size:100"`
	CancellationReason    string         `gorm:"size:500"`
	StatusHistory         datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt             time.Time      `gorm:"autoCreateTime;index:idx_orders_status_created;index"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM model for order line items. Items are owned by
// their order and cascade-deleted with it; product_id is a weak reference.
type OrderItemModel struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Name      string  `gorm:"size:100;not null"`
	Price     float64 `gorm:"not null"`
	Unit      string  `gorm:"size:10;not null"`
	Quantity  int     `gorm:"not null"`
	Subtotal  float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// PlaceOrder persists a new order atomically: order number allocation, the
// order insert and every conditional stock decrement share one transaction,
// so a short product rolls the whole placement back. A lost race on the
// daily sequence surfaces as a duplicate key and is retried once.
func (r *PostgresOrderRepository) PlaceOrder(ctx context.Context, order *domain.Order) ([]uint, error) {
	var depleted []uint

	place := func() error {
		depleted = depleted[:0]
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			prefix := domain.OrderNumberPrefix(now)

			// Highest existing sequence for today, locked for the duration
			// of this transaction. Length sorts before the string so a
			// five-digit suffix outranks every four-digit one.
			var last string
			result := tx.Raw(
				"SELECT order_number FROM orders WHERE order_number LIKE ? ORDER BY LENGTH(order_number) DESC, order_number DESC LIMIT 1 FOR UPDATE",
				prefix+"%",
			).Scan(&last)
			if result.Error != nil {
				return apperrors.NewInternal("failed to read last order number", result.Error)
			}

			order.OrderNumber = domain.NextOrderNumber(now, last)

			model, err := toModel(order)
			if err != nil {
				return err
			}

			if err := tx.Create(model).Error; err != nil {
				return err
			}

			for _, item := range order.Items {
				var newStock int
				result := tx.Raw(
					"UPDATE products SET stock = stock - ?, is_available = (stock - ?) > 0, updated_at = NOW() WHERE id = ? AND stock >= ? RETURNING stock",
					item.Quantity, item.Quantity, item.ProductID, item.Quantity,
				).Scan(&newStock)
				if result.Error != nil {
					return apperrors.NewInternal("failed to decrease stock", result.Error)
				}
				if result.RowsAffected == 0 {
					return insufficientOrMissing(tx, item)
				}
				if newStock == 0 {
					depleted = append(depleted, item.ProductID)
				}
			}

			order.ID = model.ID
			order.CreatedAt = model.CreatedAt
			order.UpdatedAt = model.UpdatedAt
			return nil
		})
	}

	err := place()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = place()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflict("order number collision, please retry")
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.NewInternal("failed to place order", err)
	}

	return depleted, nil
}

// insufficientOrMissing tells a short product apart from a deleted one
func insufficientOrMissing(tx *gorm.DB, item domain.OrderItem) error {
	var stock int
	result := tx.Raw("SELECT stock FROM products WHERE id = ?", item.ProductID).Scan(&stock)
	if result.Error != nil {
		return apperrors.NewInternal("failed to read product stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalogdomain.NewProductNotFound(item.ProductID)
	}
	return catalogdomain.NewInsufficientStock(item.Name, stock, item.Quantity)
}

// GetByID retrieves an order by ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).Preload("Items").First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toDomain(&model)
}

// GetByOrderNumber retrieves an order by its human-readable number
func (r *PostgresOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(orderNumber)
		}
		return nil, apperrors.NewInternal("failed to get order by number", result.Error)
	}

	return toDomain(&model)
}

// List retrieves orders matching the filter, newest first, with the total count
func (r *PostgresOrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Phone != "" {
		query = query.Where("customer_phone ILIKE ?", "%"+filter.Phone+"%")
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal("failed to count orders", err)
	}

	var models []OrderModel
	result := query.Preload("Items").
		Order("created_at DESC").
		Limit(filter.Page.Limit).
		Offset(filter.Page.Offset()).
		Find(&models)
	if result.Error != nil {
		return nil, 0, apperrors.NewInternal("failed to list orders", result.Error)
	}

	orders, err := toDomainSlice(models)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Recent retrieves the most recent orders
func (r *PostgresOrderRepository) Recent(ctx context.Context, limit int) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list recent orders", result.Error)
	}

	return toDomainSlice(models)
}

// ByCustomerPhone retrieves a customer's orders, newest first
func (r *PostgresOrderRepository) ByCustomerPhone(ctx context.Context, phone string, limit int) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).Preload("Items").
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list customer orders", result.Error)
	}

	return toDomainSlice(models)
}

// Update persists status, history and delivery detail changes. Items are
// immutable after placement and deliberately left out of the save.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	model, err := toModel(order)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order", result.Error)
	}

	order.UpdatedAt = model.UpdatedAt
	return nil
}

// Cancel persists a cancelled order and restores stock for its items in one
// transaction. Items whose product has since been deleted are skipped and
// reported rather than failing the cancellation.
func (r *PostgresOrderRepository) Cancel(ctx context.Context, order *domain.Order) ([]uint, error) {
	var skipped []uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := toModel(order)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return apperrors.NewInternal("failed to update cancelled order", err)
		}

		for _, item := range order.Items {
			result := tx.Exec(
				"UPDATE products SET stock = stock + ?, is_available = TRUE, updated_at = NOW() WHERE id = ?",
				item.Quantity, item.ProductID,
			)
			if result.Error != nil {
				return apperrors.NewInternal("failed to restore stock", result.Error)
			}
			if result.RowsAffected == 0 {
				skipped = append(skipped, item.ProductID)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return skipped, nil
}

// toModel converts a domain entity to GORM models
func toModel(order *domain.Order) (*OrderModel, error) {
	history, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return nil, apperrors.NewInternal("failed to encode status history", err)
	}

	items := make([]OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemModel{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
	}

	return &OrderModel{
		ID:                    order.ID,
		OrderNumber:           order.OrderNumber,
		CustomerName:          order.CustomerName,
		CustomerEmail:         order.CustomerEmail,
		CustomerPhone:         order.CustomerPhone,
		DeliveryAddress:       order.DeliveryAddress,
		PaymentMethod:         string(order.PaymentMethod),
		PaymentStatus:         string(order.PaymentStatus),
		Items:                 items,
		TotalAmount:           order.TotalAmount,
		Discount:              order.Discount,
		DeliveryFee:           order.DeliveryFee,
		FinalAmount:           order.FinalAmount,
		Status:                string(order.Status),
		Notes:                 order.Notes,
		DeliveryDate:          order.DeliveryDate,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		TrackingNumber:        order.TrackingNumber,
		CancellationReason:    order.CancellationReason,
		StatusHistory:         datatypes.JSON(history),
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}, nil
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *OrderModel) (*domain.Order, error) {
	var history []domain.StatusEntry
	if len(model.StatusHistory) > 0 {
		if err := json.Unmarshal(model.StatusHistory, &history); err != nil {
			return nil, apperrors.NewInternal("failed to decode status history", err)
		}
	}

	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
	}

	return &domain.Order{
		ID:                    model.ID,
		OrderNumber:           model.OrderNumber,
		CustomerName:          model.CustomerName,
		CustomerEmail:         model.CustomerEmail,
		CustomerPhone:         model.CustomerPhone,
		DeliveryAddress:       model.DeliveryAddress,
		PaymentMethod:         domain.PaymentMethod(model.PaymentMethod),
		PaymentStatus:         domain.PaymentStatus(model.PaymentStatus),
		Items:                 items,
		TotalAmount:           model.TotalAmount,
		Discount:              model.Discount,
		DeliveryFee:           model.DeliveryFee,
		FinalAmount:           model.FinalAmount,
		Status:                domain.OrderStatus(model.Status),
		Notes:                 model.Notes,
		DeliveryDate:          model.DeliveryDate,
		EstimatedDeliveryTime: model.EstimatedDeliveryTime,
		TrackingNumber:        model.TrackingNumber,
		CancellationReason:    model.CancellationReason,
		StatusHistory:         history,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}, nil
}

func toDomainSlice(models []OrderModel) ([]*domain.Order, error) {
	orders := make([]*domain.Order, len(models))
	for i := range models {
		order, err := toDomain(&models[i])
		if err != nil {
			return nil, err
		}
		orders[i] = order
	}
	return orders, nil
}
