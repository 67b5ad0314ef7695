package application

import (
	"context"
	"testing"
	"time"

	"farmstand/internal/orders/domain"
	"farmstand/internal/orders/ports"
	"farmstand/pkg/errors"
	"farmstand/pkg/logger"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	orders       map[uint]*domain.Order
	nextID       uint
	depleted     []uint
	cancelCalls  int
	skipOnCancel []uint
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]*domain.Order),
		nextID: 1,
	}
}

func (m *MockOrderRepository) PlaceOrder(ctx context.Context, order *domain.Order) ([]uint, error) {
	order.ID = m.nextID
	order.OrderNumber = domain.FormatOrderNumber(time.Now(), int(m.nextID))
	m.nextID++
	m.orders[order.ID] = order
	return m.depleted, nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	return order, nil
}

func (m *MockOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	for _, order := range m.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, domain.NewOrderNotFound(orderNumber)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if filter.Status != "" && string(order.Status) != filter.Status {
			continue
		}
		result = append(result, order)
	}
	return result, int64(len(result)), nil
}

func (m *MockOrderRepository) Recent(ctx context.Context, limit int) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if len(result) == limit {
			break
		}
		result = append(result, order)
	}
	return result, nil
}

func (m *MockOrderRepository) ByCustomerPhone(ctx context.Context, phone string, limit int) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if order.CustomerPhone == phone {
			result = append(result, order)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) Cancel(ctx context.Context, order *domain.Order) ([]uint, error) {
	m.cancelCalls++
	m.orders[order.ID] = order
	return m.skipOnCancel, nil
}

// MockCatalogClient is a mock implementation of CatalogClient
type MockCatalogClient struct {
	products map[uint]*ports.ProductInfo
}

func NewMockCatalogClient() *MockCatalogClient {
	return &MockCatalogClient{
		products: map[uint]*ports.ProductInfo{
			1: {ID: 1, Name: "Tomatoes", Price: 3.50, Unit: "kg", Stock: 20, IsAvailable: true},
			2: {ID: 2, Name: "Eggs", Price: 6.00, Unit: "dozen", Stock: 2, IsAvailable: true},
		},
	}
}

func (m *MockCatalogClient) GetProduct(ctx context.Context, id uint) (*ports.ProductInfo, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, errors.NewNotFound("product", id)
	}
	return product, nil
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	placed     []*domain.Order
	cancelled  []*domain.Order
	outOfStock []uint
}

func (m *MockEventPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	m.placed = append(m.placed, order)
	return nil
}

func (m *MockEventPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	m.cancelled = append(m.cancelled, order)
	return nil
}

func (m *MockEventPublisher) PublishProductOutOfStock(ctx context.Context, productID uint, name string) error {
	m.outOfStock = append(m.outOfStock, productID)
	return nil
}

func newTestUseCase() (*OrderUseCase, *MockOrderRepository, *MockCatalogClient, *MockEventPublisher) {
	repo := NewMockOrderRepository()
	catalog := NewMockCatalogClient()
	publisher := &MockEventPublisher{}
	log := logger.New("test", "debug", "console")
	return NewOrderUseCase(repo, catalog, publisher, log), repo, catalog, publisher
}

func placeInput() PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:    "Jane Smith",
		CustomerPhone:   "+15550001111",
		DeliveryAddress: "12 Orchard Lane",
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	// Arrange
	useCase, _, _, publisher := newTestUseCase()

	// Act
	order, err := useCase.PlaceOrder(context.Background(), placeInput())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.ID != 1 {
		t.Errorf("expected ID 1, got %d", order.ID)
	}

	if order.OrderNumber == "" {
		t.Error("expected an order number to be assigned")
	}

	// 2 * 3.50 + 1 * 6.00
	if order.TotalAmount != 13.00 {
		t.Errorf("expected total 13.00, got %f", order.TotalAmount)
	}

	if order.FinalAmount != 13.00 {
		t.Errorf("expected final amount 13.00, got %f", order.FinalAmount)
	}

	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected status Pending, got %s", order.Status)
	}

	if len(order.StatusHistory) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(order.StatusHistory))
	}

	if len(publisher.placed) != 1 {
		t.Errorf("expected 1 order placed event, got %d", len(publisher.placed))
	}
}

func TestPlaceOrder_SnapshotsCatalogPrices(t *testing.T) {
	// Arrange
	useCase, _, catalog, _ := newTestUseCase()

	// Act
	order, err := useCase.PlaceOrder(context.Background(), placeInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Later catalog edits must not alter the stored line items
	catalog.products[1].Price = 99.99

	// Assert
	if order.Items[0].Price != 3.50 {
		t.Errorf("expected snapshotted price 3.50, got %f", order.Items[0].Price)
	}

	if order.Items[0].Subtotal != 7.00 {
		t.Errorf("expected subtotal 7.00, got %f", order.Items[0].Subtotal)
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	// Arrange
	useCase, repo, _, publisher := newTestUseCase()

	input := placeInput()
	input.Items = []OrderItemInput{{ProductID: 2, Quantity: 5}} // only 2 in stock

	// Act
	_, err := useCase.PlaceOrder(context.Background(), input)

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}

	if len(repo.orders) != 0 {
		t.Errorf("expected no order persisted, got %d", len(repo.orders))
	}

	if len(publisher.placed) != 0 {
		t.Errorf("expected no events, got %d", len(publisher.placed))
	}
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()

	input := placeInput()
	input.Items = []OrderItemInput{{ProductID: 999, Quantity: 1}}

	// Act
	_, err := useCase.PlaceOrder(context.Background(), input)

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestPlaceOrder_NoItems(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()

	input := placeInput()
	input.Items = nil

	// Act
	_, err := useCase.PlaceOrder(context.Background(), input)

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPlaceOrder_PublishesOutOfStock(t *testing.T) {
	// Arrange
	useCase, repo, _, publisher := newTestUseCase()
	repo.depleted = []uint{2}

	input := placeInput()
	input.Items = []OrderItemInput{{ProductID: 2, Quantity: 2}} // drains product 2

	// Act
	_, err := useCase.PlaceOrder(context.Background(), input)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(publisher.outOfStock) != 1 || publisher.outOfStock[0] != 2 {
		t.Errorf("expected out-of-stock event for product 2, got %v", publisher.outOfStock)
	}
}

func TestUpdateStatus_AppendsHistory(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	// Act
	order, err := useCase.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:   placed.ID,
		Status:    "Shipped",
		UpdatedBy: "user:1",
		Notes:     "left the farm",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.Status != domain.OrderStatusShipped {
		t.Errorf("expected status Shipped, got %s", order.Status)
	}

	if len(order.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(order.StatusHistory))
	}

	last := order.StatusHistory[len(order.StatusHistory)-1]
	if last.UpdatedBy != "user:1" || last.Notes != "left the farm" {
		t.Errorf("expected actor and notes recorded, got %+v", last)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	// Act
	_, err := useCase.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: placed.ID,
		Status:  "Teleported",
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCancelOrder_Success(t *testing.T) {
	// Arrange
	useCase, repo, _, publisher := newTestUseCase()
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	// Act
	output, err := useCase.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   placed.ID,
		Reason:    "customer changed mind",
		UpdatedBy: "user:1",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output.Order.Status != domain.OrderStatusCancelled {
		t.Errorf("expected status Cancelled, got %s", output.Order.Status)
	}

	if output.Order.CancellationReason != "customer changed mind" {
		t.Errorf("expected reason recorded, got %q", output.Order.CancellationReason)
	}

	if repo.cancelCalls != 1 {
		t.Errorf("expected exactly 1 cancel call, got %d", repo.cancelCalls)
	}

	if len(publisher.cancelled) != 1 {
		t.Errorf("expected 1 order cancelled event, got %d", len(publisher.cancelled))
	}
}

func TestCancelOrder_AlreadyCancelled(t *testing.T) {
	// Arrange
	useCase, repo, _, _ := newTestUseCase()
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	input := CancelOrderInput{OrderID: placed.ID, Reason: "first", UpdatedBy: "user:1"}
	if _, err := useCase.CancelOrder(context.Background(), input); err != nil {
		t.Fatalf("expected first cancel to succeed, got %v", err)
	}

	// Act
	_, err := useCase.CancelOrder(context.Background(), input)

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	if repo.cancelCalls != 1 {
		t.Errorf("expected stock restored exactly once, got %d cancel calls", repo.cancelCalls)
	}
}

func TestCancelOrder_Delivered(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	_, err := useCase.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: placed.ID,
		Status:  "Delivered",
	})
	if err != nil {
		t.Fatalf("expected status update to succeed, got %v", err)
	}

	// Act
	_, err = useCase.CancelOrder(context.Background(), CancelOrderInput{
		OrderID: placed.ID,
		Reason:  "too late",
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCancelOrder_SkippedProductsSurfaced(t *testing.T) {
	// Arrange
	useCase, repo, _, _ := newTestUseCase()
	repo.skipOnCancel = []uint{1}
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	// Act
	output, err := useCase.CancelOrder(context.Background(), CancelOrderInput{
		OrderID: placed.ID,
		Reason:  "product discontinued",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(output.SkippedProducts) != 1 || output.SkippedProducts[0] != 1 {
		t.Errorf("expected product 1 reported as skipped, got %v", output.SkippedProducts)
	}
}

func TestTrackOrder_Success(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()
	placed, _ := useCase.PlaceOrder(context.Background(), placeInput())

	// Act
	order, err := useCase.TrackOrder(context.Background(), placed.OrderNumber)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.ID != placed.ID {
		t.Errorf("expected order %d, got %d", placed.ID, order.ID)
	}
}

func TestTrackOrder_NotFound(t *testing.T) {
	// Arrange
	useCase, _, _, _ := newTestUseCase()

	// Act
	_, err := useCase.TrackOrder(context.Background(), "ORD2601010001")

	// Assert
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
