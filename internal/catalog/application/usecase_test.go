package application

import (
	"context"
	"testing"

	"farmstand/internal/catalog/domain"
	"farmstand/internal/catalog/ports"
	"farmstand/pkg/errors"
	"farmstand/pkg/logger"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	products   map[uint]*domain.Product
	nextID     uint
	lastFilter ports.ListFilter
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]*domain.Product),
		nextID:   1,
	}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	product.ID = m.nextID
	m.nextID++
	m.products[product.ID] = product
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, domain.NewProductNotFound(id)
	}
	return product, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.products[id]; !ok {
		return domain.NewProductNotFound(id)
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Product, int64, error) {
	m.lastFilter = filter
	var result []*domain.Product
	for _, product := range m.products {
		if !product.IsAvailable {
			continue
		}
		if filter.Category != "" && string(product.Category) != filter.Category {
			continue
		}
		result = append(result, product)
	}
	return result, int64(len(result)), nil
}

func (m *MockProductRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, product := range m.products {
		if product.IsFeatured && product.InStock() {
			result = append(result, product)
		}
	}
	return result, nil
}

func (m *MockProductRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, product := range m.products {
		if product.Stock > 0 && product.Stock <= threshold {
			result = append(result, product)
		}
	}
	return result, nil
}

func (m *MockProductRepository) DecreaseStock(ctx context.Context, id uint, quantity int) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, domain.NewProductNotFound(id)
	}
	if product.Stock < quantity {
		return nil, domain.NewInsufficientStock(product.Name, product.Stock, quantity)
	}
	if err := product.ApplyDecrease(quantity); err != nil {
		return nil, err
	}
	return product, nil
}

func (m *MockProductRepository) IncreaseStock(ctx context.Context, id uint, quantity int) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, domain.NewProductNotFound(id)
	}
	if err := product.ApplyIncrease(quantity); err != nil {
		return nil, err
	}
	return product, nil
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, product := range m.products {
		if !seen[string(product.Category)] {
			seen[string(product.Category)] = true
			result = append(result, string(product.Category))
		}
	}
	return result, nil
}

func (m *MockProductRepository) Statistics(ctx context.Context, lowStockThreshold int) (*ports.Statistics, error) {
	stats := &ports.Statistics{}
	for _, product := range m.products {
		stats.TotalProducts++
		if product.IsAvailable {
			stats.AvailableProducts++
		}
		if product.Stock == 0 {
			stats.OutOfStock++
		} else if product.Stock <= lowStockThreshold {
			stats.LowStock++
		}
	}
	return stats, nil
}

func newTestUseCase() (*ProductUseCase, *MockProductRepository) {
	repo := NewMockProductRepository()
	log := logger.New("test", "debug", "console")
	return NewProductUseCase(repo, log, 10), repo
}

func TestCreateProduct_Success(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()

	input := CreateProductInput{
		Name:     "Fresh Spinach",
		Price:    2.50,
		Unit:     "kg",
		Stock:    15,
		Category: "vegetables",
		Tags:     []string{"organic", "leafy"},
	}

	// Act
	product, err := useCase.CreateProduct(context.Background(), input)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if product.ID != 1 {
		t.Errorf("expected ID 1, got %d", product.ID)
	}

	if !product.IsAvailable {
		t.Error("expected product with stock to be available")
	}
}

func TestCreateProduct_ZeroStockUnavailable(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()

	input := CreateProductInput{
		Name:     "Seasonal Berries",
		Price:    4.00,
		Unit:     "kg",
		Stock:    0,
		Category: "fruits",
	}

	// Act
	product, err := useCase.CreateProduct(context.Background(), input)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if product.IsAvailable {
		t.Error("expected zero-stock product to be unavailable")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Price: 1, Unit: "kg", Category: "vegetables"}},
		{"negative price", CreateProductInput{Name: "Corn", Price: -1, Unit: "kg", Category: "grains"}},
		{"bad unit", CreateProductInput{Name: "Corn", Price: 1, Unit: "bucket", Category: "grains"}},
		{"bad category", CreateProductInput{Name: "Corn", Price: 1, Unit: "kg", Category: "gadgets"}},
		{"negative stock", CreateProductInput{Name: "Corn", Price: 1, Unit: "kg", Stock: -3, Category: "grains"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := useCase.CreateProduct(context.Background(), tt.input)

			// Assert
			if !errors.Is(err, errors.CodeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProduct_ZeroStockForcesUnavailable(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Goat Cheese", Price: 8.00, Unit: "piece", Stock: 5, Category: "dairy",
	})

	zero := 0
	available := true

	// Act: the explicit availability flag loses to the zero stock
	updated, err := useCase.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Stock:       &zero,
		IsAvailable: &available,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.IsAvailable {
		t.Error("expected zero-stock product to be forced unavailable")
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()

	// Act
	_, err := useCase.UpdateProduct(context.Background(), 999, UpdateProductInput{})

	// Assert
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestAdjustStock_Decrease(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Brown Eggs", Price: 5.50, Unit: "dozen", Stock: 10, Category: "dairy",
	})

	// Act
	updated, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ProductID: product.ID,
		Quantity:  4,
		Action:    StockActionDecrease,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.Stock != 6 {
		t.Errorf("expected stock 6, got %d", updated.Stock)
	}
}

func TestAdjustStock_DecreaseToZeroFlipsAvailability(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Basmati Rice", Price: 3.20, Unit: "kg", Stock: 7, Category: "grains",
	})

	// Act
	updated, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ProductID: product.ID,
		Quantity:  7,
		Action:    StockActionDecrease,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.Stock != 0 {
		t.Errorf("expected stock 0, got %d", updated.Stock)
	}

	if updated.IsAvailable {
		t.Error("expected depleted product to be unavailable")
	}
}

func TestAdjustStock_InsufficientStock(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Honey", Price: 9.00, Unit: "liter", Stock: 2, Category: "other",
	})

	// Act
	_, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ProductID: product.ID,
		Quantity:  3,
		Action:    StockActionDecrease,
	})

	// Assert
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestAdjustStock_IncreaseRestoresAvailability(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Sweet Corn", Price: 1.25, Unit: "piece", Stock: 0, Category: "vegetables",
	})

	// Act
	updated, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ProductID: product.ID,
		Quantity:  12,
		Action:    StockActionIncrease,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.Stock != 12 {
		t.Errorf("expected stock 12, got %d", updated.Stock)
	}

	if !updated.IsAvailable {
		t.Error("expected restocked product to be available")
	}
}

func TestAdjustStock_InvalidAction(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()

	// Act
	_, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ProductID: 1,
		Quantity:  1,
		Action:    "reset",
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestToggleFeatured(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Heirloom Tomatoes", Price: 4.75, Unit: "kg", Stock: 9, Category: "vegetables",
	})

	// Act
	updated, err := useCase.ToggleFeatured(context.Background(), product.ID)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !updated.IsFeatured {
		t.Error("expected featured flag flipped on")
	}

	updated, _ = useCase.ToggleFeatured(context.Background(), product.ID)
	if updated.IsFeatured {
		t.Error("expected featured flag flipped back off")
	}
}

func TestStatistics(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	_, _ = useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Apples", Price: 2.00, Unit: "kg", Stock: 50, Category: "fruits",
	})
	_, _ = useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Pears", Price: 2.40, Unit: "kg", Stock: 3, Category: "fruits",
	})
	_, _ = useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Plums", Price: 3.10, Unit: "kg", Stock: 0, Category: "fruits",
	})

	// Act
	stats, err := useCase.Statistics(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.TotalProducts != 3 {
		t.Errorf("expected 3 products, got %d", stats.TotalProducts)
	}

	if stats.AvailableProducts != 2 {
		t.Errorf("expected 2 available, got %d", stats.AvailableProducts)
	}

	if stats.OutOfStock != 1 {
		t.Errorf("expected 1 out of stock, got %d", stats.OutOfStock)
	}

	if stats.LowStock != 1 {
		t.Errorf("expected 1 low stock, got %d", stats.LowStock)
	}
}

func TestListProducts_SortByRating(t *testing.T) {
	// Arrange
	useCase, repo := newTestUseCase()
	_, _ = useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Apples", Price: 2.50, Unit: "kg", Stock: 10, Category: "fruits",
	})

	// Act
	_, err := useCase.ListProducts(context.Background(), ListProductsInput{Sort: "rating"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if repo.lastFilter.Sort != ports.SortRating {
		t.Errorf("expected rating sort to reach the repository, got %q", repo.lastFilter.Sort)
	}
}

func TestUpdateProduct_SetsRatings(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Apples", Price: 2.50, Unit: "kg", Stock: 10, Category: "fruits",
	})

	// Act
	updated, err := useCase.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Ratings: &domain.Ratings{Average: 4.5, Count: 12},
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.Ratings.Average != 4.5 || updated.Ratings.Count != 12 {
		t.Errorf("expected ratings 4.5/12, got %+v", updated.Ratings)
	}
}

func TestUpdateProduct_InvalidRatings(t *testing.T) {
	// Arrange
	useCase, _ := newTestUseCase()
	product, _ := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name: "Apples", Price: 2.50, Unit: "kg", Stock: 10, Category: "fruits",
	})

	// Act
	_, err := useCase.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Ratings: &domain.Ratings{Average: 5.5, Count: 1},
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
