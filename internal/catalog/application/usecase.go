package application

import (
	"context"

	"go.uber.org/zap"

	"farmstand/internal/catalog/domain"
	"farmstand/internal/catalog/ports"
	"farmstand/pkg/errors"
	"farmstand/pkg/logger"
	"farmstand/pkg/pagination"
)

// Stock adjustment actions
const (
	StockActionIncrease = "increase"
	StockActionDecrease = "decrease"
)

// ProductUseCase handles catalog business logic
type ProductUseCase struct {
	repo              ports.ProductRepository
	log               *logger.Logger
	lowStockThreshold int
}

// NewProductUseCase creates a new product use case
func NewProductUseCase(repo ports.ProductRepository, log *logger.Logger, lowStockThreshold int) *ProductUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &ProductUseCase{
		repo:              repo,
		log:               log,
		lowStockThreshold: lowStockThreshold,
	}
}

// CreateProductInput represents the input for creating a product
type CreateProductInput struct {
	Name        string
	Price       float64
	Unit        string
	Stock       int
	Description string
	Category    string
	ImageURL    string
	IsFeatured  bool
	Discount    float64
	Origin      string
	Tags        []string
}

// CreateProduct creates a new product
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Price, domain.Unit(input.Unit), input.Stock, domain.Category(input.Category))
	if err != nil {
		return nil, err
	}

	product.Description = input.Description
	product.ImageURL = input.ImageURL
	product.IsFeatured = input.IsFeatured
	product.Discount = input.Discount
	product.Origin = input.Origin
	product.Tags = input.Tags

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock),
	)

	return product, nil
}

// GetProduct retrieves a product by ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// UpdateProductInput carries optional field updates for a product
type UpdateProductInput struct {
	Name        *string
	Price       *float64
	Unit        *string
	Stock       *int
	Description *string
	Category    *string
	ImageURL    *string
	IsAvailable *bool
	IsFeatured  *bool
	Discount    *float64
	Origin      *string
	Tags        []string
	Ratings     *domain.Ratings
}

// UpdateProduct applies an admin edit. The stock/availability invariant is
// re-enforced after the edit regardless of what the caller supplied.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*domain.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Unit != nil {
		product.Unit = domain.Unit(*input.Unit)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = domain.Category(*input.Category)
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.Discount != nil {
		product.Discount = *input.Discount
	}
	if input.Origin != nil {
		product.Origin = *input.Origin
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Ratings != nil {
		product.Ratings = *input.Ratings
	}

	if product.Stock == 0 {
		product.IsAvailable = false
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct deletes a product by ID
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.WithContext(ctx).Info("product deleted", zap.Uint("product_id", id))
	return nil
}

// ListProductsInput represents listing filters
type ListProductsInput struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Featured bool
	InStock  bool
	Sort     string
	Page     int
	Limit    int
}

// ListProductsOutput is a page of products
type ListProductsOutput struct {
	Products   []*domain.Product
	Pagination pagination.Meta
}

// ListProducts retrieves available products matching the filters
func (uc *ProductUseCase) ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsOutput, error) {
	page := pagination.Normalize(input.Page, input.Limit)

	products, total, err := uc.repo.List(ctx, ports.ListFilter{
		Category: input.Category,
		Search:   input.Search,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Featured: input.Featured,
		InStock:  input.InStock,
		Sort:     input.Sort,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	return &ListProductsOutput{
		Products:   products,
		Pagination: pagination.NewMeta(total, page),
	}, nil
}

// FeaturedProducts retrieves the featured in-stock products
func (uc *ProductUseCase) FeaturedProducts(ctx context.Context) ([]*domain.Product, error) {
	return uc.repo.Featured(ctx, 8)
}

// LowStockProducts retrieves available products at or under the threshold
func (uc *ProductUseCase) LowStockProducts(ctx context.Context, threshold int) ([]*domain.Product, error) {
	if threshold <= 0 {
		threshold = uc.lowStockThreshold
	}
	return uc.repo.LowStock(ctx, threshold)
}

// AdjustStockInput represents a manual stock adjustment
type AdjustStockInput struct {
	ProductID uint
	Quantity  int
	Action    string
}

// AdjustStock applies a manual increase or decrease through the sanctioned
// conditional mutation paths
func (uc *ProductUseCase) AdjustStock(ctx context.Context, input AdjustStockInput) (*domain.Product, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var product *domain.Product
	var err error

	switch input.Action {
	case StockActionIncrease:
		product, err = uc.repo.IncreaseStock(ctx, input.ProductID, input.Quantity)
	case StockActionDecrease:
		product, err = uc.repo.DecreaseStock(ctx, input.ProductID, input.Quantity)
	default:
		return nil, domain.ErrInvalidStockAction
	}
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("stock adjusted",
		zap.Uint("product_id", product.ID),
		zap.String("action", input.Action),
		zap.Int("quantity", input.Quantity),
		zap.Int("stock", product.Stock),
	)

	return product, nil
}

// ToggleFeatured flips a product's featured flag
func (uc *ProductUseCase) ToggleFeatured(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.IsFeatured = !product.IsFeatured

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to toggle featured flag")
	}

	return product, nil
}

// Categories lists the distinct categories in use
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.Categories(ctx)
}

// Statistics computes catalog-wide counts
func (uc *ProductUseCase) Statistics(ctx context.Context) (*ports.Statistics, error) {
	return uc.repo.Statistics(ctx, uc.lowStockThreshold)
}
