package ports

import (
	"context"

	"farmstand/internal/catalog/domain"
	"farmstand/pkg/pagination"
)

// Sort options for product listings
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
	SortRating    = "rating"
)

// ListFilter narrows a product listing
type ListFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Featured bool
	InStock  bool
	Sort     string
	Page     pagination.Params
}

// CategoryStat is a per-category product count
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Statistics summarizes the catalog for the admin dashboard
type Statistics struct {
	TotalProducts     int64          `json:"totalProducts"`
	AvailableProducts int64          `json:"availableProducts"`
	OutOfStock        int64          `json:"outOfStock"`
	LowStock          int64          `json:"lowStock"`
	CategoryStats     []CategoryStat `json:"categoryStats"`
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uint) (*domain.Product, error)

	// Update updates an existing product
	Update(ctx context.Context, product *domain.Product) error

	// Delete deletes a product by ID
	Delete(ctx context.Context, id uint) error

	// List retrieves available products matching the filter, with the total count
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, int64, error)

	// Featured retrieves up to limit featured in-stock products
	Featured(ctx context.Context, limit int) ([]*domain.Product, error)

	// LowStock retrieves available products with 0 < stock <= threshold
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)

	// DecreaseStock atomically removes quantity units if enough remain,
	// flipping availability off at zero. Fails with a conflict otherwise.
	DecreaseStock(ctx context.Context, id uint, quantity int) (*domain.Product, error)

	// IncreaseStock atomically adds quantity units and flips availability on
	IncreaseStock(ctx context.Context, id uint, quantity int) (*domain.Product, error)

	// Categories lists the distinct categories in use
	Categories(ctx context.Context) ([]string, error)

	// Statistics computes catalog-wide counts
	Statistics(ctx context.Context, lowStockThreshold int) (*Statistics, error)
}
