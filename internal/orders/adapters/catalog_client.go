package adapters

import (
	"context"

	catalogports "farmstand/internal/catalog/ports"
	"farmstand/internal/orders/ports"
)

// CatalogAdapter implements CatalogClient against the catalog repository.
// Order placement only ever sees the snapshot shape, never the full product.
type CatalogAdapter struct {
	products catalogports.ProductRepository
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(products catalogports.ProductRepository) *CatalogAdapter {
	return &CatalogAdapter{products: products}
}

// GetProduct retrieves a product's current price and stock
func (a *CatalogAdapter) GetProduct(ctx context.Context, id uint) (*ports.ProductInfo, error) {
	product, err := a.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ports.ProductInfo{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Unit:        string(product.Unit),
		Stock:       product.Stock,
		IsAvailable: product.IsAvailable,
	}, nil
}
