package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"farmstand/internal/catalog/domain"
	"farmstand/internal/catalog/ports"
	apperrors "farmstand/pkg/errors"
)

// ProductModel is the GORM model for products (persistence layer)
type ProductModel struct {
	ID            uint                        `gorm:"primaryKey"`
	Name          string                      `gorm:"size:100;not null;index"`
	Price         float64                     `gorm:"not null"`
	Unit          string                      `gorm:"size:10;not null;default:'kg'"`
	Stock         int                         `gorm:"not null;default:0"`
	Description   string                      `gorm:"size:500"`
	Category      string                      `gorm:"size:20;not null;default:'vegetables';index:idx_products_category_available"`
	ImageURL      string                      `gorm:"size:500"`
	IsAvailable   bool                        `gorm:"not null;default:true;index:idx_products_category_available"`
	IsFeatured    bool                        `gorm:"not null;default:false"`
	Discount      float64                     `gorm:"not null;default:0"`
	Origin        string                      `gorm:"size:100"`
	Tags          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	RatingAverage float64                     `gorm:"not null;default:0"`
	RatingCount   int                         `gorm:"not null;default:0"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate runs auto-migration for the product model
func (r *PostgresProductRepository) Migrate() error {
	return r.db.AutoMigrate(&ProductModel{})
}

// Create creates a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toModel(product)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create product", result.Error)
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a product by ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	return toDomain(&model), nil
}

// Update updates an existing product
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	model := toModel(product)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update product", result.Error)
	}

	product.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete deletes a product by ID
func (r *PostgresProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewProductNotFound(id)
	}
	return nil
}

// List retrieves available products matching the filter, with the total count
func (r *PostgresProductRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{}).Where("is_available = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.InStock {
		query = query.Where("stock > ?", 0)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal("failed to count products", err)
	}

	switch filter.Sort {
	case ports.SortPriceAsc:
		query = query.Order("price ASC")
	case ports.SortPriceDesc:
		query = query.Order("price DESC")
	case ports.SortName:
		query = query.Order("name ASC")
	case ports.SortRating:
		query = query.Order("rating_average DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var models []ProductModel
	result := query.Limit(filter.Page.Limit).Offset(filter.Page.Offset()).Find(&models)
	if result.Error != nil {
		return nil, 0, apperrors.NewInternal("failed to list products", result.Error)
	}

	return toDomainSlice(models), total, nil
}

// Featured retrieves up to limit featured in-stock products
func (r *PostgresProductRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	var models []ProductModel

	result := r.db.WithContext(ctx).
		Where("is_featured = ? AND is_available = ? AND stock > ?", true, true, 0).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list featured products", result.Error)
	}

	return toDomainSlice(models), nil
}

// LowStock retrieves available products with 0 < stock <= threshold
func (r *PostgresProductRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	var models []ProductModel

	result := r.db.WithContext(ctx).
		Where("stock > ? AND stock <= ? AND is_available = ?", 0, threshold, true).
		Order("stock ASC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list low stock products", result.Error)
	}

	return toDomainSlice(models), nil
}

// DecreaseStock atomically removes quantity units if enough remain. The
// availability flip happens in the same UPDATE so the stock/availability
// invariant holds even under concurrent placements.
func (r *PostgresProductRepository) DecreaseStock(ctx context.Context, id uint, quantity int) (*domain.Product, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock - ?, is_available = (stock - ?) > 0, updated_at = NOW() WHERE id = ? AND stock >= ?",
		quantity, quantity, id, quantity,
	)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to decrease stock", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the product is gone or stock was short. Re-read to tell.
		product, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, domain.NewInsufficientStock(product.Name, product.Stock, quantity)
	}

	return r.GetByID(ctx, id)
}

// IncreaseStock atomically adds quantity units and flips availability on
func (r *PostgresProductRepository) IncreaseStock(ctx context.Context, id uint, quantity int) (*domain.Product, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock + ?, is_available = TRUE, updated_at = NOW() WHERE id = ?",
		quantity, id,
	)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to increase stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewProductNotFound(id)
	}

	return r.GetByID(ctx, id)
}

// Categories lists the distinct categories in use
func (r *PostgresProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list categories", result.Error)
	}

	return categories, nil
}

// Statistics computes catalog-wide counts
func (r *PostgresProductRepository) Statistics(ctx context.Context, lowStockThreshold int) (*ports.Statistics, error) {
	stats := &ports.Statistics{}
	model := r.db.WithContext(ctx).Model(&ProductModel{})

	if err := model.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, apperrors.NewInternal("failed to count products", err)
	}
	if err := model.Session(&gorm.Session{}).Where("is_available = ?", true).Count(&stats.AvailableProducts).Error; err != nil {
		return nil, apperrors.NewInternal("failed to count available products", err)
	}
	if err := model.Session(&gorm.Session{}).Where("stock = ?", 0).Count(&stats.OutOfStock).Error; err != nil {
		return nil, apperrors.NewInternal("failed to count out of stock products", err)
	}
	if err := model.Session(&gorm.Session{}).Where("stock > ? AND stock <= ?", 0, lowStockThreshold).Count(&stats.LowStock).Error; err != nil {
		return nil, apperrors.NewInternal("failed to count low stock products", err)
	}

	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&stats.CategoryStats)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to group products by category", result.Error)
	}

	return stats, nil
}

// toModel converts a domain entity to a GORM model
func toModel(product *domain.Product) *ProductModel {
	return &ProductModel{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		Unit:          string(product.Unit),
		Stock:         product.Stock,
		Description:   product.Description,
		Category:      string(product.Category),
		ImageURL:      product.ImageURL,
		IsAvailable:   product.IsAvailable,
		IsFeatured:    product.IsFeatured,
		Discount:      product.Discount,
		Origin:        product.Origin,
		Tags:          datatypes.NewJSONSlice(product.Tags),
		RatingAverage: product.Ratings.Average,
		RatingCount:   product.Ratings.Count,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Price:       model.Price,
		Unit:        domain.Unit(model.Unit),
		Stock:       model.Stock,
		Description: model.Description,
		Category:    domain.Category(model.Category),
		ImageURL:    model.ImageURL,
		IsAvailable: model.IsAvailable,
		IsFeatured:  model.IsFeatured,
		Discount:    model.Discount,
		Origin:      model.Origin,
		Tags:        model.Tags,
		Ratings:     domain.Ratings{Average: model.RatingAverage, Count: model.RatingCount},
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toDomainSlice(models []ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = toDomain(&models[i])
	}
	return products
}
