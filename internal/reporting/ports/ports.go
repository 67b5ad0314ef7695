package ports

import (
	"context"
	"time"
)

// Granularity controls how sales series rows are bucketed
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// RevenueSummary aggregates orders and revenue over a window
type RevenueSummary struct {
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// StatusCount is one row of the order status breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TopProduct is one row of the best-sellers ranking
type TopProduct struct {
	ProductID    uint    `json:"productId"`
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
}

// LowStockProduct is a product at or below the low-stock threshold
type LowStockProduct struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Unit      string `json:"unit"`
}

// RecentOrder is a compact order projection for the dashboard feed
type RecentOrder struct {
	OrderID      uint      `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	CustomerName string    `json:"customerName"`
	FinalAmount  float64   `json:"finalAmount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SalesPoint is one bucket of a sales time series
type SalesPoint struct {
	Period       string  `json:"period"`
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
	AverageOrder float64 `json:"averageOrderValue"`
}

// SalesSummary totals a sales report window
type SalesSummary struct {
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
	ItemsSold    int64   `json:"itemsSold"`
	AverageOrder float64 `json:"averageOrderValue"`
}

// ProductPerformance aggregates sales per product over a window
type ProductPerformance struct {
	ProductID    uint    `json:"productId"`
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
	OrderCount   int64   `json:"orderCount"`
	AveragePrice float64 `json:"averagePrice"`
	CurrentStock int     `json:"currentStock"`
	IsAvailable  bool    `json:"isAvailable"`
}

// CustomerStat aggregates orders per customer phone
type CustomerStat struct {
	Phone        string  `json:"phone"`
	Name         string  `json:"name"`
	Orders       int64   `json:"orders"`
	TotalSpent   float64 `json:"totalSpent"`
	AverageSpent float64 `json:"averageSpent"`
}

// NewCustomer is a customer whose first order falls in the window
type NewCustomer struct {
	Phone      string    `json:"phone"`
	Name       string    `json:"name"`
	FirstOrder time.Time `json:"firstOrder"`
}

// CategoryInventory is the per-category inventory breakdown
type CategoryInventory struct {
	Category     string  `json:"category"`
	Products     int64   `json:"products"`
	TotalStock   int64   `json:"totalStock"`
	AveragePrice float64 `json:"averagePrice"`
}

// InventoryCounts summarizes product availability buckets
type InventoryCounts struct {
	Total      int64 `json:"total"`
	Available  int64 `json:"available"`
	OutOfStock int64 `json:"outOfStock"`
	LowStock   int64 `json:"lowStock"`
}

// TrendPoint is one day of the order trend series
type TrendPoint struct {
	Date         string  `json:"date"`
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
	AverageOrder float64 `json:"averageOrderValue"`
	Cancelled    int64   `json:"cancelled"`
	Delivered    int64   `json:"delivered"`
}

// ReportRepository reads aggregates from the order and catalog tables.
// Revenue figures exclude cancelled orders.
type ReportRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	RevenueBetween(ctx context.Context, start, end time.Time) (*RevenueSummary, error)
	StatusBreakdown(ctx context.Context) ([]StatusCount, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProduct, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockProduct, error)
	OutOfStockCount(ctx context.Context) (int64, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)

	SalesSeries(ctx context.Context, start, end time.Time, granularity Granularity) ([]SalesPoint, error)
	SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error)

	ProductPerformance(ctx context.Context, start, end time.Time, limit int) ([]ProductPerformance, error)

	TopCustomersByOrders(ctx context.Context, limit int) ([]CustomerStat, error)
	TopCustomersBySpend(ctx context.Context, limit int) ([]CustomerStat, error)
	NewCustomers(ctx context.Context, since time.Time, limit int) (int64, []NewCustomer, error)

	InventoryCounts(ctx context.Context, threshold int) (*InventoryCounts, error)
	InventoryByCategory(ctx context.Context) ([]CategoryInventory, error)
	InventoryValue(ctx context.Context) (float64, error)
	OutOfStock(ctx context.Context) ([]LowStockProduct, error)

	OrderTrends(ctx context.Context, since time.Time) ([]TrendPoint, error)
}
