package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"farmstand/internal/reporting/ports"
	"farmstand/pkg/logger"
)

const (
	topProductLimit   = 5
	recentOrderLimit  = 5
	topCustomerLimit  = 10
	newCustomerLimit  = 10
	performanceLimit  = 20
	trendWindowDays   = 30
	newCustomerWindow = 30 * 24 * time.Hour
)

// ReportUseCase implements the analytics queries
type ReportUseCase struct {
	repo              ports.ReportRepository
	log               *logger.Logger
	lowStockThreshold int
}

// NewReportUseCase creates a new report use case
func NewReportUseCase(repo ports.ReportRepository, log *logger.Logger, lowStockThreshold int) *ReportUseCase {
	return &ReportUseCase{
		repo:              repo,
		log:               log,
		lowStockThreshold: lowStockThreshold,
	}
}

// Dashboard holds the admin landing-page aggregates
type Dashboard struct {
	TotalProducts   int64                   `json:"totalProducts"`
	TotalOrders     int64                   `json:"totalOrders"`
	TotalCustomers  int64                   `json:"totalCustomers"`
	Today           ports.RevenueSummary    `json:"today"`
	Month           ports.RevenueSummary    `json:"month"`
	LastMonth       ports.RevenueSummary    `json:"lastMonth"`
	RevenueGrowth   float64                 `json:"revenueGrowth"`
	StatusBreakdown []ports.StatusCount     `json:"statusBreakdown"`
	TopProducts     []ports.TopProduct      `json:"topProducts"`
	LowStock        []ports.LowStockProduct `json:"lowStock"`
	OutOfStockCount int64                   `json:"outOfStockCount"`
	RecentOrders    []ports.RecentOrder     `json:"recentOrders"`
}

// growth returns the percentage change from previous to current, 0 when
// there is no baseline to compare against
func growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Dashboard assembles the admin dashboard
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfMonth.AddDate(0, -1, 0)

	totalProducts, err := uc.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := uc.repo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	totalCustomers, err := uc.repo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	today, err := uc.repo.RevenueBetween(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}
	month, err := uc.repo.RevenueBetween(ctx, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	lastMonth, err := uc.repo.RevenueBetween(ctx, startOfLastMonth, startOfMonth)
	if err != nil {
		return nil, err
	}

	statuses, err := uc.repo.StatusBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	topProducts, err := uc.repo.TopProducts(ctx, startOfMonth, now, topProductLimit)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.repo.LowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	outOfStock, err := uc.repo.OutOfStockCount(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.repo.RecentOrders(ctx, recentOrderLimit)
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Debug("dashboard assembled",
		zap.Int64("total_orders", totalOrders),
		zap.Int64("today_orders", today.Orders))

	return &Dashboard{
		TotalProducts:   totalProducts,
		TotalOrders:     totalOrders,
		TotalCustomers:  totalCustomers,
		Today:           *today,
		Month:           *month,
		LastMonth:       *lastMonth,
		RevenueGrowth:   growth(month.Revenue, lastMonth.Revenue),
		StatusBreakdown: statuses,
		TopProducts:     topProducts,
		LowStock:        lowStock,
		OutOfStockCount: outOfStock,
		RecentOrders:    recent,
	}, nil
}

// SalesReport is the bucketed series plus the period summary
type SalesReport struct {
	StartDate   string             `json:"startDate"`
	EndDate     string             `json:"endDate"`
	GroupBy     string             `json:"groupBy"`
	Series      []ports.SalesPoint `json:"series"`
	Summary     ports.SalesSummary `json:"summary"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// SalesReport builds the sales series for [start, end] bucketed by granularity
func (uc *ReportUseCase) SalesReport(ctx context.Context, start, end time.Time, granularity ports.Granularity) (*SalesReport, error) {
	series, err := uc.repo.SalesSeries(ctx, start, end, granularity)
	if err != nil {
		return nil, err
	}
	summary, err := uc.repo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		GroupBy:     string(granularity),
		Series:      series,
		Summary:     *summary,
		GeneratedAt: time.Now(),
	}, nil
}

// ProductPerformance ranks products by revenue over the window
func (uc *ReportUseCase) ProductPerformance(ctx context.Context, start, end time.Time) ([]ports.ProductPerformance, error) {
	return uc.repo.ProductPerformance(ctx, start, end, performanceLimit)
}

// CustomerInsights groups customer activity by phone
type CustomerInsights struct {
	TopByOrders      []ports.CustomerStat `json:"topByOrders"`
	TopBySpend       []ports.CustomerStat `json:"topBySpend"`
	NewCustomerCount int64                `json:"newCustomerCount"`
	NewCustomers     []ports.NewCustomer  `json:"newCustomers"`
}

// CustomerInsights assembles the customer rankings and the new-customer window
func (uc *ReportUseCase) CustomerInsights(ctx context.Context) (*CustomerInsights, error) {
	byOrders, err := uc.repo.TopCustomersByOrders(ctx, topCustomerLimit)
	if err != nil {
		return nil, err
	}
	bySpend, err := uc.repo.TopCustomersBySpend(ctx, topCustomerLimit)
	if err != nil {
		return nil, err
	}
	count, newest, err := uc.repo.NewCustomers(ctx, time.Now().Add(-newCustomerWindow), newCustomerLimit)
	if err != nil {
		return nil, err
	}

	return &CustomerInsights{
		TopByOrders:      byOrders,
		TopBySpend:       bySpend,
		NewCustomerCount: count,
		NewCustomers:     newest,
	}, nil
}

// InventoryReport is the stock-level snapshot
type InventoryReport struct {
	Counts     ports.InventoryCounts     `json:"counts"`
	Categories []ports.CategoryInventory `json:"categories"`
	TotalValue float64                   `json:"totalValue"`
	LowStock   []ports.LowStockProduct   `json:"lowStock"`
	OutOfStock []ports.LowStockProduct   `json:"outOfStock"`
}

// Inventory assembles the inventory report
func (uc *ReportUseCase) Inventory(ctx context.Context) (*InventoryReport, error) {
	counts, err := uc.repo.InventoryCounts(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	categories, err := uc.repo.InventoryByCategory(ctx)
	if err != nil {
		return nil, err
	}
	value, err := uc.repo.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.repo.LowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	outOfStock, err := uc.repo.OutOfStock(ctx)
	if err != nil {
		return nil, err
	}

	return &InventoryReport{
		Counts:     *counts,
		Categories: categories,
		TotalValue: value,
		LowStock:   lowStock,
		OutOfStock: outOfStock,
	}, nil
}

// OrderTrends returns the last-30-day daily series
func (uc *ReportUseCase) OrderTrends(ctx context.Context) ([]ports.TrendPoint, error) {
	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -trendWindowDays)
	return uc.repo.OrderTrends(ctx, since)
}
