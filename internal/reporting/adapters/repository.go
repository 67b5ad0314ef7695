package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"farmstand/internal/reporting/ports"
	apperrors "farmstand/pkg/errors"
)

const cancelledStatus = "Cancelled"

// PostgresReportRepository reads aggregates over the order and catalog tables
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgreSQL report repository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// CountProducts counts all products
func (r *PostgresReportRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Table("products").Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to count products", result.Error)
	}
	return count, nil
}

// CountOrders counts all orders
func (r *PostgresReportRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Table("orders").Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to count orders", result.Error)
	}
	return count, nil
}

// CountCustomers counts registered customer accounts
func (r *PostgresReportRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Table("users").Where("role = ?", "customer").Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to count customers", result.Error)
	}
	return count, nil
}

// RevenueBetween sums non-cancelled orders created in [start, end)
func (r *PostgresReportRepository) RevenueBetween(ctx context.Context, start, end time.Time) (*ports.RevenueSummary, error) {
	var summary ports.RevenueSummary

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("status <> ?", cancelledStatus).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&summary)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute revenue", result.Error)
	}

	return &summary, nil
}

// StatusBreakdown counts orders per status
func (r *PostgresReportRepository) StatusBreakdown(ctx context.Context) ([]ports.StatusCount, error) {
	var rows []ports.StatusCount

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute status breakdown", result.Error)
	}

	return rows, nil
}

// TopProducts ranks products by quantity sold within the window
func (r *PostgresReportRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ports.TopProduct, error) {
	var rows []ports.TopProduct

	result := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.name, SUM(order_items.quantity) AS quantity_sold, COALESCE(SUM(order_items.subtotal), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", cancelledStatus).
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Group("order_items.product_id, order_items.name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute top products", result.Error)
	}

	return rows, nil
}

// LowStock lists products with 0 < stock <= threshold
func (r *PostgresReportRepository) LowStock(ctx context.Context, threshold int) ([]ports.LowStockProduct, error) {
	var rows []ports.LowStockProduct

	result := r.db.WithContext(ctx).
		Table("products").
		Select("id AS product_id, name, stock, unit").
		Where("stock > 0 AND stock <= ?", threshold).
		Order("stock ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list low-stock products", result.Error)
	}

	return rows, nil
}

// OutOfStockCount counts products with zero stock
func (r *PostgresReportRepository) OutOfStockCount(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Table("products").Where("stock = 0").Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to count out-of-stock products", result.Error)
	}
	return count, nil
}

// RecentOrders returns the most recently placed orders
func (r *PostgresReportRepository) RecentOrders(ctx context.Context, limit int) ([]ports.RecentOrder, error) {
	var rows []ports.RecentOrder

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("id AS order_id, order_number, customer_name, final_amount, status, created_at").
		Order("created_at DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list recent orders", result.Error)
	}

	return rows, nil
}

func periodFormat(granularity ports.Granularity) string {
	switch granularity {
	case ports.GranularityHour:
		return "YYYY-MM-DD HH24:00"
	case ports.GranularityMonth:
		return "YYYY-MM"
	default:
		return "YYYY-MM-DD"
	}
}

// SalesSeries buckets non-cancelled orders by hour, day or month
func (r *PostgresReportRepository) SalesSeries(ctx context.Context, start, end time.Time, granularity ports.Granularity) ([]ports.SalesPoint, error) {
	var rows []ports.SalesPoint

	period := fmt.Sprintf("to_char(created_at, '%s')", periodFormat(granularity))
	result := r.db.WithContext(ctx).
		Table("orders").
		Select(period + " AS period, COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS revenue, COALESCE(AVG(final_amount), 0) AS average_order").
		Where("status <> ?", cancelledStatus).
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("period").
		Order("period ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute sales series", result.Error)
	}

	return rows, nil
}

// SalesSummary totals the window including items sold
func (r *PostgresReportRepository) SalesSummary(ctx context.Context, start, end time.Time) (*ports.SalesSummary, error) {
	var summary ports.SalesSummary

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS revenue, COALESCE(AVG(final_amount), 0) AS average_order").
		Where("status <> ?", cancelledStatus).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&summary)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute sales summary", result.Error)
	}

	var items int64
	result = r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", cancelledStatus).
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Scan(&items)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to count items sold", result.Error)
	}
	summary.ItemsSold = items

	return &summary, nil
}

// ProductPerformance aggregates sales per product joined with current stock
func (r *PostgresReportRepository) ProductPerformance(ctx context.Context, start, end time.Time, limit int) ([]ports.ProductPerformance, error) {
	var rows []ports.ProductPerformance

	result := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.name, SUM(order_items.quantity) AS quantity_sold, " +
			"COALESCE(SUM(order_items.subtotal), 0) AS revenue, COUNT(DISTINCT order_items.order_id) AS order_count, " +
			"COALESCE(AVG(order_items.price), 0) AS average_price, " +
			"COALESCE(MAX(products.stock), 0) AS current_stock, BOOL_OR(COALESCE(products.is_available, FALSE)) AS is_available").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("orders.status <> ?", cancelledStatus).
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Group("order_items.product_id, order_items.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute product performance", result.Error)
	}

	return rows, nil
}

// TopCustomersByOrders ranks customers by order count
func (r *PostgresReportRepository) TopCustomersByOrders(ctx context.Context, limit int) ([]ports.CustomerStat, error) {
	return r.topCustomers(ctx, "orders DESC", limit)
}

// TopCustomersBySpend ranks customers by total spend
func (r *PostgresReportRepository) TopCustomersBySpend(ctx context.Context, limit int) ([]ports.CustomerStat, error) {
	return r.topCustomers(ctx, "total_spent DESC", limit)
}

func (r *PostgresReportRepository) topCustomers(ctx context.Context, order string, limit int) ([]ports.CustomerStat, error) {
	var rows []ports.CustomerStat

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("customer_phone AS phone, MAX(customer_name) AS name, COUNT(*) AS orders, "+
			"COALESCE(SUM(final_amount), 0) AS total_spent, COALESCE(AVG(final_amount), 0) AS average_spent").
		Where("status <> ?", cancelledStatus).
		Group("customer_phone").
		Order(order).
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute customer stats", result.Error)
	}

	return rows, nil
}

// NewCustomers finds phones whose first order is after the cutoff
func (r *PostgresReportRepository) NewCustomers(ctx context.Context, since time.Time, limit int) (int64, []ports.NewCustomer, error) {
	firstOrders := r.db.
		Table("orders").
		Select("customer_phone AS phone, MAX(customer_name) AS name, MIN(created_at) AS first_order").
		Group("customer_phone")

	var count int64
	result := r.db.WithContext(ctx).
		Table("(?) AS first_orders", firstOrders).
		Where("first_order >= ?", since).
		Count(&count)
	if result.Error != nil {
		return 0, nil, apperrors.NewInternal("failed to count new customers", result.Error)
	}

	var rows []ports.NewCustomer
	result = r.db.WithContext(ctx).
		Table("(?) AS first_orders", firstOrders).
		Where("first_order >= ?", since).
		Order("first_order DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return 0, nil, apperrors.NewInternal("failed to list new customers", result.Error)
	}

	return count, rows, nil
}

// InventoryCounts summarizes availability buckets
func (r *PostgresReportRepository) InventoryCounts(ctx context.Context, threshold int) (*ports.InventoryCounts, error) {
	var counts ports.InventoryCounts

	result := r.db.WithContext(ctx).
		Table("products").
		Select("COUNT(*) AS total, "+
			"COUNT(*) FILTER (WHERE is_available) AS available, "+
			"COUNT(*) FILTER (WHERE stock = 0) AS out_of_stock, "+
			"COUNT(*) FILTER (WHERE stock > 0 AND stock <= ?) AS low_stock", threshold).
		Scan(&counts)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute inventory counts", result.Error)
	}

	return &counts, nil
}

// InventoryByCategory breaks inventory down per category
func (r *PostgresReportRepository) InventoryByCategory(ctx context.Context) ([]ports.CategoryInventory, error) {
	var rows []ports.CategoryInventory

	result := r.db.WithContext(ctx).
		Table("products").
		Select("category, COUNT(*) AS products, COALESCE(SUM(stock), 0) AS total_stock, COALESCE(AVG(price), 0) AS average_price").
		Group("category").
		Order("category ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute category inventory", result.Error)
	}

	return rows, nil
}

// InventoryValue sums price * stock over all products
func (r *PostgresReportRepository) InventoryValue(ctx context.Context) (float64, error) {
	var value float64
	result := r.db.WithContext(ctx).
		Table("products").
		Select("COALESCE(SUM(price * stock), 0)").
		Scan(&value)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to compute inventory value", result.Error)
	}
	return value, nil
}

// OutOfStock lists products with zero stock
func (r *PostgresReportRepository) OutOfStock(ctx context.Context) ([]ports.LowStockProduct, error) {
	var rows []ports.LowStockProduct

	result := r.db.WithContext(ctx).
		Table("products").
		Select("id AS product_id, name, stock, unit").
		Where("stock = 0").
		Order("name ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list out-of-stock products", result.Error)
	}

	return rows, nil
}

// OrderTrends builds the daily series since the cutoff, cancelled orders
// counted separately and excluded from revenue
func (r *PostgresReportRepository) OrderTrends(ctx context.Context, since time.Time) ([]ports.TrendPoint, error) {
	var rows []ports.TrendPoint

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("to_char(created_at, 'YYYY-MM-DD') AS date, "+
			"COUNT(*) FILTER (WHERE status <> ?) AS orders, "+
			"COALESCE(SUM(final_amount) FILTER (WHERE status <> ?), 0) AS revenue, "+
			"COALESCE(AVG(final_amount) FILTER (WHERE status <> ?), 0) AS average_order, "+
			"COUNT(*) FILTER (WHERE status = ?) AS cancelled, "+
			"COUNT(*) FILTER (WHERE status = ?) AS delivered",
			cancelledStatus, cancelledStatus, cancelledStatus, cancelledStatus, "Delivered").
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to compute order trends", result.Error)
	}

	return rows, nil
}
