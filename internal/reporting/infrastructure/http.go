package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmstand/internal/reporting/application"
	"farmstand/internal/reporting/ports"
	"farmstand/pkg/errors"
)

// HTTPHandler handles HTTP requests for analytics
type HTTPHandler struct {
	useCase *application.ReportUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ReportUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers analytics routes on the admin group
func (h *HTTPHandler) RegisterRoutes(admin *gin.RouterGroup) {
	analytics := admin.Group("/analytics")
	{
		analytics.GET("/dashboard", h.Dashboard)
		analytics.GET("/sales-report", h.SalesReport)
		analytics.GET("/product-performance", h.ProductPerformance)
		analytics.GET("/customer-insights", h.CustomerInsights)
		analytics.GET("/inventory", h.Inventory)
		analytics.GET("/order-trends", h.OrderTrends)
	}
}

// Dashboard handles GET /analytics/dashboard
func (h *HTTPHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.useCase.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// dateRange parses startDate / endDate query params (YYYY-MM-DD). The end
// date is extended to the end of its day so the range is inclusive.
func dateRange(c *gin.Context, required bool) (time.Time, time.Time, error) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")

	if startStr == "" && endStr == "" && !required {
		end := time.Now()
		return end.AddDate(0, -1, 0), end, nil
	}
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.NewValidation("startDate and endDate are required", nil)
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("invalid startDate, expected YYYY-MM-DD", err.Error())
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("invalid endDate, expected YYYY-MM-DD", err.Error())
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.NewValidation("endDate must not precede startDate", nil)
	}

	return start, end.AddDate(0, 0, 1), nil
}

// SalesReport handles GET /analytics/sales-report
func (h *HTTPHandler) SalesReport(c *gin.Context) {
	start, end, err := dateRange(c, true)
	if err != nil {
		c.Error(err)
		return
	}

	granularity := ports.Granularity(c.DefaultQuery("groupBy", string(ports.GranularityDay)))
	switch granularity {
	case ports.GranularityHour, ports.GranularityDay, ports.GranularityMonth:
	default:
		c.Error(errors.NewValidation("groupBy must be hour, day or month", nil))
		return
	}

	report, err := h.useCase.SalesReport(c.Request.Context(), start, end, granularity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ProductPerformance handles GET /analytics/product-performance
func (h *HTTPHandler) ProductPerformance(c *gin.Context) {
	start, end, err := dateRange(c, false)
	if err != nil {
		c.Error(err)
		return
	}

	rows, err := h.useCase.ProductPerformance(c.Request.Context(), start, end)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": rows})
}

// CustomerInsights handles GET /analytics/customer-insights
func (h *HTTPHandler) CustomerInsights(c *gin.Context) {
	insights, err := h.useCase.CustomerInsights(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, insights)
}

// Inventory handles GET /analytics/inventory
func (h *HTTPHandler) Inventory(c *gin.Context) {
	report, err := h.useCase.Inventory(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// OrderTrends handles GET /analytics/order-trends
func (h *HTTPHandler) OrderTrends(c *gin.Context) {
	trends, err := h.useCase.OrderTrends(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}
