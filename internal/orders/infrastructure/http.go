package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"farmstand/internal/orders/application"
	"farmstand/internal/orders/domain"
	"farmstand/pkg/errors"
	"farmstand/pkg/middleware"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers order routes on the public and admin groups
func (h *HTTPHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	orders := public.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/track/:orderNumber", h.TrackOrder)
	}

	adminOrders := admin.Group("/orders")
	{
		adminOrders.GET("", h.ListOrders)
		adminOrders.GET("/recent", h.RecentOrders)
		adminOrders.GET("/customer/:phone", h.OrdersByPhone)
		adminOrders.GET("/:id", h.GetOrder)
		adminOrders.PATCH("/:id/status", h.UpdateStatus)
		adminOrders.PATCH("/:id/cancel", h.CancelOrder)
		adminOrders.PUT("/:id/delivery", h.UpdateDelivery)
	}
}

// OrderItemRequest is one cart line in a placement request
type OrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest is the request body for placing an order
type PlaceOrderRequest struct {
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone" binding:"required"`
	DeliveryAddress string             `json:"deliveryAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           string             `json:"notes"`
	Discount        float64            `json:"discount"`
	DeliveryFee     float64            `json:"deliveryFee"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
}

// UpdateStatusRequest is the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// CancelOrderRequest is the request body for a cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateDeliveryRequest is the request body for delivery detail updates
type UpdateDeliveryRequest struct {
	DeliveryDate          *time.Time `json:"deliveryDate"`
	EstimatedDeliveryTime string     `json:"estimatedDeliveryTime"`
	TrackingNumber        string     `json:"trackingNumber"`
}

// OrderItemResponse is one line item in a response
type OrderItemResponse struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// StatusEntryResponse is one status history record in a response
type StatusEntryResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UpdatedBy string `json:"updatedBy,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID                    uint                  `json:"id"`
	OrderNumber           string                `json:"orderNumber"`
	CustomerName          string                `json:"customerName"`
	CustomerEmail         string                `json:"customerEmail,omitempty"`
	CustomerPhone         string                `json:"customerPhone"`
	DeliveryAddress       string                `json:"deliveryAddress"`
	PaymentMethod         string                `json:"paymentMethod"`
	PaymentStatus         string                `json:"paymentStatus"`
	Items                 []OrderItemResponse   `json:"items"`
	TotalAmount           float64               `json:"totalAmount"`
	Discount              float64               `json:"discount"`
	DeliveryFee           float64               `json:"deliveryFee"`
	FinalAmount           float64               `json:"finalAmount"`
	Status                string                `json:"status"`
	Notes                 string                `json:"notes,omitempty"`
	DeliveryDate          *time.Time            `json:"deliveryDate,omitempty"`
	EstimatedDeliveryTime string                `json:"estimatedDeliveryTime,omitempty"`
	TrackingNumber        string                `json:"trackingNumber,omitempty"`
	CancellationReason    string                `json:"cancellationReason,omitempty"`
	StatusHistory         []StatusEntryResponse `json:"statusHistory"`
	CreatedAt             string                `json:"createdAt"`
}

// TrackOrderResponse is the minimal public tracking projection
type TrackOrderResponse struct {
	OrderNumber           string                `json:"orderNumber"`
	CustomerName          string                `json:"customerName"`
	Status                string                `json:"status"`
	StatusHistory         []StatusEntryResponse `json:"statusHistory"`
	EstimatedDeliveryTime string                `json:"estimatedDeliveryTime,omitempty"`
	TrackingNumber        string                `json:"trackingNumber,omitempty"`
	CreatedAt             string                `json:"createdAt"`
}

func toStatusEntries(entries []domain.StatusEntry) []StatusEntryResponse {
	out := make([]StatusEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = StatusEntryResponse{
			Status:    string(e.Status),
			Timestamp: e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedBy: e.UpdatedBy,
			Notes:     e.Notes,
		}
	}
	return out
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
	}

	return OrderResponse{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		CustomerName:          o.CustomerName,
		CustomerEmail:         o.CustomerEmail,
		CustomerPhone:         o.CustomerPhone,
		DeliveryAddress:       o.DeliveryAddress,
		PaymentMethod:         string(o.PaymentMethod),
		PaymentStatus:         string(o.PaymentStatus),
		Items:                 items,
		TotalAmount:           o.TotalAmount,
		Discount:              o.Discount,
		DeliveryFee:           o.DeliveryFee,
		FinalAmount:           o.FinalAmount,
		Status:                string(o.Status),
		Notes:                 o.Notes,
		DeliveryDate:          o.DeliveryDate,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		TrackingNumber:        o.TrackingNumber,
		CancellationReason:    o.CancellationReason,
		StatusHistory:         toStatusEntries(o.StatusHistory),
		CreatedAt:             o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// PlaceOrder handles POST /orders
func (h *HTTPHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	items := make([]application.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = application.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	order, err := h.useCase.PlaceOrder(c.Request.Context(), application.PlaceOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		Discount:        req.Discount,
		DeliveryFee:     req.DeliveryFee,
		Items:           items,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   toOrderResponse(order),
	})
}

// TrackOrder handles GET /orders/track/:orderNumber
func (h *HTTPHandler) TrackOrder(c *gin.Context) {
	order, err := h.useCase.TrackOrder(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, TrackOrderResponse{
		OrderNumber:           order.OrderNumber,
		CustomerName:          order.CustomerName,
		Status:                string(order.Status),
		StatusHistory:         toStatusEntries(order.StatusHistory),
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		TrackingNumber:        order.TrackingNumber,
		CreatedAt:             order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListOrders handles GET /orders
func (h *HTTPHandler) ListOrders(c *gin.Context) {
	input := application.ListOrdersInput{
		Status: c.Query("status"),
		Phone:  c.Query("phone"),
	}

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.Error(errors.NewValidation("invalid startDate, expected YYYY-MM-DD", nil))
			return
		}
		input.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.Error(errors.NewValidation("invalid endDate, expected YYYY-MM-DD", nil))
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		input.EndDate = &end
	}
	input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	output, err := h.useCase.ListOrders(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     toOrderResponses(output.Orders),
		"pagination": output.Pagination,
	})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// RecentOrders handles GET /orders/recent
func (h *HTTPHandler) RecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, err := h.useCase.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// OrdersByPhone handles GET /orders/customer/:phone
func (h *HTTPHandler) OrdersByPhone(c *gin.Context) {
	orders, err := h.useCase.OrdersByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	order, err := h.useCase.UpdateStatus(c.Request.Context(), application.UpdateStatusInput{
		OrderID:   id,
		Status:    req.Status,
		UpdatedBy: actor(c),
		Notes:     req.Notes,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   toOrderResponse(order),
	})
}

// CancelOrder handles PATCH /orders/:id/cancel
func (h *HTTPHandler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.CancelOrder(c.Request.Context(), application.CancelOrderInput{
		OrderID:   id,
		Reason:    req.Reason,
		UpdatedBy: actor(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response := gin.H{
		"message": "Order cancelled successfully",
		"order":   toOrderResponse(output.Order),
	}
	if len(output.SkippedProducts) > 0 {
		response["warning"] = "stock was not restored for deleted products"
		response["skippedProducts"] = output.SkippedProducts
	}

	c.JSON(http.StatusOK, response)
}

// UpdateDelivery handles PUT /orders/:id/delivery
func (h *HTTPHandler) UpdateDelivery(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	order, err := h.useCase.UpdateDelivery(c.Request.Context(), application.UpdateDeliveryInput{
		OrderID:               id,
		DeliveryDate:          req.DeliveryDate,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
		TrackingNumber:        req.TrackingNumber,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func actor(c *gin.Context) string {
	return "user:" + strconv.FormatUint(uint64(middleware.AuthUserID(c)), 10)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return 0, false
	}
	return uint(id), true
}
