package infrastructure

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"farmstand/internal/catalog/application"
	"farmstand/internal/catalog/domain"
	"farmstand/pkg/errors"
)

// HTTPHandler handles HTTP requests for the product catalog
type HTTPHandler struct {
	useCase *application.ProductUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ProductUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers catalog routes on the public and admin groups
func (h *HTTPHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	products := public.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/featured", h.FeaturedProducts)
		products.GET("/categories", h.Categories)
		products.GET("/:id", h.GetProduct)
	}

	adminProducts := admin.Group("/products")
	{
		adminProducts.POST("", h.CreateProduct)
		adminProducts.PUT("/:id", h.UpdateProduct)
		adminProducts.DELETE("/:id", h.DeleteProduct)
		adminProducts.PATCH("/:id/stock", h.AdjustStock)
		adminProducts.PATCH("/:id/featured", h.ToggleFeatured)
		adminProducts.GET("/low-stock", h.LowStockProducts)
		adminProducts.GET("/statistics", h.Statistics)
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	IsFeatured  bool     `json:"isFeatured"`
	Discount    float64  `json:"discount"`
	Origin      string   `json:"origin"`
	Tags        []string `json:"tags"`
}

// UpdateProductRequest is the request body for updating a product
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
	IsAvailable *bool    `json:"isAvailable"`
	IsFeatured  *bool    `json:"isFeatured"`
	Discount    *float64 `json:"discount"`
	Origin      *string  `json:"origin"`
	Tags        []string `json:"tags"`
	Ratings     *Ratings `json:"ratings"`
}

// Ratings is the aggregated customer rating block on product payloads
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// AdjustStockRequest is the request body for a manual stock adjustment
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// ProductResponse is the response body for product operations
type ProductResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	FinalPrice  float64  `json:"finalPrice"`
	Unit        string   `json:"unit"`
	Stock       int      `json:"stock"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	IsAvailable bool     `json:"isAvailable"`
	InStock     bool     `json:"inStock"`
	IsFeatured  bool     `json:"isFeatured"`
	Discount    float64  `json:"discount"`
	Origin      string   `json:"origin,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Ratings     Ratings  `json:"ratings"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		FinalPrice:  p.FinalPrice(),
		Unit:        string(p.Unit),
		Stock:       p.Stock,
		Description: p.Description,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		IsAvailable: p.IsAvailable,
		InStock:     p.InStock(),
		IsFeatured:  p.IsFeatured,
		Discount:    p.Discount,
		Origin:      p.Origin,
		Tags:        p.Tags,
		Ratings:     Ratings{Average: p.Ratings.Average, Count: p.Ratings.Count},
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toProductResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// ListProducts handles GET /products
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	input := application.ListProductsInput{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: c.Query("featured") == "true",
		InStock:  c.Query("inStock") == "true",
		Sort:     c.Query("sort"),
	}

	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.Error(errors.NewValidation("invalid minPrice", nil))
			return
		}
		input.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.Error(errors.NewValidation("invalid maxPrice", nil))
			return
		}
		input.MaxPrice = &price
	}
	input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	output, err := h.useCase.ListProducts(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   toProductResponses(output.Products),
		"pagination": output.Pagination,
	})
}

// GetProduct handles GET /products/:id
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// FeaturedProducts handles GET /products/featured
func (h *HTTPHandler) FeaturedProducts(c *gin.Context) {
	products, err := h.useCase.FeaturedProducts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toProductResponses(products))
}

// Categories handles GET /products/categories
func (h *HTTPHandler) Categories(c *gin.Context) {
	categories, err := h.useCase.Categories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateProduct handles POST /products
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsFeatured:  req.IsFeatured,
		Discount:    req.Discount,
		Origin:      req.Origin,
		Tags:        req.Tags,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /products/:id
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), id, application.UpdateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
		IsFeatured:  req.IsFeatured,
		Discount:    req.Discount,
		Origin:      req.Origin,
		Tags:        req.Tags,
		Ratings:     toRatingsInput(req.Ratings),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

func toRatingsInput(r *Ratings) *domain.Ratings {
	if r == nil {
		return nil
	}
	return &domain.Ratings{Average: r.Average, Count: r.Count}
}

// DeleteProduct handles DELETE /products/:id
func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AdjustStock handles PATCH /products/:id/stock
func (h *HTTPHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.AdjustStock(c.Request.Context(), application.AdjustStockInput{
		ProductID: id,
		Quantity:  req.Quantity,
		Action:    req.Action,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// ToggleFeatured handles PATCH /products/:id/featured
func (h *HTTPHandler) ToggleFeatured(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.useCase.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// LowStockProducts handles GET /products/low-stock
func (h *HTTPHandler) LowStockProducts(c *gin.Context) {
	threshold, _ := strconv.Atoi(c.DefaultQuery("threshold", "0"))

	products, err := h.useCase.LowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toProductResponses(products))
}

// Statistics handles GET /products/statistics
func (h *HTTPHandler) Statistics(c *gin.Context) {
	stats, err := h.useCase.Statistics(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid product id", nil))
		return 0, false
	}
	return uint(id), true
}
