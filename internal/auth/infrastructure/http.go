package infrastructure

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"farmstand/internal/auth/application"
	"farmstand/internal/auth/domain"
	"farmstand/pkg/errors"
	"farmstand/pkg/middleware"
)

// HTTPHandler handles HTTP requests for authentication
type HTTPHandler struct {
	useCase *application.AuthUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.AuthUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers auth routes on the public, protected and admin groups
func (h *HTTPHandler) RegisterRoutes(public, protected, admin *gin.RouterGroup) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", h.Me)
		protectedAuth.PUT("/me", h.UpdateProfile)
		protectedAuth.POST("/change-password", h.ChangePassword)
	}

	adminAuth := admin.Group("/auth")
	{
		adminAuth.GET("/users", h.ListUsers)
		adminAuth.PATCH("/users/:id/toggle-active", h.ToggleActive)
	}
}

// RegisterRequest is the request body for registering
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UpdateProfileRequest is the request body for a profile edit
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UserResponse is the response body for user operations
type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

func toUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

// Register handles POST /auth/register
func (h *HTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   output.Token,
		"user":    toUserResponse(output.User),
	})
}

// Login handles POST /auth/login
func (h *HTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.Login(c.Request.Context(), application.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   output.Token,
		"user":    toUserResponse(output.User),
	})
}

// Me handles GET /auth/me
func (h *HTTPHandler) Me(c *gin.Context) {
	user, err := h.useCase.GetUser(c.Request.Context(), middleware.AuthUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword handles POST /auth/change-password
func (h *HTTPHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	err := h.useCase.ChangePassword(c.Request.Context(), application.ChangePasswordInput{
		UserID:          middleware.AuthUserID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// UpdateProfile handles PUT /auth/me
func (h *HTTPHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	user, err := h.useCase.UpdateProfile(c.Request.Context(), application.UpdateProfileInput{
		UserID: middleware.AuthUserID(c),
		Name:   req.Name,
		Phone:  req.Phone,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    toUserResponse(user),
	})
}

// ListUsers handles GET /auth/users
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	input := application.ListUsersInput{Role: c.Query("role")}

	if v := c.Query("active"); v != "" {
		active := v == "true"
		input.Active = &active
	}
	input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	output, err := h.useCase.ListUsers(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      toUserResponses(output.Users),
		"pagination": output.Pagination,
	})
}

// ToggleActive handles PATCH /auth/users/:id/toggle-active
func (h *HTTPHandler) ToggleActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid user id", nil))
		return
	}

	user, err := h.useCase.ToggleActive(c.Request.Context(), uint(id))
	if err != nil {
		c.Error(err)
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user":    toUserResponse(user),
	})
}
