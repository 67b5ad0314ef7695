package domain

import "farmstand/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired       = errors.NewValidation("product name is required", nil)
	ErrNameTooLong        = errors.NewValidation("product name cannot exceed 100 characters", nil)
	ErrNegativePrice      = errors.NewValidation("price cannot be negative", nil)
	ErrInvalidUnit        = errors.NewValidation("unit must be one of kg, lb, piece, dozen, gram, liter", nil)
	ErrNegativeStock      = errors.NewValidation("stock cannot be negative", nil)
	ErrDescriptionTooLong = errors.NewValidation("description cannot exceed 500 characters", nil)
	ErrInvalidCategory    = errors.NewValidation("category must be one of vegetables, fruits, grains, dairy, meat, other", nil)
	ErrInvalidDiscount    = errors.NewValidation("discount must be between 0 and 100", nil)
	ErrOriginTooLong      = errors.NewValidation("origin cannot exceed 100 characters", nil)
	ErrInvalidRating      = errors.NewValidation("rating average must be between 0 and 5 with a non-negative count", nil)
	ErrInvalidQuantity    = errors.NewValidation("quantity must be greater than 0", nil)
	ErrInvalidStockAction = errors.NewValidation("action must be 'increase' or 'decrease'", nil)
)

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id uint) error {
	return errors.NewNotFound("product", id)
}

// NewInsufficientStock creates a conflict error naming the product and
// what was available versus requested
func NewInsufficientStock(name string, available, requested int) error {
	return errors.NewConflictWithDetails(
		"insufficient stock for "+name,
		map[string]interface{}{
			"product":   name,
			"available": available,
			"requested": requested,
		},
	)
}
