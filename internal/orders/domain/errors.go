package domain

import "farmstand/pkg/errors"

// Domain-specific errors
var (
	ErrCustomerNameRequired    = errors.NewValidation("customerName is required", nil)
	ErrCustomerNameTooLong     = errors.NewValidation("customerName cannot exceed 100 characters", nil)
	ErrCustomerPhoneRequired   = errors.NewValidation("customerPhone is required", nil)
	ErrCustomerEmailInvalid    = errors.NewValidation("customerEmail format is invalid", nil)
	ErrDeliveryAddressRequired = errors.NewValidation("deliveryAddress is required", nil)
	ErrNotesTooLong            = errors.NewValidation("notes cannot exceed 500 characters", nil)
	ErrNoItems                 = errors.NewValidation("order must contain at least one item", nil)
	ErrInvalidItemQuantity     = errors.NewValidation("item quantity must be at least 1", nil)
	ErrInvalidPaymentMethod    = errors.NewValidation("paymentMethod must be one of Pay on Delivery, Online, Card, UPI", nil)
	ErrNegativeAdjustment      = errors.NewValidation("discount and deliveryFee cannot be negative", nil)
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id interface{}) error {
	return errors.NewNotFound("order", id)
}

// NewUnknownStatus creates a validation error for an unrecognized status
func NewUnknownStatus(status string) error {
	return errors.NewValidation("unknown order status: "+status, nil)
}

// NewInvalidTransition creates a validation error for an illegal state change
func NewInvalidTransition(from, to string) error {
	return errors.NewValidation("cannot transition order from "+from+" to "+to, map[string]interface{}{
		"from": from,
		"to":   to,
	})
}
