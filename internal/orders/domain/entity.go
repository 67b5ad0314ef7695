package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPacked     OrderStatus = "Packed"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validStatuses = map[OrderStatus]bool{
	OrderStatusPending: true, OrderStatusConfirmed: true, OrderStatusProcessing: true,
	OrderStatusPacked: true, OrderStatusShipped: true, OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s OrderStatus) bool {
	return validStatuses[s]
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentPayOnDelivery PaymentMethod = "Pay on Delivery"
	PaymentOnline        PaymentMethod = "Online"
	PaymentCard          PaymentMethod = "Card"
	PaymentUPI           PaymentMethod = "UPI"
)

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentPayOnDelivery: true, PaymentOnline: true, PaymentCard: true, PaymentUPI: true,
}

// PaymentStatus tracks payment settlement
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusFailed   PaymentStatus = "Failed"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

// OrderItem is an order's embedded snapshot of one purchased product.
// Name, price and unit are captured at placement time so later product
// edits never alter historical orders.
type OrderItem struct {
	ProductID uint
	Name      string
	Price     float64
	Unit      string
	Quantity  int
	Subtotal  float64
}

// StatusEntry is one append-only status history record
type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	UpdatedBy string      `json:"updatedBy,omitempty"`
	Notes     string      `json:"notes,omitempty"`
}

// Order represents the order domain entity
type Order struct {
	ID                    uint
	OrderNumber           string
	CustomerName          string
	CustomerEmail         string
	CustomerPhone         string
	DeliveryAddress       string
	PaymentMethod         PaymentMethod
	PaymentStatus         PaymentStatus
	Items                 []OrderItem
	TotalAmount           float64
	Discount              float64
	DeliveryFee           float64
	FinalAmount           float64
	Status                OrderStatus
	Notes                 string
	DeliveryDate          *time.Time
	EstimatedDeliveryTime string
	TrackingNumber        string
	CancellationReason    string
	StatusHistory         []StatusEntry
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Validate validates the order entity
func (o *Order) Validate() error {
	if o.CustomerName == "" {
		return ErrCustomerNameRequired
	}
	if len(o.CustomerName) > 100 {
		return ErrCustomerNameTooLong
	}
	if o.CustomerPhone == "" {
		return ErrCustomerPhoneRequired
	}
	if o.CustomerEmail != "" && !emailRegex.MatchString(o.CustomerEmail) {
		return ErrCustomerEmailInvalid
	}
	if o.DeliveryAddress == "" {
		return ErrDeliveryAddressRequired
	}
	if len(o.Notes) > 500 {
		return ErrNotesTooLong
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return ErrInvalidItemQuantity
		}
	}
	if !validPaymentMethods[o.PaymentMethod] {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// Customer groups the checkout contact fields
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewOrder creates a new order from snapshotted items. Subtotals, the order
// total and the final amount are computed here and fixed for the order's
// lifetime; the status history starts with the creation entry.
func NewOrder(customer Customer, items []OrderItem, paymentMethod PaymentMethod, discount, deliveryFee float64, notes string) (*Order, error) {
	if paymentMethod == "" {
		paymentMethod = PaymentPayOnDelivery
	}
	if discount < 0 || deliveryFee < 0 {
		return nil, ErrNegativeAdjustment
	}

	now := time.Now()

	var total float64
	for i := range items {
		items[i].Subtotal = items[i].Price * float64(items[i].Quantity)
		total += items[i].Subtotal
	}

	order := &Order{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		DeliveryAddress: customer.Address,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   PaymentStatusPending,
		Items:           items,
		TotalAmount:     total,
		Discount:        discount,
		DeliveryFee:     deliveryFee,
		FinalAmount:     total - discount + deliveryFee,
		Status:          OrderStatusPending,
		Notes:           notes,
		StatusHistory: []StatusEntry{{
			Status:    OrderStatusPending,
			Timestamp: now,
			Notes:     "Order created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// ApplyStatus sets a new status and appends to the history. Any known
// status may be set directly; the model is intentionally permissive.
func (o *Order) ApplyStatus(newStatus OrderStatus, updatedBy, notes string) error {
	if !ValidStatus(newStatus) {
		return NewUnknownStatus(string(newStatus))
	}

	o.Status = newStatus
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    newStatus,
		Timestamp: time.Now(),
		UpdatedBy: updatedBy,
		Notes:     notes,
	})
	o.UpdatedAt = time.Now()
	return nil
}

// CanCancel reports whether cancellation is still allowed
func (o *Order) CanCancel() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}

// ApplyCancel marks the order cancelled, recording the reason. Delivered
// and already-cancelled orders are rejected so stock is never restored twice.
func (o *Order) ApplyCancel(reason, updatedBy string) error {
	if !o.CanCancel() {
		return NewInvalidTransition(string(o.Status), string(OrderStatusCancelled))
	}

	o.CancellationReason = reason
	return o.ApplyStatus(OrderStatusCancelled, updatedBy, reason)
}

// Order number format: ORD + yymmdd + daily sequence, zero-padded to 4
// digits. Past 9999 the sequence simply grows a digit, so the suffix is
// parsed by position rather than by a fixed width.

const orderNumberPrefixLen = len("ORDyymmdd")

// OrderNumberPrefix returns the ORDyymmdd prefix for a date
func OrderNumberPrefix(t time.Time) string {
	return fmt.Sprintf("ORD%02d%02d%02d", t.Year()%100, int(t.Month()), t.Day())
}

// FormatOrderNumber builds a full order number for a date and daily sequence
func FormatOrderNumber(t time.Time, sequence int) string {
	return fmt.Sprintf("%s%04d", OrderNumberPrefix(t), sequence)
}

// SequenceFromOrderNumber extracts the daily sequence suffix, or 0 if the
// number is malformed
func SequenceFromOrderNumber(orderNumber string) int {
	if len(orderNumber) <= orderNumberPrefixLen {
		return 0
	}
	seq, err := strconv.Atoi(orderNumber[orderNumberPrefixLen:])
	if err != nil {
		return 0
	}
	return seq
}

// NextOrderNumber allocates the number following last for date t. A last
// number from an earlier day, or no last number at all, restarts the daily
// sequence at 1.
func NextOrderNumber(t time.Time, last string) string {
	sequence := 1
	if strings.HasPrefix(last, OrderNumberPrefix(t)) {
		sequence = SequenceFromOrderNumber(last) + 1
	}
	return FormatOrderNumber(t, sequence)
}
