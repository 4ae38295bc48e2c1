// internal/domain/order/entity.go
package order

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/food-delivery-backend/internal/domain/cart"
	"github.com/your-org/food-delivery-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// Status represents the order status state machine:
// placed -> preparing -> out_for_delivery -> delivered, with cancelled
// reachable from any non-terminal state. delivered and cancelled are
// terminal.
type Status string

const (
	StatusPlaced         Status = "placed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// PaymentMethod represents how the order is paid
type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodCOD      PaymentMethod = "cod"
)

// PaymentStatus represents payment settlement state
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ErrOrderNotFound is returned when an order lookup misses.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderNumberConflict is returned when order number generation hits
// the uniqueness constraint; the caller retries once with a fresh
// number before failing.
var ErrOrderNumberConflict = errors.New("order number already exists")

// InvalidTransitionError reports a status update that is not reachable
// from the order's current state.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %s to %s", e.From, e.To)
}

// Order is the immutable snapshot created at checkout. Items, pricing
// and address are frozen copies; only status and payment fields change
// after creation.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`

	Status        Status        `gorm:"not null;default:'placed'" json:"status"`
	PaymentMethod PaymentMethod `gorm:"not null;size:20" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`

	// Financial information, all in paise
	Subtotal int64 `gorm:"not null" json:"subtotal"`
	Tax      int64 `gorm:"not null" json:"tax"`
	Total    int64 `gorm:"not null" json:"total"`

	// Delivery address snapshot
	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	// Gateway references (online payments only)
	RazorpayOrderID   string `gorm:"size:100" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `gorm:"size:100" json:"razorpay_payment_id,omitempty"`

	DeliveryPartnerID     *uint      `gorm:"index" json:"delivery_partner_id,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	DeliveredAt           *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items           []Item            `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	DeliveryPartner *delivery.Partner `gorm:"foreignKey:DeliveryPartnerID" json:"delivery_partner,omitempty"`
}

// Item is a frozen copy of a cart line at checkout time. It carries the
// food name and unit price snapshot so later catalog or cart changes
// never affect a placed order.
type Item struct {
	ID            uint               `gorm:"primaryKey" json:"-"`
	OrderID       uint               `gorm:"not null;index" json:"-"`
	FoodID        *uint              `gorm:"index" json:"food_id,omitempty"` // nil for client-payload lines
	Name          string             `gorm:"not null;size:255" json:"name"`
	Quantity      int                `gorm:"not null" json:"quantity"`
	UnitPrice     int64              `gorm:"not null" json:"unit_price"` // paise
	Customization cart.Customization `gorm:"serializer:json;type:text" json:"customization"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Address is the delivery address snapshot embedded in an order
type Address struct {
	FullAddress string `gorm:"size:500" json:"full_address"`
	City        string `gorm:"size:100" json:"city"`
	Area        string `gorm:"size:100" json:"area"`
	Pincode     string `gorm:"size:10" json:"pincode"`
	Mobile      string `gorm:"size:20" json:"mobile"`
}

// TableName overrides
func (Order) TableName() string { return "orders" }
func (Item) TableName() string  { return "order_items" }

var validTransitions = map[Status][]Status{
	StatusPlaced:         {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
}

// CanTransitionTo reports whether the status machine allows moving to
// the target status from the order's current state.
func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order is in a terminal state.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// ValidStatus reports whether the given string names a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPlaced, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// GetFormattedTotal returns total amount in rupees
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.Total) / 100
}

const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateOrderNumber produces a human-readable order number of the
// form FD-YYYYMMDD-XXXXX. Uniqueness is enforced by the database
// constraint; collisions surface as ErrOrderNumberConflict and the
// caller regenerates.
func GenerateOrderNumber() string {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back
		// to a timestamp so checkout can still proceed.
		return fmt.Sprintf("FD-%s-%d", time.Now().UTC().Format("20060102"), time.Now().UnixNano()%100000)
	}
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[int(suffix[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("FD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
