// internal/domain/cart/entity.go
package cart

import (
	"strings"
	"time"

	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
)

// Cart is the per-user mutable aggregate. Total is always recomputed
// from the lines via the pricing engine, never patched incrementally.
// Version backs the compare-and-swap on save.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Total     int64      `gorm:"not null;default:0" json:"total"` // paise
	Version   int64      `gorm:"not null;default:0" json:"-"`
	Items     []LineItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LineItem is one row in the cart. Name and UnitPrice are snapshots
// captured at add time (base price + add-ons); later catalog changes do
// not touch them. LineID is derived from the food id plus the sorted
// add-on names, so identical customizations collapse into one line.
type LineItem struct {
	ID            uint          `gorm:"primaryKey" json:"-"`
	CartID        uint          `gorm:"not null;index" json:"-"`
	LineID        string        `gorm:"not null;size:64;index" json:"line_id"`
	FoodID        uint          `gorm:"not null;index" json:"food_id"`
	Name          string        `gorm:"not null;size:255" json:"name"`
	Quantity      int           `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     int64         `gorm:"not null" json:"unit_price"` // paise
	Customization Customization `gorm:"serializer:json;type:text" json:"customization"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relationships
	Food catalog.Food `gorm:"foreignKey:FoodID" json:"food,omitempty"`
}

// Customization carries the add-on selection for a line item. The shape
// is normalized at the boundary; downstream code never probes for
// optional fields.
type Customization struct {
	AddOns []pricing.AddOn `json:"add_ons"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (LineItem) TableName() string { return "cart_line_items" }

// NormalizeCustomization maps an optional, client-supplied customization
// into the canonical shape: nil becomes an empty add-on list, names are
// trimmed, and nameless add-ons are dropped. Add-on order is preserved;
// it is carried through to the order line unchanged.
func NormalizeCustomization(c *Customization) Customization {
	normalized := Customization{AddOns: []pricing.AddOn{}}
	if c == nil {
		return normalized
	}

	for _, addOn := range c.AddOns {
		name := strings.TrimSpace(addOn.Name)
		if name == "" {
			continue
		}
		normalized.AddOns = append(normalized.AddOns, pricing.AddOn{Name: name, Price: addOn.Price})
	}

	return normalized
}

// LineTotal returns unit price times quantity for this line.
func (li *LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}
