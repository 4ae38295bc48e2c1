// internal/domain/pricing/pricing.go
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All monetary amounts are in paise (int64). Tax math goes through
// decimal so that rounding is round-half-up instead of float truncation.

// DefaultTaxRate is the flat GST rate applied to order subtotals.
var DefaultTaxRate = decimal.NewFromFloat(0.18)

// AddOn is a paid customization attached to a line item.
type AddOn struct {
	Name  string `json:"name"`
	Price int64  `json:"price"` // paise
}

// Line is the minimal shape the pricing engine needs from a cart or
// order line. Callers map their own line types into this.
type Line struct {
	UnitPrice int64
	Quantity  int
}

// InvalidPriceError reports a negative price reaching the pricing engine.
// Negative prices are never clamped; the operation fails.
type InvalidPriceError struct {
	Field string
	Value int64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price for %s: %d", e.Field, e.Value)
}

// LineUnitPrice computes the frozen unit price snapshot for a line item:
// catalog base price plus the sum of add-on prices.
func LineUnitPrice(basePrice int64, addOns []AddOn) (int64, error) {
	if basePrice < 0 {
		return 0, &InvalidPriceError{Field: "base price", Value: basePrice}
	}

	unitPrice := basePrice
	for _, addOn := range addOns {
		if addOn.Price < 0 {
			return 0, &InvalidPriceError{Field: fmt.Sprintf("add-on %q", addOn.Name), Value: addOn.Price}
		}
		unitPrice += addOn.Price
	}

	return unitPrice, nil
}

// CartTotal computes sum(unitPrice * quantity) over all lines.
// Returns 0 for an empty collection.
func CartTotal(lines []Line) int64 {
	var total int64
	for _, line := range lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// ApplyTax computes subtotal * rate rounded half-up to whole paise.
func ApplyTax(subtotal int64, rate decimal.Decimal) int64 {
	// decimal.Round rounds half away from zero, which is half-up for
	// the non-negative amounts this pipeline produces.
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}

// OrderTotal computes the grand total from subtotal and tax.
func OrderTotal(subtotal, tax int64) int64 {
	return subtotal + tax
}
