// internal/domain/cart/lineid.go
package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
)

// LineID derives the deterministic line-item identifier from a food id
// and its add-on selection. Add-on names are lower-cased and sorted so
// the same customization always maps to the same line, regardless of
// the order the client picked the add-ons in.
func LineID(foodID uint, addOns []pricing.AddOn) string {
	names := make([]string, 0, len(addOns))
	for _, addOn := range addOns {
		names = append(names, strings.ToLower(strings.TrimSpace(addOn.Name)))
	}
	sort.Strings(names)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", foodID, strings.Join(names, ","))))
	return hex.EncodeToString(sum[:8])
}
