package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
)

func TestLineID_Deterministic(t *testing.T) {
	addOns := []pricing.AddOn{
		{Name: "Extra Cheese", Price: 4000},
		{Name: "Olives", Price: 2000},
	}
	assert.Equal(t, LineID(7, addOns), LineID(7, addOns))
}

func TestLineID_AddOnOrderInsensitive(t *testing.T) {
	first := LineID(7, []pricing.AddOn{
		{Name: "Extra Cheese", Price: 4000},
		{Name: "Olives", Price: 2000},
	})
	second := LineID(7, []pricing.AddOn{
		{Name: "Olives", Price: 2000},
		{Name: "Extra Cheese", Price: 4000},
	})
	assert.Equal(t, first, second)
}

func TestLineID_CaseInsensitive(t *testing.T) {
	first := LineID(7, []pricing.AddOn{{Name: "Extra Cheese"}})
	second := LineID(7, []pricing.AddOn{{Name: "extra cheese"}})
	assert.Equal(t, first, second)
}

func TestLineID_DistinctSelections(t *testing.T) {
	plain := LineID(7, nil)
	withCheese := LineID(7, []pricing.AddOn{{Name: "Extra Cheese"}})
	otherFood := LineID(8, nil)

	assert.NotEqual(t, plain, withCheese)
	assert.NotEqual(t, plain, otherFood)
}

func TestNormalizeCustomization(t *testing.T) {
	normalized := NormalizeCustomization(nil)
	assert.NotNil(t, normalized.AddOns)
	assert.Empty(t, normalized.AddOns)

	normalized = NormalizeCustomization(&Customization{AddOns: []pricing.AddOn{
		{Name: "  Extra Cheese  ", Price: 4000},
		{Name: "   ", Price: 1000},
	}})
	assert.Len(t, normalized.AddOns, 1)
	assert.Equal(t, "Extra Cheese", normalized.AddOns[0].Name)
	assert.Equal(t, int64(4000), normalized.AddOns[0].Price)
}
