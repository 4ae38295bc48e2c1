package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPlaced, StatusPreparing, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusPlaced, StatusOutForDelivery, false},
		{StatusPlaced, StatusDelivered, false},
		{StatusPreparing, StatusOutForDelivery, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusPreparing, StatusPlaced, false},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusOutForDelivery, StatusPreparing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPlaced, false},
	}

	for _, tc := range cases {
		o := Order{Status: tc.from}
		assert.Equal(t, tc.allowed, o.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, (&Order{Status: StatusDelivered}).IsTerminal())
	assert.True(t, (&Order{Status: StatusCancelled}).IsTerminal())
	assert.False(t, (&Order{Status: StatusPlaced}).IsTerminal())
	assert.False(t, (&Order{Status: StatusOutForDelivery}).IsTerminal())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPlaced))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	assert.Regexp(t, `^FD-\d{8}-[A-Z2-9]{5}$`, GenerateOrderNumber())
}

func TestGenerateOrderNumber_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateOrderNumber()] = true
	}
	assert.Greater(t, len(seen), 1)
}
