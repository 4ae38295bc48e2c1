package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/cart"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/delivery"
	"github.com/your-org/food-delivery-backend/internal/domain/order"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	cartService *cart.Service
	service     *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{}, &catalog.Food{},
		&cart.Cart{}, &cart.LineItem{},
		&delivery.Partner{},
		&order.Order{}, &order.Item{},
	))

	category := catalog.Category{Name: "Main Course"}
	require.NoError(t, db.Create(&category).Error)
	foods := []catalog.Food{
		{Name: "Veg Burger", Price: 10000, CategoryID: category.ID, Available: true},
		{Name: "Masala Fries", Price: 5000, CategoryID: category.ID, Available: true},
	}
	require.NoError(t, db.Create(&foods).Error)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Checkout: config.CheckoutConfig{
			TaxRate:            0.18,
			DeliveryETAMinutes: 45,
		},
	}

	resolver := catalog.NewResolver(db)
	cartService := cart.NewService(db, resolver, logger)

	return &testEnv{
		db:          db,
		cfg:         cfg,
		cartService: cartService,
		service:     NewService(db, cfg, cartService, resolver, logger),
	}
}

func testAddress() order.Address {
	return order.Address{
		FullAddress: "12 MG Road",
		City:        "Bengaluru",
		Area:        "Indiranagar",
		Pincode:     "560038",
		Mobile:      "9876543210",
	}
}

func TestCreateOrder_FromCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cartService.AddItem(ctx, 1, &cart.AddItemRequest{FoodRef: "Veg Burger", Quantity: 2})
	require.NoError(t, err)
	_, err = env.cartService.AddItem(ctx, 1, &cart.AddItemRequest{FoodRef: "Masala Fries", Quantity: 1})
	require.NoError(t, err)

	got, err := env.service.CreateOrder(ctx, 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPlaced, got.Status)
	assert.Equal(t, order.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, int64(25000), got.Subtotal)
	assert.Equal(t, int64(4500), got.Tax)
	assert.Equal(t, int64(29500), got.Total)
	assert.Regexp(t, `^FD-\d{8}-[A-Z2-9]{5}$`, got.OrderNumber)
	assert.NotNil(t, got.EstimatedDeliveryTime)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Veg Burger", got.Items[0].Name)
	assert.Equal(t, int64(10000), got.Items[0].UnitPrice)

	// The cart is cleared only after the order is committed.
	userCart, err := env.cartService.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, userCart.Items)
}

func TestCreateOrder_FoodDeletedAfterAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cartService.AddItem(ctx, 1, &cart.AddItemRequest{FoodRef: "Veg Burger", Quantity: 2})
	require.NoError(t, err)

	// An admin removing the food must not corrupt a cart that already
	// holds it; the order line keeps its name and price snapshots.
	require.NoError(t, env.db.Delete(&catalog.Food{}, 1).Error)

	got, err := env.service.CreateOrder(ctx, 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Veg Burger", got.Items[0].Name)
	assert.Equal(t, int64(10000), got.Items[0].UnitPrice)
	assert.Equal(t, int64(20000), got.Subtotal)
}

func TestCreateOrder_RazorpayMarksPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cartService.AddItem(ctx, 1, &cart.AddItemRequest{FoodRef: "Veg Burger"})
	require.NoError(t, err)

	got, err := env.service.CreateOrder(ctx, 1, &CreateOrderRequest{
		Address:           testAddress(),
		PaymentMethod:     order.PaymentMethodRazorpay,
		RazorpayOrderID:   "order_abc123",
		RazorpayPaymentID: "pay_xyz789",
	})
	require.NoError(t, err)

	assert.Equal(t, order.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, "order_abc123", got.RazorpayOrderID)
	assert.Equal(t, "pay_xyz789", got.RazorpayPaymentID)
}

func TestCreateOrder_EmptyCartAndNoFallback(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, env.db.Model(&order.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrder_UnsupportedPaymentMethod(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: "bitcoin",
	})
	assert.Error(t, err)
}

func TestCreateOrder_FallbackResolved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.service.CreateOrder(ctx, 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{FoodRef: "1", Quantity: 2},
			{FoodRef: "masala fries", Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Veg Burger", got.Items[0].Name)
	require.NotNil(t, got.Items[0].FoodID)
	assert.Equal(t, uint(1), *got.Items[0].FoodID)
	assert.Equal(t, int64(25000), got.Subtotal)
}

func TestCreateOrder_FallbackResolvedWithAddOns(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{
				FoodRef:  "Veg Burger",
				Quantity: 1,
				// The client's price is ignored for resolved items; the
				// unit price is recomputed from the catalog.
				Price:         99,
				Customization: &cart.Customization{AddOns: []pricing.AddOn{{Name: "Extra Cheese", Price: 4000}}},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(14000), got.Items[0].UnitPrice)
}

func TestCreateOrder_FallbackUnresolvedWithPriceAccepted(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{Name: "Chef Special Thali", Price: 12000, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Nil(t, got.Items[0].FoodID)
	assert.Equal(t, "Chef Special Thali", got.Items[0].Name)
	assert.Equal(t, int64(12000), got.Subtotal)
	assert.Equal(t, int64(2160), got.Tax)
	assert.Equal(t, int64(14160), got.Total)
}

func TestCreateOrder_FallbackUnresolvableDropped(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{FoodRef: "Veg Burger", Quantity: 1},
			{FoodRef: "ghost-item-42", Quantity: 1}, // no name, no price
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Veg Burger", got.Items[0].Name)
}

func TestCreateOrder_FallbackAllDropped(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{FoodRef: "ghost-item-42"},
		},
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrder_StrictFallback(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Checkout.StrictFallback = true

	_, err := env.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{FoodRef: "Veg Burger", Quantity: 1},
			{FoodRef: "ghost-item-42", Quantity: 1},
		},
	})

	var unresolved *UnresolvedItemsError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"ghost-item-42"}, unresolved.Dropped)

	var count int64
	require.NoError(t, env.db.Model(&order.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrder_CartWinsOverFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cartService.AddItem(ctx, 1, &cart.AddItemRequest{FoodRef: "Veg Burger"})
	require.NoError(t, err)

	got, err := env.service.CreateOrder(ctx, 1, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: order.PaymentMethodCOD,
		FallbackItems: []FallbackItem{
			{FoodRef: "Masala Fries", Quantity: 5},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Veg Burger", got.Items[0].Name)
}
