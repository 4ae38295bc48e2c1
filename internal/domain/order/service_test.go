package order

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-delivery-backend/internal/domain/delivery"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&delivery.Partner{}, &Order{}, &Item{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(db, logger), db
}

func seedOrder(t *testing.T, db *gorm.DB, status Status, method PaymentMethod) *Order {
	t.Helper()

	o := &Order{
		OrderNumber:   GenerateOrderNumber(),
		UserID:        1,
		Status:        status,
		PaymentMethod: method,
		PaymentStatus: PaymentStatusPending,
		Subtotal:      25000,
		Tax:           4500,
		Total:         29500,
		Items: []Item{
			{Name: "Veg Burger", Quantity: 2, UnitPrice: 10000},
			{Name: "Masala Fries", Quantity: 1, UnitPrice: 5000},
		},
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	o := seedOrder(t, db, StatusPlaced, PaymentMethodRazorpay)

	for _, target := range []Status{StatusPreparing, StatusOutForDelivery, StatusDelivered} {
		got, err := svc.UpdateStatus(ctx, o.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, got.Status)
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	o := seedOrder(t, db, StatusPlaced, PaymentMethodCOD)

	_, err := svc.UpdateStatus(ctx, o.ID, StatusDelivered)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusPlaced, transitionErr.From)
	assert.Equal(t, StatusDelivered, transitionErr.To)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	delivered := seedOrder(t, db, StatusDelivered, PaymentMethodCOD)
	_, err := svc.UpdateStatus(ctx, delivered.ID, StatusPreparing)
	assert.Error(t, err)

	cancelled := seedOrder(t, db, StatusCancelled, PaymentMethodCOD)
	_, err = svc.UpdateStatus(ctx, cancelled.ID, StatusPlaced)
	assert.Error(t, err)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, db := newTestService(t)
	o := seedOrder(t, db, StatusPlaced, PaymentMethodCOD)

	_, err := svc.UpdateStatus(context.Background(), o.ID, "shipped")
	assert.Error(t, err)
}

func TestUpdateStatus_CancelFromAnyNonTerminal(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for _, from := range []Status{StatusPlaced, StatusPreparing, StatusOutForDelivery} {
		o := seedOrder(t, db, from, PaymentMethodCOD)
		got, err := svc.UpdateStatus(ctx, o.ID, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	}
}

func TestUpdateStatus_DeliveredSettlesCOD(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	o := seedOrder(t, db, StatusOutForDelivery, PaymentMethodCOD)

	got, err := svc.UpdateStatus(ctx, o.ID, StatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusPaid, got.PaymentStatus)
	assert.NotNil(t, got.DeliveredAt)
}

func TestUpdateStatus_DeliveredLeavesOnlinePaymentAlone(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	o := seedOrder(t, db, StatusOutForDelivery, PaymentMethodRazorpay)

	got, err := svc.UpdateStatus(ctx, o.ID, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPending, got.PaymentStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), 999, StatusPreparing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAssignDeliveryPartner(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	partner := delivery.Partner{Name: "Ravi", Phone: "9876543210", Available: true}
	require.NoError(t, db.Create(&partner).Error)

	o := seedOrder(t, db, StatusPreparing, PaymentMethodCOD)

	got, err := svc.AssignDeliveryPartner(ctx, o.ID, partner.ID)
	require.NoError(t, err)

	require.NotNil(t, got.DeliveryPartnerID)
	assert.Equal(t, partner.ID, *got.DeliveryPartnerID)
	assert.Equal(t, StatusOutForDelivery, got.Status)
	require.NotNil(t, got.DeliveryPartner)
	assert.Equal(t, "Ravi", got.DeliveryPartner.Name)
}

func TestAssignDeliveryPartner_UnknownPartner(t *testing.T) {
	svc, db := newTestService(t)
	o := seedOrder(t, db, StatusPreparing, PaymentMethodCOD)

	_, err := svc.AssignDeliveryPartner(context.Background(), o.ID, 42)
	assert.ErrorIs(t, err, delivery.ErrPartnerNotFound)
}

func TestGetPartnerActiveOrders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	partner := delivery.Partner{Name: "Ravi", Phone: "9876543210", Available: true}
	require.NoError(t, db.Create(&partner).Error)

	assigned := seedOrder(t, db, StatusPreparing, PaymentMethodCOD)
	_, err := svc.AssignDeliveryPartner(ctx, assigned.ID, partner.ID)
	require.NoError(t, err)

	done := seedOrder(t, db, StatusDelivered, PaymentMethodCOD)
	require.NoError(t, db.Model(done).Update("delivery_partner_id", partner.ID).Error)

	seedOrder(t, db, StatusPlaced, PaymentMethodCOD) // unassigned

	got, err := svc.GetPartnerActiveOrders(ctx, partner.ID)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, assigned.ID, got[0].ID)
	assert.Equal(t, StatusOutForDelivery, got[0].Status)
}

func TestGetUserOrders_ScopedToUser(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedOrder(t, db, StatusPlaced, PaymentMethodCOD)
	other := seedOrder(t, db, StatusPlaced, PaymentMethodCOD)
	require.NoError(t, db.Model(other).Update("user_id", 2).Error)

	got, err := svc.GetUserOrders(ctx, 1, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.Pagination.Total)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, uint(1), got.Orders[0].UserID)
}

func TestGetOrders_Pagination(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedOrder(t, db, StatusPlaced, PaymentMethodCOD)
	}

	got, err := svc.GetOrders(ctx, &ListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, got.Orders, 2)
	assert.Equal(t, int64(5), got.Pagination.Total)
	assert.Equal(t, 3, got.Pagination.TotalPages)
	assert.True(t, got.Pagination.HasNext)
	assert.True(t, got.Pagination.HasPrev)
}

func TestGetOrders_FilterByStatus(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedOrder(t, db, StatusPlaced, PaymentMethodCOD)
	seedOrder(t, db, StatusPreparing, PaymentMethodCOD)

	got, err := svc.GetOrders(ctx, &ListRequest{Status: StatusPreparing})
	require.NoError(t, err)

	require.Len(t, got.Orders, 1)
	assert.Equal(t, StatusPreparing, got.Orders[0].Status)
}
