package cart

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&catalog.Category{}, &catalog.Food{}, &Cart{}, &LineItem{}))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	seedFoods(t, db)
	return NewService(db, catalog.NewResolver(db), logger), db
}

func seedFoods(t *testing.T, db *gorm.DB) {
	t.Helper()

	category := catalog.Category{Name: "Pizza"}
	require.NoError(t, db.Create(&category).Error)

	foods := []catalog.Food{
		{Name: "Margherita Pizza", Price: 29900, CategoryID: category.ID, CategoryName: category.Name, Available: true},
		{Name: "Farmhouse Pizza", Price: 39900, CategoryID: category.ID, CategoryName: category.Name, Available: true},
	}
	require.NoError(t, db.Create(&foods).Error)
}

func TestAddItem_NewLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "Margherita Pizza", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, int64(29900), got.Items[0].UnitPrice)
	assert.Equal(t, int64(59800), got.Total)
}

func TestAddItem_MergesIdenticalCustomization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customization := &Customization{AddOns: []pricing.AddOn{
		{Name: "Extra Cheese", Price: 4000},
		{Name: "Olives", Price: 2000},
	}}

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1", Quantity: 1, Customization: customization})
	require.NoError(t, err)

	// Same selection in a different order lands on the same line.
	reordered := &Customization{AddOns: []pricing.AddOn{
		{Name: "Olives", Price: 2000},
		{Name: "Extra Cheese", Price: 4000},
	}}
	got, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1", Quantity: 2, Customization: reordered})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, int64(35900), got.Items[0].UnitPrice)
	assert.Equal(t, int64(107700), got.Total)
}

func TestAddItem_DistinctCustomizationGetsOwnLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1"})
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, 1, &AddItemRequest{
		FoodRef:       "1",
		Customization: &Customization{AddOns: []pricing.AddOn{{Name: "Extra Cheese", Price: 4000}}},
	})
	require.NoError(t, err)

	assert.Len(t, got.Items, 2)
	assert.Equal(t, int64(29900+33900), got.Total)
}

func TestAddItem_UnknownRef(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), 1, &AddItemRequest{FoodRef: "No Such Dish"})
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestAddItem_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(&catalog.Food{}).Where("id = ?", 1).Update("price", 99900).Error)

	got, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(29900), got.Items[0].UnitPrice)
	assert.Equal(t, int64(29900), got.Total)
}

func TestAddItem_NameSnapshotSurvivesRename(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&catalog.Food{}).Where("id = ?", 1).Update("name", "Margherita Classic").Error)

	got, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", got.Items[0].Name)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1", Quantity: 2})
	require.NoError(t, err)

	got, err := svc.UpdateQuantity(ctx, 1, added.Items[0].LineID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.Total)
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateQuantity(context.Background(), 1, "deadbeefdeadbeef", 3)
	assert.ErrorIs(t, err, ErrLineItemNotFound)
}

func TestRemoveItem_AbsentLineIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1"})
	require.NoError(t, err)

	got, err := svc.RemoveItem(ctx, 1, "deadbeefdeadbeef")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, added.Total, got.Total)
}

func TestClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "2"})
	require.NoError(t, err)

	got, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.Total)

	// The cart row survives the clear.
	var count int64
	require.NoError(t, svc.db.Model(&Cart{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestItemCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "2", Quantity: 3})
	require.NoError(t, err)

	count, err := svc.ItemCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1"})
	require.NoError(t, err)

	other, err := svc.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestSaveCart_VersionConflict(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	got, err := svc.AddItem(ctx, 1, &AddItemRequest{FoodRef: "1"})
	require.NoError(t, err)

	stale := *got
	require.NoError(t, db.Model(&Cart{}).Where("id = ?", got.ID).
		Update("version", got.Version+1).Error)

	err = svc.saveCart(ctx, &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)
}
