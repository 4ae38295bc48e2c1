package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newResolverTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Category{}, &Food{}))

	category := Category{Name: "Pizza"}
	require.NoError(t, db.Create(&category).Error)

	foods := []Food{
		{Name: "Margherita Pizza", Price: 29900, CategoryID: category.ID, Available: true},
		{Name: "Farmhouse Pizza", Price: 39900, CategoryID: category.ID, Available: true, Popular: true},
		{Name: "Paneer Tikka", Price: 24900, CategoryID: category.ID, Available: true},
	}
	require.NoError(t, db.Create(&foods).Error)

	return db
}

func TestResolver_ByID(t *testing.T) {
	r := NewResolver(newResolverTestDB(t))
	ctx := context.Background()

	res := r.ByID(ctx, "1")
	require.True(t, res.Found)
	assert.Equal(t, ResolveByID, res.Strategy)
	assert.Equal(t, "Margherita Pizza", res.Food.Name)

	assert.False(t, r.ByID(ctx, "999").Found)
	assert.False(t, r.ByID(ctx, "Margherita Pizza").Found)
}

func TestResolver_ByExactName(t *testing.T) {
	r := NewResolver(newResolverTestDB(t))
	ctx := context.Background()

	res := r.ByExactName(ctx, "margherita pizza")
	require.True(t, res.Found)
	assert.Equal(t, ResolveByExactName, res.Strategy)
	assert.Equal(t, uint(1), res.Food.ID)

	assert.False(t, r.ByExactName(ctx, "Margherita").Found)
	assert.False(t, r.ByExactName(ctx, "").Found)
}

func TestResolver_ByFuzzyName(t *testing.T) {
	r := NewResolver(newResolverTestDB(t))
	ctx := context.Background()

	res := r.ByFuzzyName(ctx, "tikka")
	require.True(t, res.Found)
	assert.Equal(t, ResolveByFuzzyName, res.Strategy)
	assert.Equal(t, "Paneer Tikka", res.Food.Name)

	// Ambiguous matches prefer popular items.
	res = r.ByFuzzyName(ctx, "pizza")
	require.True(t, res.Found)
	assert.Equal(t, "Farmhouse Pizza", res.Food.Name)

	assert.False(t, r.ByFuzzyName(ctx, "biryani").Found)
}

func TestResolveCartRef_IDWinsOverName(t *testing.T) {
	r := NewResolver(newResolverTestDB(t))

	res := r.ResolveCartRef(context.Background(), "2")
	require.True(t, res.Found)
	assert.Equal(t, ResolveByID, res.Strategy)
	assert.Equal(t, "Farmhouse Pizza", res.Food.Name)
}

func TestResolveCartRef_NoFuzzyFallback(t *testing.T) {
	r := NewResolver(newResolverTestDB(t))
	ctx := context.Background()

	// A partial name resolves for checkout fallbacks but not for the cart.
	assert.False(t, r.ResolveCartRef(ctx, "Margherita").Found)
	assert.True(t, r.ResolveCheckoutRef(ctx, "Margherita").Found)
}

func TestResolveCheckoutRef_StrategyOrder(t *testing.T) {
	r := NewResolver(newResolverTestDB(t))
	ctx := context.Background()

	assert.Equal(t, ResolveByID, r.ResolveCheckoutRef(ctx, "3").Strategy)
	assert.Equal(t, ResolveByExactName, r.ResolveCheckoutRef(ctx, "Paneer Tikka").Strategy)
	assert.Equal(t, ResolveByFuzzyName, r.ResolveCheckoutRef(ctx, "Paneer").Strategy)
	assert.False(t, r.ResolveCheckoutRef(ctx, "Dosa").Found)
}
