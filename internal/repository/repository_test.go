package repository

import (
	"context"
	"testing"

	"pizza_store/internal/database"
	"pizza_store/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with the full
// schema. A single connection keeps the in-memory database alive and
// shared across transactions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type catalogFixture struct {
	category models.Category
	product  models.Product
	small    models.ProductVariant
	large    models.ProductVariant
}

// seedCatalog creates one category with one product and two variants
// priced 2.50 and 3.70.
func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()
	ctx := context.Background()

	categoryRepo := NewCategoryRepository(db)
	productRepo := NewProductRepository(db, VariantDeleteBlock)
	variantRepo := NewProductVariantRepository(db, VariantDeleteBlock)

	category := models.Category{Name: "Pizzas"}
	require.NoError(t, categoryRepo.Create(ctx, &category))

	product := models.Product{
		Name:        "Margarita",
		CategoryID:  category.ID,
		Description: "Tomatoes, mozzarella, basil",
		ImageURL:    "https://image.url",
	}
	require.NoError(t, productRepo.Create(ctx, &product))

	small := models.ProductVariant{
		ProductID:   product.ID,
		Name:        "Small",
		Weight:      decimal.NewFromInt(350),
		WeightUnits: "g",
		Price:       decimal.RequireFromString("2.50"),
	}
	require.NoError(t, variantRepo.Create(ctx, &small))

	large := models.ProductVariant{
		ProductID:   product.ID,
		Name:        "Large",
		Weight:      decimal.NewFromInt(550),
		WeightUnits: "g",
		Price:       decimal.RequireFromString("3.70"),
	}
	require.NoError(t, variantRepo.Create(ctx, &large))

	return catalogFixture{category: category, product: product, small: small, large: large}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
