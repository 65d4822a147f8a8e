package services

import (
	"context"
	"errors"
	"testing"

	"pizza_store/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMenuCache struct {
	menu        []models.Product
	cached      bool
	invalidated int
	getErr      error
	setErr      error
}

func (c *fakeMenuCache) GetMenu(ctx context.Context) ([]models.Product, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.menu, c.cached, nil
}

func (c *fakeMenuCache) SetMenu(ctx context.Context, products []models.Product) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.menu = products
	c.cached = true
	return nil
}

func (c *fakeMenuCache) Invalidate(ctx context.Context) error {
	c.menu = nil
	c.cached = false
	c.invalidated++
	return nil
}

type fakeCategoryRepository struct{}

func (r *fakeCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return nil
}

func (r *fakeCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (r *fakeCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return nil, models.ErrCategoryNotFound
}

func (r *fakeCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return nil
}

func (r *fakeCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeProductRepository struct {
	products    []models.Product
	getAllCalls int
}

func (r *fakeProductRepository) Create(ctx context.Context, product *models.Product) error {
	return nil
}

func (r *fakeProductRepository) GetAll(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	r.getAllCalls++
	return r.products, nil
}

func (r *fakeProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, models.ErrProductNotFound
}

func (r *fakeProductRepository) Update(ctx context.Context, product *models.Product) error {
	return nil
}

func (r *fakeProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeVariantRepository struct{}

func (r *fakeVariantRepository) Create(ctx context.Context, variant *models.ProductVariant) error {
	return nil
}

func (r *fakeVariantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	return nil, models.ErrProductVariantNotFound
}

func (r *fakeVariantRepository) Update(ctx context.Context, variant *models.ProductVariant) error {
	return nil
}

func (r *fakeVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func newTestCatalogService(menuCache MenuCache) (CatalogService, *fakeProductRepository) {
	productRepo := &fakeProductRepository{
		products: []models.Product{
			{ID: uuid.New(), Name: "Margarita"},
			{ID: uuid.New(), Name: "Pepperoni"},
		},
	}
	svc := NewCatalogService(&fakeCategoryRepository{}, productRepo, &fakeVariantRepository{}, menuCache)
	return svc, productRepo
}

func TestCatalogServiceMenuReadThrough(t *testing.T) {
	menuCache := &fakeMenuCache{}
	svc, productRepo := newTestCatalogService(menuCache)
	ctx := context.Background()

	first, err := svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, productRepo.getAllCalls)
	assert.True(t, menuCache.cached)

	// The second read is served from the cache.
	second, err := svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, productRepo.getAllCalls)
}

func TestCatalogServiceFilteredReadSkipsCache(t *testing.T) {
	menuCache := &fakeMenuCache{}
	svc, productRepo := newTestCatalogService(menuCache)
	ctx := context.Background()
	categoryID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.GetProducts(ctx, &categoryID)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, productRepo.getAllCalls)
	assert.False(t, menuCache.cached)
}

func TestCatalogServiceWritesInvalidateMenu(t *testing.T) {
	menuCache := &fakeMenuCache{}
	svc, productRepo := newTestCatalogService(menuCache)
	ctx := context.Background()

	_, err := svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	require.True(t, menuCache.cached)

	// Every catalog write drops the cached menu.
	require.NoError(t, svc.CreateCategory(ctx, &models.Category{Name: "Drinks"}))
	assert.Equal(t, 1, menuCache.invalidated)
	assert.False(t, menuCache.cached)

	require.NoError(t, svc.UpdateProduct(ctx, &models.Product{ID: uuid.New(), Name: "Margarita"}))
	require.NoError(t, svc.DeleteProductVariant(ctx, uuid.New()))
	assert.Equal(t, 3, menuCache.invalidated)

	// The next menu read goes back to the database.
	_, err = svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, productRepo.getAllCalls)
}

func TestCatalogServiceCacheErrorFallsThrough(t *testing.T) {
	menuCache := &fakeMenuCache{getErr: errors.New("redis down")}
	svc, productRepo := newTestCatalogService(menuCache)

	products, err := svc.GetProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, productRepo.getAllCalls)
}

func TestCatalogServiceNilCache(t *testing.T) {
	svc, productRepo := newTestCatalogService(nil)
	ctx := context.Background()

	products, err := svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	require.NoError(t, svc.CreateCategory(ctx, &models.Category{Name: "Drinks"}))

	_, err = svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, productRepo.getAllCalls)
}
