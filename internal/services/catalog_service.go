package services

import (
	"context"
	"log"

	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"github.com/google/uuid"
)

// MenuCache caches the full catalog projection; cache.MenuCache is the
// Redis implementation.
type MenuCache interface {
	GetMenu(ctx context.Context) ([]models.Product, bool, error)
	SetMenu(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// CatalogService owns categories, products and product variants. Reads
// of the full menu go through the Redis cache when one is configured;
// every write invalidates it.
type CatalogService interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateProductVariant(ctx context.Context, variant *models.ProductVariant) error
	UpdateProductVariant(ctx context.Context, variant *models.ProductVariant) error
	DeleteProductVariant(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	menuCache    MenuCache
}

// NewCatalogService wires the catalog repositories together. menuCache
// may be nil, in which case reads always hit the database.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	menuCache MenuCache,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		menuCache:    menuCache,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) GetProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	// Only the unfiltered menu is cached.
	if categoryID == nil && s.menuCache != nil {
		products, ok, err := s.menuCache.GetMenu(ctx)
		if err != nil {
			log.Printf("Menu cache read failed: %v", err)
		} else if ok {
			return products, nil
		}
	}

	products, err := s.productRepo.GetAll(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if categoryID == nil && s.menuCache != nil {
		if err := s.menuCache.SetMenu(ctx, products); err != nil {
			log.Printf("Menu cache write failed: %v", err)
		}
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) CreateProductVariant(ctx context.Context, variant *models.ProductVariant) error {
	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) UpdateProductVariant(ctx context.Context, variant *models.ProductVariant) error {
	if err := s.variantRepo.Update(ctx, variant); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogService) DeleteProductVariant(ctx context.Context, id uuid.UUID) error {
	if err := s.variantRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

// A stale menu is tolerable, a failed write is not, so cache errors are
// logged and swallowed.
func (s *catalogService) invalidateMenu(ctx context.Context) {
	if s.menuCache == nil {
		return
	}
	if err := s.menuCache.Invalidate(ctx); err != nil {
		log.Printf("Menu cache invalidation failed: %v", err)
	}
}
