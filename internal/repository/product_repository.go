package repository

import (
	"context"
	"errors"

	"pizza_store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VariantDeletePolicy decides what happens when a product variant that
// historical order items still reference is deleted.
type VariantDeletePolicy string

const (
	// VariantDeleteBlock refuses the deletion while references exist.
	VariantDeleteBlock VariantDeletePolicy = "block"
	// VariantDeleteCascade removes the referencing order items in the
	// same transaction.
	VariantDeleteCascade VariantDeletePolicy = "cascade"
)

// Valid reports whether p is a known delete policy.
func (p VariantDeletePolicy) Valid() bool {
	switch p {
	case VariantDeleteBlock, VariantDeleteCascade:
		return true
	}
	return false
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetAll(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db     *gorm.DB
	policy VariantDeletePolicy
}

func NewProductRepository(db *gorm.DB, policy VariantDeletePolicy) ProductRepository {
	return &productRepository{db: db, policy: policy}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("id = ?", product.CategoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.ErrCategoryNotFound
		}

		err := tx.Omit(clause.Associations).Create(product).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrProductAlreadyExists
		}
		return err
	})
}

func (r *productRepository) GetAll(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, "id = ?", product.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrProductNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Category{}).Where("id = ?", product.CategoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.ErrCategoryNotFound
		}

		updates := map[string]interface{}{
			"name":        product.Name,
			"category_id": product.CategoryID,
			"description": product.Description,
			"image_url":   product.ImageURL,
		}
		err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrProductAlreadyExists
		}
		return err
	})
}

// Delete removes a product and its variants. Variants referenced by
// order items are handled per the configured policy.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrProductNotFound
			}
			return err
		}

		var variantIDs []uuid.UUID
		if err := tx.Model(&models.ProductVariant{}).Where("product_id = ?", id).Pluck("id", &variantIDs).Error; err != nil {
			return err
		}

		if len(variantIDs) > 0 {
			if err := deleteVariants(tx, variantIDs, r.policy); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
}

// deleteVariants removes the given variants, first dealing with order
// items that reference them according to the policy.
func deleteVariants(tx *gorm.DB, ids []uuid.UUID, policy VariantDeletePolicy) error {
	var referenced int64
	if err := tx.Model(&models.OrderItem{}).Where("product_variant_id IN ?", ids).Count(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		// Only an explicit cascade removes order history; anything
		// else, including an unknown policy value, blocks.
		if policy != VariantDeleteCascade {
			return models.ErrProductVariantInUse
		}
		if err := tx.Where("product_variant_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&models.ProductVariant{}, "id IN ?", ids).Error
}
