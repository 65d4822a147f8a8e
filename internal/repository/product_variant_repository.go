package repository

import (
	"context"
	"errors"

	"pizza_store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductVariantRepository interface {
	Create(ctx context.Context, variant *models.ProductVariant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	Update(ctx context.Context, variant *models.ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productVariantRepository struct {
	db     *gorm.DB
	policy VariantDeletePolicy
}

func NewProductVariantRepository(db *gorm.DB, policy VariantDeletePolicy) ProductVariantRepository {
	return &productVariantRepository{db: db, policy: policy}
}

func (r *productVariantRepository) Create(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", variant.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.ErrProductNotFound
		}
		return tx.Omit(clause.Associations).Create(variant).Error
	})
}

func (r *productVariantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		First(&variant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductVariantNotFound
		}
		return nil, err
	}
	return &variant, nil
}

func (r *productVariantRepository) Update(ctx context.Context, variant *models.ProductVariant) error {
	updates := map[string]interface{}{
		"name":         variant.Name,
		"weight":       variant.Weight,
		"weight_units": variant.WeightUnits,
		"price":        variant.Price,
	}
	result := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variant.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProductVariantNotFound
	}
	return nil
}

// Delete honors the variant delete policy: with "block" a variant that
// order items still reference stays put, with "cascade" those items go
// with it.
func (r *productVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variant models.ProductVariant
		if err := tx.First(&variant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrProductVariantNotFound
			}
			return err
		}
		return deleteVariants(tx, []uuid.UUID{id}, r.policy)
	})
}
