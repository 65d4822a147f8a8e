package repository

import (
	"context"
	"errors"

	"pizza_store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository is the sole owner of order consistency. Create and
// Update run as single all-or-nothing transactions: either the header
// and every item are persisted, or nothing is.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetAll(ctx context.Context, status *models.OrderStatus) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVariantsExist(tx, order.Items); err != nil {
			return err
		}

		items := order.Items
		order.Items = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}

		if err := insertItems(tx, order.ID, items); err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The header must exist before anything is touched, so a
		// nonexistent order never loses items it does not have.
		var existing models.Order
		if err := tx.First(&existing, "id = ?", order.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOrderNotFound
			}
			return err
		}

		if err := checkVariantsExist(tx, order.Items); err != nil {
			return err
		}

		// The item set is replaced wholesale, not diffed.
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"phone":   order.Phone,
			"address": order.Address,
			"note":    order.Note,
			"status":  order.Status,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		return insertItems(tx, order.ID, order.Items)
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.position ASC")
		}).
		Preload("Items.ProductVariant.Product.Category").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll(ctx context.Context, status *models.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.position ASC")
		}).
		Preload("Items.ProductVariant.Product.Category").
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

// checkVariantsExist fails the surrounding transaction with
// ErrProductVariantNotFound unless every referenced variant id
// resolves to a stored product variant.
func checkVariantsExist(tx *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if _, ok := seen[items[i].ProductVariantID]; ok {
			continue
		}
		seen[items[i].ProductVariantID] = struct{}{}
		ids = append(ids, items[i].ProductVariantID)
	}

	var count int64
	if err := tx.Model(&models.ProductVariant{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return models.ErrProductVariantNotFound
	}
	return nil
}

func insertItems(tx *gorm.DB, orderID uuid.UUID, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].OrderID = orderID
		items[i].Position = i
		items[i].ProductVariant = models.ProductVariant{}
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}
