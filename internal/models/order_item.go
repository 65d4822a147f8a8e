package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem references a product variant; it does not own it. The
// variant must exist when the item is written, which the order
// repository verifies inside the write transaction. Position preserves
// insertion order on reads.
type OrderItem struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID      `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductVariantID uuid.UUID      `json:"product_variant_id" gorm:"type:uuid;not null;index"`
	ProductVariant   ProductVariant `json:"product_variant"`
	Amount           int            `json:"amount" gorm:"not null"`
	Position         int            `json:"-" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TotalPrice is the variant price multiplied by the ordered amount.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.ProductVariant.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}
