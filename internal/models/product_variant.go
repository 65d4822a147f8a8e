package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a purchasable configuration of a product (for
// example a pizza size) and carries its own price.
type ProductVariant struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Product     Product         `json:"product"`
	Name        string          `json:"name" gorm:"not null"`
	Weight      decimal.Decimal `json:"weight" gorm:"type:decimal(10,2)"`
	WeightUnits string          `json:"weight_units"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
