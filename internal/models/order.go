package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus values are not constrained to a transition graph: any
// status may overwrite any other via an explicit update.
type OrderStatus string

const (
	OrderUncompleted OrderStatus = "UNCOMPLETED"
	OrderCompleted   OrderStatus = "COMPLETED"
	OrderCancelled   OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderUncompleted, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a customer order together with its owned items. An order
// and its items are written in one transaction and never partially
// exist.
type Order struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Phone     string      `json:"phone" gorm:"not null"`
	Address   string      `json:"address"`
	Note      string      `json:"note" gorm:"type:text"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'UNCOMPLETED'"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TotalPrice sums the item totals. An order without items prices at 0.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalPrice())
	}
	return total
}
