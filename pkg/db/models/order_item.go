package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem links an order to a catalog item with the ordered quantity and
// the unit price snapshotted at attach time. Later catalog price changes do
// not affect existing rows.
type OrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	ItemID    uint            `gorm:"column:item_id;not null;index"`
	Item      *Item           `gorm:"foreignKey:ItemID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
