package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a sellable catalog entry. Orders reference items through OrderItem
// rows that snapshot the price at order time.
type Item struct {
	ID         uint            `gorm:"column:id;primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	CategoryID uint            `gorm:"column:category_id;not null;index"`
	Category   *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
