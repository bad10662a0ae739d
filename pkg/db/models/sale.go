package models

import (
	"time"

	"github.com/raidhaan/pos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Sale is an append-only record written when an order transitions into the
// completed status. Fields are copied from the order, not referenced, so the
// record survives order edits and deletions.
type Sale struct {
	ID            uint                `gorm:"column:id;primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:decimal(10,2);not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
