package models

import (
	"time"

	"github.com/raidhaan/pos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is the header row for a customer order. TotalAmount is derived from
// the line items and never accepted from the caller. OrderNumber is assigned
// once at creation and never changes.
type Order struct {
	ID                      uint                `gorm:"column:id;primaryKey"`
	OrderNumber             string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID              uint                `gorm:"column:customer_id;not null;index"`
	Customer                *Customer           `gorm:"foreignKey:CustomerID"`
	Status                  enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	DeliveryType            enums.DeliveryType  `gorm:"column:delivery_type;type:text;not null"`
	PaymentMethod           enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	TransferReferenceNumber *string             `gorm:"column:transfer_reference_number"`
	TotalAmount             decimal.Decimal     `gorm:"column:total_amount;type:decimal(10,2);not null"`
	Items                   []OrderItem         `gorm:"foreignKey:OrderID"`
	CreatedAt               time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
