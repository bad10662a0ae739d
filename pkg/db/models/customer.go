package models

import (
	"time"

	"github.com/raidhaan/pos-backend/pkg/enums"
)

// Customer is keyed by phone number: order submissions upsert against it and
// always overwrite address and city with the latest values.
type Customer struct {
	ID          uint       `gorm:"column:id;primaryKey"`
	PhoneNumber int        `gorm:"column:phone_number;not null;uniqueIndex"`
	Address     string     `gorm:"column:address;not null"`
	City        enums.City `gorm:"column:city;type:text;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
