package models

// OrderSequence is a single-row counter backing order number allocation. It
// is incremented atomically inside the order creation transaction, which
// removes the duplicate-number race a bare count(+1) scheme has.
type OrderSequence struct {
	ID    uint  `gorm:"column:id;primaryKey"`
	Value int64 `gorm:"column:value;not null"`
}
