package orders

import (
	"context"
	"time"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	"github.com/raidhaan/pos-backend/pkg/enums"
	"gorm.io/gorm"
)

// ListFilter narrows the order list query. Exact-match fields are applied
// only when non-empty; the date range only when both ends are set. Search is
// matched against order number, customer phone/city, and item names.
type ListFilter struct {
	Status        enums.OrderStatus
	DeliveryType  enums.DeliveryType
	PaymentMethod enums.PaymentMethod
	From          *time.Time
	To            *time.Time
	Search        string
}

// Repository defines the data-store surface the order lifecycle needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindHeader(ctx context.Context, id uint) (*models.Order, error)
	FindItem(ctx context.Context, itemID uint) (*models.Item, error)

	NextOrderNumber(ctx context.Context) (string, error)

	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, id uint, updates map[string]any) error
	DeleteOrder(ctx context.Context, id uint) error

	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrderItems(ctx context.Context, orderID uint) error

	List(ctx context.Context, filter ListFilter) ([]models.Order, error)

	CreateSale(ctx context.Context, sale *models.Sale) error
}
