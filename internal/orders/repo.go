package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Item").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindHeader(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindItem(ctx context.Context, itemID uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// NextOrderNumber allocates the next sequential order number. The backing
// counter row is incremented in place, so concurrent transactions serialize
// on it instead of both deriving the same value from a count. The counter is
// seeded from the current order count the first time it is used.
func (r *repository) NextOrderNumber(ctx context.Context) (string, error) {
	db := r.db.WithContext(ctx)

	var seq models.OrderSequence
	err := db.First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var count int64
		if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
			return "", err
		}
		seq = models.OrderSequence{ID: 1, Value: count}
		if err := db.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	err = db.Model(&models.OrderSequence{}).
		Where("id = ?", seq.ID).
		Update("value", gorm.Expr("value + 1")).Error
	if err != nil {
		return "", err
	}
	if err := db.First(&seq, seq.ID).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%d", seq.Value), nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Items").Create(order).Error
}

func (r *repository) UpdateOrder(ctx context.Context, id uint, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteOrder(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Item").Create(&items).Error
}

func (r *repository) DeleteOrderItems(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Order{}).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Item")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DeliveryType != "" {
		query = query.Where("delivery_type = ?", filter.DeliveryType)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != nil && filter.To != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *filter.From, *filter.To)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		customerMatch := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Customer{}).
			Select("id").
			Where("CAST(phone_number AS TEXT) LIKE ? OR city LIKE ?", like, like)
		itemMatch := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.OrderItem{}).
			Select("order_items.order_id").
			Joins("JOIN items ON items.id = order_items.item_id").
			Where("items.name LIKE ?", like)
		query = query.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("order_number LIKE ?", like).
				Or("customer_id IN (?)", customerMatch).
				Or("id IN (?)", itemMatch),
		)
	}

	var result []models.Order
	err := query.Order("created_at DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}
