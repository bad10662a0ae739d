package orders

import (
	"context"
	"testing"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	"github.com/raidhaan/pos-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, number string, customer *models.Customer, item *models.Item, qty int) *models.Order {
	t.Helper()

	order := &models.Order{
		OrderNumber:   number,
		CustomerID:    customer.ID,
		Status:        enums.OrderStatusPending,
		DeliveryType:  enums.DeliveryTypeDelivery,
		PaymentMethod: enums.PaymentMethodCash,
		TotalAmount:   item.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
	require.NoError(t, db.Omit("Customer", "Items").Create(order).Error)

	line := &models.OrderItem{
		OrderID:  order.ID,
		ItemID:   item.ID,
		Quantity: qty,
		Price:    item.Price,
	}
	require.NoError(t, db.Omit("Item").Create(line).Error)
	return order
}

func seedCustomer(t *testing.T, db *gorm.DB, phone int, city enums.City) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		PhoneNumber: phone,
		Address:     "Test Address",
		City:        city,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestRepositoryNextOrderNumber_seedsFromExistingOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	customer := seedCustomer(t, db, 7770001, enums.CityMale)
	item := seedItem(t, db, "Burger", "45.50")
	seedOrder(t, db, "ORD-1", customer, item, 1)
	seedOrder(t, db, "ORD-2", customer, item, 1)

	number, err := repo.NextOrderNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-3", number, "counter seeds from the existing order count")

	number, err = repo.NextOrderNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-4", number)
}

func TestRepositoryList_filtersCombine(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	customer := seedCustomer(t, db, 7770001, enums.CityMale)
	item := seedItem(t, db, "Burger", "45.50")

	matching := seedOrder(t, db, "ORD-1", customer, item, 1)
	require.NoError(t, db.Model(matching).Updates(map[string]any{
		"status":         enums.OrderStatusCompleted,
		"payment_method": enums.PaymentMethodCard,
	}).Error)
	seedOrder(t, db, "ORD-2", customer, item, 1)

	list, err := repo.List(context.Background(), ListFilter{
		Status:        enums.OrderStatusCompleted,
		DeliveryType:  enums.DeliveryTypeDelivery,
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD-1", list[0].OrderNumber)
}

func TestRepositoryList_searchMatchesAnyField(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	maleCustomer := seedCustomer(t, db, 7770001, enums.CityMale)
	hulhumaleCustomer := seedCustomer(t, db, 9995555, enums.CityHulhumalePhase2)
	burger := seedItem(t, db, "Chicken Burger", "45.50")
	salad := seedItem(t, db, "Garden Salad", "30.00")

	burgerOrder := seedOrder(t, db, "ORD-1", maleCustomer, burger, 1)
	saladOrder := seedOrder(t, db, "ORD-2", hulhumaleCustomer, salad, 1)

	list, err := repo.List(context.Background(), ListFilter{Search: "Chicken"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, burgerOrder.ID, list[0].ID)

	list, err = repo.List(context.Background(), ListFilter{Search: "99955"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saladOrder.ID, list[0].ID)

	list, err = repo.List(context.Background(), ListFilter{Search: "hulhumale phase 2"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saladOrder.ID, list[0].ID)

	list, err = repo.List(context.Background(), ListFilter{Search: "ORD-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, burgerOrder.ID, list[0].ID)

	list, err = repo.List(context.Background(), ListFilter{Search: "no such thing"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepositoryList_preloadsRelations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	customer := seedCustomer(t, db, 7770001, enums.CityMale)
	item := seedItem(t, db, "Burger", "45.50")
	seedOrder(t, db, "ORD-1", customer, item, 2)

	list, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Customer)
	require.Len(t, list[0].Items, 1)
	require.NotNil(t, list[0].Items[0].Item)
	assert.Equal(t, "Burger", list[0].Items[0].Item.Name)
}
