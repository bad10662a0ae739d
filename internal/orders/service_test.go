package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/raidhaan/pos-backend/internal/customers"
	"github.com/raidhaan/pos-backend/pkg/db/models"
	"github.com/raidhaan/pos-backend/pkg/enums"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sqliteTx struct {
	db *gorm.DB
}

func (s *sqliteTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Item{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderSequence{},
		&models.Sale{},
	))
	return db
}

func newService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), customers.NewRepository(db), &sqliteTx{db: db})
	require.NoError(t, err)
	return svc
}

func seedItem(t *testing.T, db *gorm.DB, name, price string) *models.Item {
	t.Helper()

	category := &models.Category{Name: "Category for " + name}
	require.NoError(t, db.Create(category).Error)

	item := &models.Item{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func validInput(items ...LineItemInput) OrderInput {
	return OrderInput{
		PhoneNumber:   7771234,
		Address:       "H. Sunrise, 2nd Floor",
		City:          "male",
		Status:        "pending",
		DeliveryType:  "delivery",
		PaymentMethod: "cash",
		Items:         items,
	}
}

func TestServiceCreate_derivesTotalFromCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")
	fries := seedItem(t, db, "Fries", "15.00")

	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 2},
		LineItemInput{ItemID: fries.ID, Quantity: 3},
	))
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.OrderNumber)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("136.00")),
		"expected 136.00, got %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	require.NotNil(t, order.Customer)
	assert.Equal(t, 7771234, order.Customer.PhoneNumber)
}

func TestServiceCreate_snapshotsPriceAtOrderTime(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Item{}).
		Where("id = ?", burger.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	reloaded, err := svc.Show(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("45.50")))
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("45.50")))
}

func TestServiceCreate_upsertsCustomerByPhone(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	first, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.NoError(t, err)

	in := validInput(LineItemInput{ItemID: burger.ID, Quantity: 1})
	in.Address = "Hulhumale Lot 10203"
	in.City = "hulhumale phase 1"
	second, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var customer models.Customer
	require.NoError(t, db.First(&customer, first.CustomerID).Error)
	assert.Equal(t, "Hulhumale Lot 10203", customer.Address)
	assert.Equal(t, enums.CityHulhumalePhase1, customer.City)
}

func TestServiceCreate_sequentialOrderNumbers(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	for i := 1; i <= 3; i++ {
		order, err := svc.Create(context.Background(), validInput(
			LineItemInput{ItemID: burger.ID, Quantity: 1},
		))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%d", i), order.OrderNumber)
	}
}

func TestServiceCreate_reportsAllInvalidFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	_, err := svc.Create(context.Background(), OrderInput{
		PhoneNumber: 123,
		City:        "atlantis",
		Status:      "done",
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "phone_number")
	assert.Contains(t, details, "address")
	assert.Contains(t, details, "city")
	assert.Contains(t, details, "status")
	assert.Contains(t, details, "delivery_type")
	assert.Contains(t, details, "payment_method")
	assert.Contains(t, details, "items")
}

func TestServiceCreate_unknownItemWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	_, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
		LineItemInput{ItemID: 9999, Quantity: 2},
	))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	var orderCount, customerCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.Customer{}).Count(&customerCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, customerCount, "rolled back customer upsert should not persist")
}

func TestServiceCreate_completedOrderBooksNoSale(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	in := validInput(LineItemInput{ItemID: burger.ID, Quantity: 1})
	in.Status = "completed"
	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceUpdate_replacesItemSet(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")
	fries := seedItem(t, db, "Fries", "15.00")
	soda := seedItem(t, db, "Soda", "8.00")

	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
		LineItemInput{ItemID: fries.ID, Quantity: 1},
	))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), order.ID, validInput(
		LineItemInput{ItemID: soda.ID, Quantity: 2},
	))
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, soda.ID, updated.Items[0].ItemID)
	assert.Equal(t, 2, updated.Items[0].Quantity)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("16.00")))
	assert.Equal(t, order.OrderNumber, updated.OrderNumber, "order number never changes")

	var lineCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)
}

func TestServiceUpdate_recordsSaleOnCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 2},
	))
	require.NoError(t, err)

	in := validInput(LineItemInput{ItemID: burger.ID, Quantity: 2})
	in.Status = "completed"
	_, err = svc.Update(context.Background(), order.ID, in)
	require.NoError(t, err)

	var sales []models.Sale
	require.NoError(t, db.Find(&sales).Error)
	require.Len(t, sales, 1)
	assert.Equal(t, order.OrderNumber, sales[0].OrderNumber)
	assert.Equal(t, enums.PaymentMethodCash, sales[0].PaymentMethod)
	assert.True(t, sales[0].Total.Equal(decimal.RequireFromString("91.00")))

	// Re-saving an already completed order must not book a duplicate.
	_, err = svc.Update(context.Background(), order.ID, in)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestServiceUpdate_cancellationBooksNoSale(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.NoError(t, err)

	in := validInput(LineItemInput{ItemID: burger.ID, Quantity: 1})
	in.Status = "cancelled"
	_, err = svc.Update(context.Background(), order.ID, in)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceUpdate_orderNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	_, err := svc.Update(context.Background(), 42, validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestServiceDelete_keepsCustomerAndCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))

	_, err = svc.Show(context.Background(), order.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	var lineCount, customerCount, itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&lineCount).Error)
	require.NoError(t, db.Model(&models.Customer{}).Count(&customerCount).Error)
	require.NoError(t, db.Model(&models.Item{}).Count(&itemCount).Error)
	assert.Zero(t, lineCount)
	assert.Equal(t, int64(1), customerCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestServiceDelete_orderNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestServiceList_ignoresHalfOpenDateRange(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")
	_, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.NoError(t, err)

	from := time.Now().AddDate(0, 0, 7)
	list, err := svc.List(context.Background(), ListFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, list, 1, "range with only one end set must not filter")
}

func TestServiceList_dateRangeCoversFullDays(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")
	order, err := svc.Create(context.Background(), validInput(
		LineItemInput{ItemID: burger.ID, Quantity: 1},
	))
	require.NoError(t, err)

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("created_at", yesterday).Error)

	day := yesterday
	list, err := svc.List(context.Background(), ListFilter{From: &day, To: &day})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	today := time.Now()
	list, err = svc.List(context.Background(), ListFilter{From: &today, To: &today})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceListCancelled_defaultsToToday(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	burger := seedItem(t, db, "Burger", "45.50")

	in := validInput(LineItemInput{ItemID: burger.ID, Quantity: 1})
	in.Status = "cancelled"
	todayOrder, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	oldOrder, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", oldOrder.ID).
		Update("created_at", time.Now().AddDate(0, 0, -3)).Error)

	list, err := svc.ListCancelled(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, todayOrder.ID, list[0].ID)

	from := time.Now().AddDate(0, 0, -5)
	to := time.Now()
	list, err = svc.ListCancelled(context.Background(), &from, &to)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
