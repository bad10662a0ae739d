package customers

import (
	"context"
	"fmt"
	"testing"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	"github.com/raidhaan/pos-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Customer{}))
	return db
}

func TestRepositoryUpsert_createsWhenMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	customer, err := repo.Upsert(context.Background(), 7771234, "H. Sunrise", enums.CityMale)
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, 7771234, customer.PhoneNumber)
	assert.Equal(t, "H. Sunrise", customer.Address)
	assert.Equal(t, enums.CityMale, customer.City)
}

func TestRepositoryUpsert_latestSubmissionWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	first, err := repo.Upsert(context.Background(), 7771234, "H. Sunrise", enums.CityMale)
	require.NoError(t, err)

	second, err := repo.Upsert(context.Background(), 7771234, "Lot 10203", enums.CityHulhumalePhase1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.FindByPhone(context.Background(), 7771234)
	require.NoError(t, err)
	assert.Equal(t, "Lot 10203", stored.Address)
	assert.Equal(t, enums.CityHulhumalePhase1, stored.City)
}

func TestRepositoryFindByPhone_notFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByPhone(context.Background(), 7770000)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
