package customers

import (
	"context"
	"errors"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	"github.com/raidhaan/pos-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository resolves customers by their phone number natural key.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByPhone(ctx context.Context, phoneNumber int) (*models.Customer, error)
	Upsert(ctx context.Context, phoneNumber int, address string, city enums.City) (*models.Customer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByPhone(ctx context.Context, phoneNumber int) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Upsert finds the customer for phoneNumber and overwrites address and city,
// creating the row when no customer exists yet. The latest submission always
// wins, so stale contact data from earlier orders is superseded.
func (r *repository) Upsert(ctx context.Context, phoneNumber int, address string, city enums.City) (*models.Customer, error) {
	customer, err := r.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		created := &models.Customer{
			PhoneNumber: phoneNumber,
			Address:     address,
			City:        city,
		}
		if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
			return nil, err
		}
		return created, nil
	}

	customer.Address = address
	customer.City = city
	err = r.db.WithContext(ctx).
		Model(customer).
		Updates(map[string]any{"address": address, "city": city}).Error
	if err != nil {
		return nil, err
	}
	return customer, nil
}
