package sales

import (
	"context"
	"time"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the append-only sale records. Sales are only ever written
// by the order lifecycle when a status change completes an order.
type Repository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	var result []models.Sale
	err := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
