package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
)

// Service exposes the sales read model.
type Service struct {
	repo Repository
}

// NewService builds a sales service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &Service{repo: repo}, nil
}

// List returns sales in the given range, widened to full calendar days.
// Without an explicit range it returns the sales booked today.
func (s *Service) List(ctx context.Context, from, to *time.Time) ([]models.Sale, error) {
	var lo, hi time.Time
	if from != nil && to != nil {
		lo = startOfDay(*from)
		hi = endOfDay(*to)
	} else {
		now := time.Now()
		lo = startOfDay(now)
		hi = endOfDay(now)
	}
	result, err := s.repo.ListBetween(ctx, lo, hi)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return result, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
