package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raidhaan/pos-backend/internal/customers"
	"github.com/raidhaan/pos-backend/pkg/db/models"
	"github.com/raidhaan/pos-backend/pkg/enums"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates the order lifecycle: creation and updates with derived
// pricing and customer upsert, deletion, listing, and the completion sale
// record.
type Service struct {
	repo      Repository
	customers customers.Repository
	tx        txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, customerRepo customers.Repository, tx txRunner) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{repo: repo, customers: customerRepo, tx: tx}, nil
}

// resolvedLine carries one line item with the catalog price read once: the
// same price feeds both the order total and the stored snapshot.
type resolvedLine struct {
	itemID   uint
	quantity int
	price    decimal.Decimal
}

// Create validates the submission, upserts the customer, derives the total
// from the catalog, allocates an order number, and persists the order with
// its line items in one transaction.
func (s *Service) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	parsed, err := in.parse()
	if err != nil {
		return nil, err
	}

	var orderID uint
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.customers.WithTx(tx).Upsert(ctx, parsed.phoneNumber, parsed.address, parsed.city)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
		}

		lines, total, err := resolveLines(ctx, repo, parsed.items)
		if err != nil {
			return err
		}

		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		order := &models.Order{
			OrderNumber:             number,
			CustomerID:              customer.ID,
			Status:                  parsed.status,
			DeliveryType:            parsed.deliveryType,
			PaymentMethod:           parsed.paymentMethod,
			TransferReferenceNumber: parsed.transferReferenceNumber,
			TotalAmount:             total,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach order items")
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Show(ctx, orderID)
}

// Update runs the same pipeline as Create against an existing order, then
// fully replaces the line item set rather than diffing it. When the status
// field changes to completed as part of this save, a sale record is appended
// in the same transaction.
func (s *Service) Update(ctx context.Context, id uint, in OrderInput) (*models.Order, error) {
	parsed, err := in.parse()
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindHeader(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		previousStatus := existing.Status

		customer, err := s.customers.WithTx(tx).Upsert(ctx, parsed.phoneNumber, parsed.address, parsed.city)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
		}

		lines, total, err := resolveLines(ctx, repo, parsed.items)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"customer_id":               customer.ID,
			"status":                    parsed.status,
			"delivery_type":             parsed.deliveryType,
			"payment_method":            parsed.paymentMethod,
			"transfer_reference_number": parsed.transferReferenceNumber,
			"total_amount":              total,
		}
		if err := repo.UpdateOrder(ctx, existing.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if err := repo.DeleteOrderItems(ctx, existing.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach order items")
		}
		for i := range lines {
			lines[i].OrderID = existing.ID
		}
		if err := repo.CreateOrderItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach order items")
		}

		return s.recordSaleOnCompletion(ctx, repo, previousStatus, parsed, existing.OrderNumber, total)
	})
	if err != nil {
		return nil, err
	}

	return s.Show(ctx, id)
}

// recordSaleOnCompletion appends a sale when an update moved the status into
// completed. It runs only on updates: an order created directly in the
// completed state books no sale, and re-saving an already completed order
// books no duplicate.
func (s *Service) recordSaleOnCompletion(ctx context.Context, repo Repository, previous enums.OrderStatus, parsed *parsedInput, orderNumber string, total decimal.Decimal) error {
	if previous == parsed.status || parsed.status != enums.OrderStatusCompleted {
		return nil
	}
	sale := &models.Sale{
		OrderNumber:   orderNumber,
		PaymentMethod: parsed.paymentMethod,
		Total:         total,
	}
	if err := repo.CreateSale(ctx, sale); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
	}
	return nil
}

// Delete detaches the line items and removes the order row. The referenced
// items and customer stay untouched.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindHeader(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := repo.DeleteOrderItems(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach order items")
		}
		if err := repo.DeleteOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

// Show loads one order with its customer and line items.
func (s *Service) Show(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// List returns orders newest first. The date range, when both ends are set,
// is widened to cover the full calendar days in the caller's location.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	if filter.From != nil && filter.To != nil {
		from := startOfDay(*filter.From)
		to := endOfDay(*filter.To)
		filter.From = &from
		filter.To = &to
	} else {
		filter.From = nil
		filter.To = nil
	}
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

// ListCancelled returns cancelled orders for the given range, defaulting to
// today when no explicit range is supplied.
func (s *Service) ListCancelled(ctx context.Context, from, to *time.Time) ([]models.Order, error) {
	filter := ListFilter{Status: enums.OrderStatusCancelled}
	if from != nil && to != nil {
		filter.From = from
		filter.To = to
	} else {
		now := time.Now()
		dayStart := startOfDay(now)
		dayEnd := endOfDay(now)
		filter.From = &dayStart
		filter.To = &dayEnd
	}
	return s.List(ctx, filter)
}

// resolveLines reads each submitted item from the catalog exactly once and
// uses that single read for both the total and the price snapshot. A missing
// item aborts the whole operation before anything is written.
func resolveLines(ctx context.Context, repo Repository, inputs []LineItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	lines := make([]models.OrderItem, 0, len(inputs))

	for i, line := range inputs {
		item, err := repo.FindItem(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("items[%d]: item %d not found in catalog", i, line.ItemID))
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}

		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		lines = append(lines, models.OrderItem{
			ItemID:   item.ID,
			Quantity: line.Quantity,
			Price:    item.Price,
		})
	}

	return lines, total, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
