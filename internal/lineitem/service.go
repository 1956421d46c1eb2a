package lineitem

import (
	"context"
	"time"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/product"
	"storekeep-be/internal/status"
)

// OrderChecker is the narrow slice of the order store the ledger needs;
// the order package satisfies it.
type OrderChecker interface {
	Exists(ctx context.Context, orderID int) (bool, error)
}

// ProductReader resolves product references during validation.
type ProductReader interface {
	GetByID(ctx context.Context, id int) (*product.Product, error)
}

type Service interface {
	// Validate checks a line item in isolation. When the item belongs to
	// an order that has not been created yet, the order reference check is
	// skipped (the transaction manager stamps the real key).
	Validate(ctx context.Context, li *LineItem, orderExistsRequired bool) error
	UpdateStatus(ctx context.Context, id int, st status.Status) error
	OrderHasLineItems(ctx context.Context, orderID int) (bool, error)
	ProductHasLineItems(ctx context.Context, productID int) (bool, error)
	GetForOrder(ctx context.Context, orderID int) ([]LineItem, error)
}

type service struct {
	repo     Repository
	orders   OrderChecker
	products ProductReader
}

func NewService(repo Repository, orders OrderChecker, products ProductReader) Service {
	return &service{repo: repo, orders: orders, products: products}
}

func (s *service) Validate(ctx context.Context, li *LineItem, orderExistsRequired bool) error {
	switch {
	case li == nil:
		return fault.Invalidf("line item is required")
	case li.Quantity <= 0:
		return fault.Invalidf("line item quantity must be positive")
	case li.PriceCents <= 0:
		return fault.Invalidf("line item price must be positive")
	case li.AgeRequired < 0:
		return fault.Invalidf("line item age requirement must not be negative")
	case !li.Status.Valid():
		return fault.Invalidf("line item status must be specified")
	}

	if orderExistsRequired {
		ok, err := s.orders.Exists(ctx, li.OrderID)
		if err != nil {
			return err
		}
		if !ok {
			return fault.NotFoundf("no order with id %d", li.OrderID)
		}
	}

	if _, err := s.products.GetByID(ctx, li.ProductID); err != nil {
		return err
	}

	if li.StatusDate.IsZero() {
		li.StatusDate = time.Now().UTC()
	}

	return nil
}

func (s *service) UpdateStatus(ctx context.Context, id int, st status.Status) error {
	if !st.Valid() {
		return fault.Invalidf("line item status must be specified")
	}
	return s.repo.UpdateStatus(ctx, id, st, time.Now().UTC())
}

func (s *service) OrderHasLineItems(ctx context.Context, orderID int) (bool, error) {
	return s.repo.OrderHasLineItems(ctx, orderID)
}

func (s *service) ProductHasLineItems(ctx context.Context, productID int) (bool, error) {
	return s.repo.ProductHasLineItems(ctx, productID)
}

func (s *service) GetForOrder(ctx context.Context, orderID int) ([]LineItem, error) {
	return s.repo.GetForOrder(ctx, orderID)
}
