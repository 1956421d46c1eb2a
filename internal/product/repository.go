package product

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/logger"
	"storekeep-be/internal/promotion"

	"go.uber.org/zap"
)

type Repository interface {
	// GetByID loads a product with its currently active promotions.
	GetByID(ctx context.Context, id int) (*Product, error)
	// SellProducts is the checkout-time settlement: one transaction, each
	// product's stock decremented and clamped at zero, all-or-nothing. An
	// unknown product anywhere in the batch aborts the whole settlement.
	SellProducts(ctx context.Context, sales []Sale) error
	Update(ctx context.Context, p *Product) error
	// UnderstockedIDs feeds the reorder pass.
	UnderstockedIDs(ctx context.Context) ([]int, error)
}

type repository struct {
	db     *sql.DB
	promos promotion.Repository
}

func NewRepository(db *sql.DB, promos promotion.Repository) Repository {
	return &repository{db: db, promos: promos}
}

func (r *repository) GetByID(ctx context.Context, id int) (*Product, error) {
	query := `
		SELECT id, category_id, vendor_id, name, description, sku,
		       price_cents, cost_cents, age_required, quantity,
		       reorder_level, reorder_amount, discontinued
		FROM products
		WHERE id = $1
	`

	var p Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.CategoryID,
		&p.VendorID,
		&p.Name,
		&p.Description,
		&p.SKU,
		&p.PriceCents,
		&p.CostCents,
		&p.AgeRequired,
		&p.Quantity,
		&p.ReorderLevel,
		&p.ReorderAmount,
		&p.Discontinued,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("no product with id %d", id)
	}
	if err != nil {
		return nil, fault.Internal(err, "read product")
	}

	promos, err := r.promos.CurrentForProduct(ctx, p.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	p.Promotions = promos

	return &p, nil
}

func (r *repository) SellProducts(ctx context.Context, sales []Sale) error {
	if len(sales) == 0 {
		return fault.NotFoundf("nothing to sell")
	}

	log := logger.FromCtx(ctx).With(
		zap.String("method", "SellProducts"),
		zap.Int("batch_size", len(sales)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Internal(err, "begin settlement")
	}
	defer tx.Rollback()

	for _, sale := range sales {
		// Single-statement read-modify-write: the row lock taken by the
		// UPDATE serializes concurrent settlements, and GREATEST keeps the
		// quantity from ever going negative.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET quantity = GREATEST(quantity - $1, 0)
			WHERE id = $2
		`, sale.Quantity, sale.ProductID)
		if err != nil {
			log.Error("failed to decrement stock",
				zap.Int("product_id", sale.ProductID),
				zap.Error(err),
			)
			return fault.Internal(err, "decrement stock")
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fault.Internal(err, "decrement stock")
		}
		if affected == 0 {
			return fault.NotFoundf("no product with id %d", sale.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Internal(err, "commit settlement")
	}

	log.Info("settlement committed")
	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = $1, vendor_id = $2, name = $3, description = $4,
		    sku = $5, price_cents = $6, cost_cents = $7, age_required = $8,
		    quantity = $9, reorder_level = $10, reorder_amount = $11,
		    discontinued = $12
		WHERE id = $13
	`,
		p.CategoryID, p.VendorID, p.Name, p.Description,
		p.SKU, p.PriceCents, p.CostCents, p.AgeRequired,
		p.Quantity, p.ReorderLevel, p.ReorderAmount,
		p.Discontinued, p.ID,
	)
	if err != nil {
		return fault.Internal(err, "update product")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fault.Internal(err, "update product")
	}
	if affected == 0 {
		return fault.NotFoundf("no product with id %d", p.ID)
	}

	return nil
}

func (r *repository) UnderstockedIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM products WHERE quantity <= reorder_level ORDER BY id`)
	if err != nil {
		return nil, fault.Internal(err, "query understocked products")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fault.Internal(err, "scan product id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Internal(err, "iterate product ids")
	}

	return ids, nil
}
