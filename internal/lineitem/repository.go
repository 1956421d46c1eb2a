package lineitem

import (
	"context"
	"database/sql"
	"time"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/status"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*LineItem, error)
	GetForOrder(ctx context.Context, orderID int) ([]LineItem, error)
	GetForProduct(ctx context.Context, productID int) ([]LineItem, error)
	// OrderHasLineItems and ProductHasLineItems are the deletion guards.
	// Existence checks only, never materialization.
	OrderHasLineItems(ctx context.Context, orderID int) (bool, error)
	ProductHasLineItems(ctx context.Context, productID int) (bool, error)
	UpdateStatus(ctx context.Context, id int, st status.Status, at time.Time) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const columns = "id, order_id, product_id, quantity, price_cents, age_required, status, status_date"

func scanItem(row interface{ Scan(...any) error }, li *LineItem) error {
	return row.Scan(
		&li.ID,
		&li.OrderID,
		&li.ProductID,
		&li.Quantity,
		&li.PriceCents,
		&li.AgeRequired,
		&li.Status,
		&li.StatusDate,
	)
}

func (r *repository) GetByID(ctx context.Context, id int) (*LineItem, error) {
	var li LineItem
	row := r.db.QueryRowContext(ctx,
		"SELECT "+columns+" FROM line_items WHERE id = $1", id)
	err := scanItem(row, &li)
	if err == sql.ErrNoRows {
		return nil, fault.NotFoundf("no line item with id %d", id)
	}
	if err != nil {
		return nil, fault.Internal(err, "read line item")
	}
	return &li, nil
}

func (r *repository) GetForOrder(ctx context.Context, orderID int) ([]LineItem, error) {
	return r.query(ctx,
		"SELECT "+columns+" FROM line_items WHERE order_id = $1 ORDER BY id", orderID)
}

func (r *repository) GetForProduct(ctx context.Context, productID int) ([]LineItem, error) {
	return r.query(ctx,
		"SELECT "+columns+" FROM line_items WHERE product_id = $1 ORDER BY id", productID)
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]LineItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Internal(err, "query line items")
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var li LineItem
		if err := scanItem(rows, &li); err != nil {
			return nil, fault.Internal(err, "scan line item row")
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Internal(err, "iterate line item rows")
	}

	return items, nil
}

func (r *repository) OrderHasLineItems(ctx context.Context, orderID int) (bool, error) {
	return r.exists(ctx,
		"SELECT EXISTS(SELECT 1 FROM line_items WHERE order_id = $1)", orderID)
}

func (r *repository) ProductHasLineItems(ctx context.Context, productID int) (bool, error) {
	return r.exists(ctx,
		"SELECT EXISTS(SELECT 1 FROM line_items WHERE product_id = $1)", productID)
}

func (r *repository) exists(ctx context.Context, query string, arg int) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, fault.Internal(err, "line item existence check")
	}
	return ok, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, st status.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE line_items SET status = $1, status_date = $2 WHERE id = $3",
		int(st), at, id)
	if err != nil {
		return fault.Internal(err, "update line item status")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fault.Internal(err, "update line item status")
	}
	if affected == 0 {
		return fault.NotFoundf("no line item with id %d", id)
	}

	return nil
}
