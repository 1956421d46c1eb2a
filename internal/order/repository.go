package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/lineitem"
	"storekeep-be/internal/logger"
	"storekeep-be/internal/status"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*Order, error)
	Exists(ctx context.Context, id int) (bool, error)
	GetForEmail(ctx context.Context, email string) ([]*Order, error)
	GetForEmailAndPin(ctx context.Context, email string, pin int) ([]*Order, error)
	GetByStatus(ctx context.Context, statuses ...status.Status) ([]*Order, error)
	// OpenIDs feeds the operator fulfillment pass.
	OpenIDs(ctx context.Context) ([]int, error)

	// CreateTx inserts the order and all of its line items in one
	// transaction; partial orders are never observable.
	CreateTx(ctx context.Context, o *Order, items []lineitem.LineItem) error
	// UpdateTx updates the order row, deletes removed items and inserts
	// added items, in that order, atomically.
	UpdateTx(ctx context.Context, o *Order, added, removed []lineitem.LineItem) error
	// CancelTx cascades the cancellation status and a single fresh
	// timestamp to the order and every one of its line items.
	CancelTx(ctx context.Context, orderID int, byCustomer bool) error
	// FulfillTx is the fulfillment-time settlement: per line item,
	// independent, partial success, all inside one transaction.
	FulfillTx(ctx context.Context, orderID int) error
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, email, pin, name, address1, address2, city, state,
		postal_code, create_date, status_date, status, age_required`

func scanOrder(row interface{ Scan(...any) error }, o *Order) error {
	return row.Scan(
		&o.ID,
		&o.Email,
		&o.Pin,
		&o.Name,
		&o.Address1,
		&o.Address2,
		&o.City,
		&o.State,
		&o.PostalCode,
		&o.CreateDate,
		&o.StatusDate,
		&o.Status,
		&o.AgeRequired,
	)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Order, error) {
	var o Order
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	err := scanOrder(row, &o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("no order with id %d", id)
	}
	if err != nil {
		return nil, fault.Internal(err, "read order")
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id).Scan(&ok)
	if err != nil {
		return false, fault.Internal(err, "order existence check")
	}
	return ok, nil
}

func (r *repository) GetForEmail(ctx context.Context, email string) ([]*Order, error) {
	return r.query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE email = $1 ORDER BY create_date", email)
}

func (r *repository) GetForEmailAndPin(ctx context.Context, email string, pin int) ([]*Order, error) {
	return r.query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE email = $1 AND pin = $2 ORDER BY create_date",
		email, pin)
}

func (r *repository) GetByStatus(ctx context.Context, statuses ...status.Status) ([]*Order, error) {
	if len(statuses) == 0 {
		return r.query(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY create_date")
	}

	codes := make([]int32, len(statuses))
	for i, s := range statuses {
		codes[i] = int32(s)
	}
	return r.query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = ANY($1) ORDER BY create_date",
		pq.Array(codes))
}

func (r *repository) OpenIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM orders WHERE status = $1 ORDER BY id", int(status.Open))
	if err != nil {
		return nil, fault.Internal(err, "query open orders")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fault.Internal(err, "scan order id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Internal(err, "iterate order ids")
	}

	return ids, nil
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Internal(err, "query orders")
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fault.Internal(err, "scan order row")
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Internal(err, "iterate order rows")
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_cents, age_required, status, status_date
		FROM line_items
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return fault.Internal(err, "query order line items")
	}
	defer rows.Close()

	for rows.Next() {
		var li lineitem.LineItem
		if err := rows.Scan(
			&li.ID, &li.OrderID, &li.ProductID, &li.Quantity,
			&li.PriceCents, &li.AgeRequired, &li.Status, &li.StatusDate,
		); err != nil {
			return fault.Internal(err, "scan line item row")
		}
		o.Items = append(o.Items, li)
	}
	return rows.Err()
}

const insertItemSQL = `
	INSERT INTO line_items (order_id, product_id, quantity, price_cents, age_required, status, status_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

func (r *repository) CreateTx(ctx context.Context, o *Order, items []lineitem.LineItem) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CreateTx"),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Internal(err, "begin create order")
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (email, pin, name, address1, address2, city, state,
			postal_code, create_date, status_date, status, age_required)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
	`,
		o.Email, o.Pin, o.Name, o.Address1, o.Address2, o.City, o.State,
		o.PostalCode, o.CreateDate, o.StatusDate, int(o.Status), o.AgeRequired,
	).Scan(&o.ID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fault.Internal(err, "insert order")
	}

	// Stamp the generated key onto every line item before inserting it.
	for i := range items {
		items[i].OrderID = o.ID
		err = tx.QueryRowContext(ctx, insertItemSQL,
			items[i].OrderID, items[i].ProductID, items[i].Quantity,
			items[i].PriceCents, items[i].AgeRequired,
			int(items[i].Status), items[i].StatusDate,
		).Scan(&items[i].ID)
		if err != nil {
			log.Error("failed to insert line item",
				zap.Int("item_index", i),
				zap.Error(err),
			)
			return fault.Internal(err, "insert line item")
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Internal(err, "commit create order")
	}

	o.Items = items
	log.Info("order created", zap.Int("order_id", o.ID))
	return nil
}

func (r *repository) UpdateTx(ctx context.Context, o *Order, added, removed []lineitem.LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Internal(err, "begin update order")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET email = $1, pin = $2, name = $3, address1 = $4, address2 = $5,
		    city = $6, state = $7, postal_code = $8, create_date = $9,
		    status_date = $10, status = $11, age_required = $12
		WHERE id = $13
	`,
		o.Email, o.Pin, o.Name, o.Address1, o.Address2,
		o.City, o.State, o.PostalCode, o.CreateDate,
		o.StatusDate, int(o.Status), o.AgeRequired, o.ID,
	)
	if err != nil {
		return fault.Internal(err, "update order")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fault.Internal(err, "update order")
	}
	if affected == 0 {
		return fault.NotFoundf("no order with id %d", o.ID)
	}

	for i := range removed {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM line_items WHERE id = $1", removed[i].ID); err != nil {
			return fault.Internal(err, "delete line item")
		}
	}

	for i := range added {
		added[i].OrderID = o.ID
		err = tx.QueryRowContext(ctx, insertItemSQL,
			added[i].OrderID, added[i].ProductID, added[i].Quantity,
			added[i].PriceCents, added[i].AgeRequired,
			int(added[i].Status), added[i].StatusDate,
		).Scan(&added[i].ID)
		if err != nil {
			return fault.Internal(err, "insert line item")
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Internal(err, "commit update order")
	}

	return nil
}

func (r *repository) CancelTx(ctx context.Context, orderID int, byCustomer bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Internal(err, "begin cancel order")
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", orderID).Scan(&exists)
	if err != nil {
		return fault.Internal(err, "read order")
	}
	if !exists {
		return fault.NotFoundf("no order with id %d", orderID)
	}

	st := status.CanceledByStore
	if byCustomer {
		st = status.CanceledByCustomer
	}
	at := time.Now().UTC()

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, status_date = $2 WHERE id = $3",
		int(st), at, orderID); err != nil {
		return fault.Internal(err, "cancel order")
	}

	// The identical status and timestamp cascade to every line item.
	if _, err := tx.ExecContext(ctx,
		"UPDATE line_items SET status = $1, status_date = $2 WHERE order_id = $3",
		int(st), at, orderID); err != nil {
		return fault.Internal(err, "cancel order line items")
	}

	if err := tx.Commit(); err != nil {
		return fault.Internal(err, "commit cancel order")
	}

	logger.FromCtx(ctx).Info("order canceled",
		zap.Int("order_id", orderID),
		zap.Bool("by_customer", byCustomer),
	)
	return nil
}

func (r *repository) FulfillTx(ctx context.Context, orderID int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "FulfillTx"),
		zap.Int("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Internal(err, "begin fulfill order")
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", orderID).Scan(&exists)
	if err != nil {
		return fault.Internal(err, "read order")
	}
	if !exists {
		return fault.NotFoundf("no order with id %d", orderID)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, product_id, quantity
		FROM line_items
		WHERE order_id = $1 AND status != $2
		ORDER BY id
	`, orderID, int(status.Shipped))
	if err != nil {
		return fault.Internal(err, "query unshipped line items")
	}

	type pending struct {
		id        int
		productID int
		quantity  int
	}
	var items []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.productID, &p.quantity); err != nil {
			rows.Close()
			return fault.Internal(err, "scan line item row")
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fault.Internal(err, "iterate line item rows")
	}
	rows.Close()

	// Partial success is the business outcome: each line item settles
	// independently, although the writes share one transaction.
	shipped := true
	for _, item := range items {
		var stock int
		err := tx.QueryRowContext(ctx,
			"SELECT quantity FROM products WHERE id = $1 FOR UPDATE",
			item.productID).Scan(&stock)

		var st status.Status
		switch {
		case errors.Is(err, sql.ErrNoRows):
			st = status.OutOfStock
			shipped = false
		case err != nil:
			return fault.Internal(err, "read product stock")
		case stock < item.quantity:
			st = status.BackOrdered
			shipped = false
		default:
			st = status.Shipped
			if _, err := tx.ExecContext(ctx,
				"UPDATE products SET quantity = quantity - $1 WHERE id = $2",
				item.quantity, item.productID); err != nil {
				return fault.Internal(err, "decrement stock")
			}
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE line_items SET status = $1, status_date = $2 WHERE id = $3",
			int(st), time.Now().UTC(), item.id); err != nil {
			return fault.Internal(err, "update line item status")
		}

		log.Debug("line item settled",
			zap.Int("line_item_id", item.id),
			zap.String("outcome", st.String()),
		)
	}

	// The order advances only when every line item ended the pass shipped;
	// otherwise its status is left for the next pass.
	if shipped {
		if _, err := tx.ExecContext(ctx,
			"UPDATE orders SET status = $1, status_date = $2 WHERE id = $3",
			int(status.Shipped), time.Now().UTC(), orderID); err != nil {
			return fault.Internal(err, "update order status")
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Internal(err, "commit fulfill order")
	}

	log.Info("fulfillment pass committed", zap.Bool("order_shipped", shipped))
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fault.Internal(err, "delete order")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fault.Internal(err, "delete order")
	}
	if affected == 0 {
		return fault.NotFoundf("no order with id %d", id)
	}
	return nil
}
