package promotion

import (
	"context"
	"database/sql"
	"time"

	"storekeep-be/internal/fault"
)

type Repository interface {
	GetForProduct(ctx context.Context, productID int) ([]Promotion, error)
	// CurrentForProduct returns the promotions whose window contains now
	// and which have not been canceled.
	CurrentForProduct(ctx context.Context, productID int, now time.Time) ([]Promotion, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const columns = `id, product_id, created_on, created_by, start_date, stop_date,
		canceled_on, canceled_by, price_cents, description, limited_quantity, maximum_quantity`

func (r *repository) GetForProduct(ctx context.Context, productID int) ([]Promotion, error) {
	query := `
		SELECT ` + columns + `
		FROM promotions
		WHERE product_id = $1
		ORDER BY start_date
	`
	return r.query(ctx, query, productID)
}

func (r *repository) CurrentForProduct(ctx context.Context, productID int, now time.Time) ([]Promotion, error) {
	query := `
		SELECT ` + columns + `
		FROM promotions
		WHERE product_id = $1
		  AND start_date <= $2
		  AND stop_date >= $2
		  AND canceled_on IS NULL
		ORDER BY start_date
	`
	return r.query(ctx, query, productID, now)
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]Promotion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Internal(err, "query promotions")
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		var p Promotion
		var canceledBy sql.NullString
		if err := rows.Scan(
			&p.ID,
			&p.ProductID,
			&p.CreatedOn,
			&p.CreatedBy,
			&p.StartDate,
			&p.StopDate,
			&p.CanceledOn,
			&canceledBy,
			&p.PriceCents,
			&p.Description,
			&p.LimitedQuantity,
			&p.MaximumQuantity,
		); err != nil {
			return nil, fault.Internal(err, "scan promotion row")
		}
		p.CanceledBy = canceledBy.String
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Internal(err, "iterate promotion rows")
	}

	return promos, nil
}
