package lineitem

import (
	"time"

	"storekeep-be/internal/status"
)

// LineItem is one product/quantity/price entry belonging to exactly one
// order. Price and age requirement are captured at order time and do not
// track later product changes.
type LineItem struct {
	ID          int
	OrderID     int
	ProductID   int
	Quantity    int
	PriceCents  int64
	AgeRequired int
	Status      status.Status
	StatusDate  time.Time
}
