package promotion

import "time"

// Promotion is a dated price override for exactly one product. Prices are
// integer cents.
type Promotion struct {
	ID              int
	ProductID       int
	CreatedOn       time.Time
	CreatedBy       string
	StartDate       time.Time
	StopDate        time.Time
	CanceledOn      *time.Time
	CanceledBy      string
	PriceCents      int64
	Description     string
	LimitedQuantity bool
	MaximumQuantity int
}

func (p *Promotion) Canceled() bool {
	return p.CanceledOn != nil && !p.CanceledOn.IsZero()
}

// CurrentAt reports whether the promotion window contains now and the
// promotion has not been canceled.
func (p *Promotion) CurrentAt(now time.Time) bool {
	return !p.Canceled() && !now.Before(p.StartDate) && !now.After(p.StopDate)
}
