package product

import (
	"time"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/promotion"
)

// Product is a catalog row. Money is integer cents; price checks are
// exact equality.
type Product struct {
	ID            int
	CategoryID    int
	VendorID      int
	Name          string
	Description   string
	SKU           string
	PriceCents    int64
	CostCents     int64
	AgeRequired   int
	Quantity      int
	ReorderLevel  int
	ReorderAmount int
	Discontinued  bool
	Promotions    []promotion.Promotion
}

// Sale is one entry of a checkout-time settlement batch.
type Sale struct {
	ProductID int
	Quantity  int
}

// Validate applies the write-time rules. cost <= price holds at write
// time only; rows predating the rule may violate it on read.
func (p *Product) Validate() error {
	switch {
	case p == nil:
		return fault.Invalidf("product is required")
	case p.Name == "":
		return fault.Invalidf("product name is required")
	case p.SKU == "":
		return fault.Invalidf("product sku is required")
	case p.PriceCents <= 0:
		return fault.Invalidf("product price must be positive")
	case p.CostCents <= 0:
		return fault.Invalidf("product cost must be positive")
	case p.CostCents > p.PriceCents:
		return fault.Invalidf("product cost must not exceed price")
	case p.Quantity < 0:
		return fault.Invalidf("product quantity must not be negative")
	case p.AgeRequired < 0:
		return fault.Invalidf("product age requirement must not be negative")
	case p.ReorderLevel < 0:
		return fault.Invalidf("product reorder level must not be negative")
	case p.ReorderAmount <= 0:
		return fault.Invalidf("product reorder amount must be positive")
	}
	return nil
}

// AcceptablePrice reports whether priceCents is valid for this product at
// now: the base price, or the price of a currently active promotion.
func (p *Product) AcceptablePrice(priceCents int64, now time.Time) bool {
	return promotion.AcceptablePrice(p.PriceCents, p.Promotions, priceCents, now)
}

// Understocked reports whether the product is at or below its reorder
// level.
func (p *Product) Understocked() bool {
	return p.Quantity <= p.ReorderLevel
}
