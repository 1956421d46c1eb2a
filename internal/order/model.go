package order

import (
	"time"

	"storekeep-be/internal/lineitem"
	"storekeep-be/internal/status"
)

// Order owns its line items; they are created together with, or attached
// to, an existing order. AgeRequired is the maximum of the line items'
// age requirements. The PIN is a numeric light access token, never a
// security boundary.
type Order struct {
	ID          int
	Email       string
	Pin         int
	Name        string
	Address1    string
	Address2    string
	City        string
	State       string
	PostalCode  string
	CreateDate  time.Time
	StatusDate  time.Time
	Status      status.Status
	AgeRequired int
	Items       []lineitem.LineItem
}
