package status

// Status is the lifecycle vocabulary shared by orders and line items. The
// integer coding matches what is persisted in the store, so the values
// must not be reordered.
type Status int

const (
	Unspecified Status = iota
	Pending
	Open
	CanceledByCustomer
	CanceledByStore
	InProgress
	Shipped
	BackOrdered
	OutOfStock
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Open:
		return "Open"
	case CanceledByCustomer:
		return "Canceled by customer"
	case CanceledByStore:
		return "Canceled by store"
	case InProgress:
		return "In progress"
	case Shipped:
		return "Shipped"
	case BackOrdered:
		return "Back ordered"
	case OutOfStock:
		return "Out of stock"
	default:
		return "Unspecified"
	}
}

// Valid reports whether s may appear on a persisted row. Unspecified is
// the zero value and is rejected by validation everywhere.
func (s Status) Valid() bool {
	return s > Unspecified && s <= OutOfStock
}

// Terminal reports whether s has no outgoing transitions. BackOrdered and
// OutOfStock are not terminal: a later fulfillment pass revisits them.
func (s Status) Terminal() bool {
	switch s {
	case Shipped, CanceledByCustomer, CanceledByStore:
		return true
	}
	return false
}

// Canceled reports whether s is either cancellation outcome.
func (s Status) Canceled() bool {
	return s == CanceledByCustomer || s == CanceledByStore
}
