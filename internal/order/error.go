package order

import "storekeep-be/internal/fault"

var (
	ErrNoItems      = fault.Invalidf("order has no line items")
	ErrInvalidPin   = fault.Invalidf("invalid pin")
	ErrInvalidModel = fault.Invalidf("invalid order")
)
