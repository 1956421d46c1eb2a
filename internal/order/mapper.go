package order

import (
	"time"

	"storekeep-be/internal/codec"
	"storekeep-be/internal/fault"
	"storekeep-be/internal/lineitem"
	"storekeep-be/internal/status"
)

// View is the external representation of an order. Every key, the PIN
// included, is codec-encoded; raw integers never cross the boundary.
type View struct {
	ID          string
	Email       string
	Pin         string
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
	CanDelete   bool
	Items       []ItemView
}

// ItemView is the external representation of a line item.
type ItemView struct {
	ID          string
	OrderID     string
	ProductID   string
	Quantity    int
	PriceCents  int64
	AgeRequired int
	Status      status.Status
	StatusDate  time.Time
}

// Mapper converts between domain rows and external views. Conversion is
// explicit in both directions; nil input is the caller's bug to check.
type Mapper struct {
	ids *codec.Codec
}

func NewMapper(ids *codec.Codec) *Mapper {
	return &Mapper{ids: ids}
}

func (m *Mapper) ToView(o *Order, canDelete bool) *View {
	items := make([]ItemView, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, m.ItemToView(&o.Items[i]))
	}

	return &View{
		ID:          m.ids.Encode(o.ID),
		Email:       o.Email,
		Pin:         m.ids.Encode(o.Pin),
		Name:        o.Name,
		Address1:    o.Address1,
		Address2:    o.Address2,
		City:        o.City,
		State:       o.State,
		PostalCode:  o.PostalCode,
		CreateDate:  o.CreateDate,
		StatusDate:  o.StatusDate,
		Status:      o.Status,
		AgeRequired: o.AgeRequired,
		CanDelete:   canDelete,
		Items:       items,
	}
}

func (m *Mapper) ItemToView(li *lineitem.LineItem) ItemView {
	return ItemView{
		ID:          m.ids.Encode(li.ID),
		OrderID:     m.ids.Encode(li.OrderID),
		ProductID:   m.ids.Encode(li.ProductID),
		Quantity:    li.Quantity,
		PriceCents:  li.PriceCents,
		AgeRequired: li.AgeRequired,
		Status:      li.Status,
		StatusDate:  li.StatusDate,
	}
}

// FromView decodes an external order back to domain form. The id may be
// the zero-encoded placeholder (store assigns the real key); the PIN must
// decode to a positive integer.
func (m *Mapper) FromView(v *View) (*Order, error) {
	if v == nil {
		return nil, fault.Invalidf("order is required")
	}

	pin := m.ids.Decode(v.Pin)
	if pin <= 0 {
		return nil, fault.Invalidf("invalid pin")
	}

	o := &Order{
		ID:          m.ids.Decode(v.ID),
		Email:       v.Email,
		Pin:         pin,
		Name:        v.Name,
		Address1:    v.Address1,
		Address2:    v.Address2,
		City:        v.City,
		State:       v.State,
		PostalCode:  v.PostalCode,
		CreateDate:  v.CreateDate,
		StatusDate:  v.StatusDate,
		Status:      v.Status,
		AgeRequired: v.AgeRequired,
	}

	for i := range v.Items {
		li, err := m.ItemFromView(&v.Items[i])
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *li)
	}

	return o, nil
}

func (m *Mapper) ItemFromView(v *ItemView) (*lineitem.LineItem, error) {
	if v == nil {
		return nil, fault.Invalidf("line item is required")
	}

	productID := m.ids.Decode(v.ProductID)
	if productID <= 0 {
		return nil, fault.NotFoundf("no product with id %q", v.ProductID)
	}

	return &lineitem.LineItem{
		ID:          m.ids.Decode(v.ID),
		OrderID:     m.ids.Decode(v.OrderID),
		ProductID:   productID,
		Quantity:    v.Quantity,
		PriceCents:  v.PriceCents,
		AgeRequired: v.AgeRequired,
		Status:      v.Status,
		StatusDate:  v.StatusDate,
	}, nil
}
