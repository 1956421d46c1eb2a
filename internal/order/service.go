package order

import (
	"context"
	"time"

	"storekeep-be/internal/codec"
	"storekeep-be/internal/fault"
	"storekeep-be/internal/lineitem"
	"storekeep-be/internal/logger"
	"storekeep-be/internal/product"
	"storekeep-be/internal/status"
	"storekeep-be/internal/user"

	"go.uber.org/zap"
)

// OrderItemInput is one submitted cart entry. The product id is the
// codec-encoded external form.
type OrderItemInput struct {
	ProductID  string
	Quantity   int
	PriceCents int64
}

// CreateOrderInput is an in-store order submission: full address required.
type CreateOrderInput struct {
	Email      string
	Pin        int
	Name       string
	Address1   string
	Address2   string
	City       string
	State      string
	PostalCode string
	Items      []OrderItemInput
}

// OnlineOrderInput waives the address fields.
type OnlineOrderInput struct {
	Email string
	Pin   int
	Name  string
	Items []OrderItemInput
}

// CheckoutItem is one entry of a point-of-sale checkout batch.
type CheckoutItem struct {
	ProductID  string
	Quantity   int
	PriceCents int64
}

type Service interface {
	Create(ctx context.Context, in CreateOrderInput) (*View, error)
	CreateOnline(ctx context.Context, in OnlineOrderInput) (*View, error)
	Update(ctx context.Context, v *View, added, removed []ItemView) error
	Cancel(ctx context.Context, orderID string, byCustomer bool) error
	Fulfill(ctx context.Context, orderID string) error
	// FulfillOpen runs a fulfillment pass over every open order.
	FulfillOpen(ctx context.Context) error
	// Checkout validates stock and price for the whole batch, then runs
	// the all-or-nothing settlement. overrideActor may be nil.
	Checkout(ctx context.Context, items []CheckoutItem, overrideActor *user.User) error
	UpdateLineItemStatus(ctx context.Context, lineItemID string, st status.Status) error
	Read(ctx context.Context, orderID string) (*View, error)
	ReadForEmailAndPin(ctx context.Context, email string, pin int) ([]*View, error)
	OpenOrderIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, orderID string) error
}

type service struct {
	repo     Repository
	items    lineitem.Repository
	products product.Repository
	ids      *codec.Codec
	mapper   *Mapper
}

func NewService(repo Repository, items lineitem.Repository, products product.Repository, ids *codec.Codec) Service {
	return &service{
		repo:     repo,
		items:    items,
		products: products,
		ids:      ids,
		mapper:   NewMapper(ids),
	}
}

// validate applies the shared order rules. Online orders waive the
// address fields but everything else holds.
func validate(o *Order, online bool) error {
	if o == nil {
		return ErrInvalidModel
	}
	if o.Email == "" || o.Name == "" {
		return ErrInvalidModel
	}
	if !online && (o.Address1 == "" || o.City == "" || o.State == "" || o.PostalCode == "") {
		return ErrInvalidModel
	}
	if o.Pin <= 0 {
		return ErrInvalidPin
	}
	if !o.Status.Valid() {
		return fault.Invalidf("invalid status")
	}
	if o.AgeRequired < 0 {
		return fault.Invalidf("invalid age requirement")
	}
	if o.CreateDate.IsZero() {
		o.CreateDate = time.Now().UTC()
	}
	if o.StatusDate.IsZero() {
		o.StatusDate = time.Now().UTC()
	}
	if o.StatusDate.Before(o.CreateDate) {
		return fault.Invalidf("invalid status date")
	}
	return nil
}

// buildItems resolves every submitted entry against the catalog: the
// product must exist and the submitted price must pass the promotion
// rule. Age requirements are copied from the product; the returned max
// feeds the order aggregate.
func (s *service) buildItems(ctx context.Context, inputs []OrderItemInput, now time.Time) ([]lineitem.LineItem, int, error) {
	if len(inputs) == 0 {
		return nil, 0, ErrNoItems
	}

	items := make([]lineitem.LineItem, 0, len(inputs))
	maxAge := 0
	for _, in := range inputs {
		productID := s.ids.Decode(in.ProductID)
		if productID <= 0 {
			return nil, 0, fault.NotFoundf("no product with id %q", in.ProductID)
		}
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, 0, err
		}
		if in.Quantity <= 0 {
			return nil, 0, fault.Invalidf("invalid quantity for product %q", p.Name)
		}
		if !p.AcceptablePrice(in.PriceCents, now) {
			return nil, 0, fault.Invalidf("unacceptable price for product %q", p.Name)
		}

		items = append(items, lineitem.LineItem{
			ProductID:   productID,
			Quantity:    in.Quantity,
			PriceCents:  in.PriceCents,
			AgeRequired: p.AgeRequired,
			Status:      status.Pending,
			StatusDate:  now,
		})
		if p.AgeRequired > maxAge {
			maxAge = p.AgeRequired
		}
	}

	return items, maxAge, nil
}

func (s *service) create(ctx context.Context, o *Order, inputs []OrderItemInput, online bool) (*View, error) {
	now := time.Now().UTC()

	items, maxAge, err := s.buildItems(ctx, inputs, now)
	if err != nil {
		return nil, err
	}
	o.AgeRequired = maxAge

	if err := validate(o, online); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTx(ctx, o, items); err != nil {
		return nil, err
	}

	return s.mapper.ToView(o, false), nil
}

func (s *service) Create(ctx context.Context, in CreateOrderInput) (*View, error) {
	now := time.Now().UTC()
	o := &Order{
		Email:      in.Email,
		Pin:        in.Pin,
		Name:       in.Name,
		Address1:   in.Address1,
		Address2:   in.Address2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		CreateDate: now,
		StatusDate: now,
		Status:     status.Pending,
	}
	return s.create(ctx, o, in.Items, false)
}

func (s *service) CreateOnline(ctx context.Context, in OnlineOrderInput) (*View, error) {
	now := time.Now().UTC()
	o := &Order{
		Email:      in.Email,
		Pin:        in.Pin,
		Name:       in.Name,
		CreateDate: now,
		StatusDate: now,
		Status:     status.Pending,
	}
	return s.create(ctx, o, in.Items, true)
}

func (s *service) Update(ctx context.Context, v *View, added, removed []ItemView) error {
	o, err := s.mapper.FromView(v)
	if err != nil {
		return err
	}
	if o.ID <= 0 {
		return fault.Invalidf("invalid order id")
	}
	// Online orders carry empty address fields; that is the only marker
	// the row keeps, so it picks the relaxed rule here too.
	if err := validate(o, o.Address1 == ""); err != nil {
		return err
	}

	now := time.Now().UTC()
	var addedItems, removedItems []lineitem.LineItem
	for i := range added {
		li, err := s.mapper.ItemFromView(&added[i])
		if err != nil {
			return err
		}
		if li.Quantity <= 0 || li.PriceCents <= 0 {
			return fault.Invalidf("invalid line item")
		}
		if _, err := s.products.GetByID(ctx, li.ProductID); err != nil {
			return err
		}
		if li.StatusDate.IsZero() {
			li.StatusDate = now
		}
		if !li.Status.Valid() {
			li.Status = status.Pending
		}
		addedItems = append(addedItems, *li)
	}
	for i := range removed {
		li, err := s.mapper.ItemFromView(&removed[i])
		if err != nil {
			return err
		}
		removedItems = append(removedItems, *li)
	}

	return s.repo.UpdateTx(ctx, o, addedItems, removedItems)
}

func (s *service) Cancel(ctx context.Context, orderID string, byCustomer bool) error {
	id := s.ids.Decode(orderID)
	if id <= 0 {
		return fault.NotFoundf("no order with id %q", orderID)
	}
	return s.repo.CancelTx(ctx, id, byCustomer)
}

func (s *service) Fulfill(ctx context.Context, orderID string) error {
	id := s.ids.Decode(orderID)
	if id <= 0 {
		return fault.NotFoundf("no order with id %q", orderID)
	}
	return s.repo.FulfillTx(ctx, id)
}

func (s *service) FulfillOpen(ctx context.Context) error {
	ids, err := s.repo.OpenIDs(ctx)
	if err != nil {
		return err
	}

	log := logger.FromCtx(ctx).With(zap.String("method", "FulfillOpen"))
	for _, id := range ids {
		// One transaction per order: a failure on one order must not keep
		// the rest of the pass from running.
		if err := s.repo.FulfillTx(ctx, id); err != nil {
			log.Error("fulfillment failed for order",
				zap.Int("order_id", id),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *service) Checkout(ctx context.Context, items []CheckoutItem, overrideActor *user.User) error {
	if len(items) == 0 {
		return fault.Invalidf("list of items is required")
	}

	now := time.Now().UTC()
	sales := make([]product.Sale, 0, len(items))
	for _, item := range items {
		productID := s.ids.Decode(item.ProductID)
		if productID <= 0 {
			return fault.NotFoundf("no product with id %q", item.ProductID)
		}
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return fault.Invalidf("invalid quantity for product %q", p.Name)
		}
		if item.Quantity > p.Quantity {
			if overrideActor == nil {
				return fault.Invalidf("insufficient stock for product %q", p.Name)
			}
			if !overrideActor.CanOverrideStock() {
				return fault.NotAuthorizedf("actor %q may not override stock for product %q",
					overrideActor.Identifier, p.Name)
			}
		}
		if !p.AcceptablePrice(item.PriceCents, now) {
			return fault.Invalidf("unacceptable price for product %q", p.Name)
		}
		sales = append(sales, product.Sale{ProductID: productID, Quantity: item.Quantity})
	}

	// Every entry validated; settle the whole batch or none of it.
	return s.products.SellProducts(ctx, sales)
}

func (s *service) UpdateLineItemStatus(ctx context.Context, lineItemID string, st status.Status) error {
	id := s.ids.Decode(lineItemID)
	if id <= 0 {
		return fault.NotFoundf("no line item with id %q", lineItemID)
	}
	if !st.Valid() {
		return fault.Invalidf("invalid status")
	}
	return s.items.UpdateStatus(ctx, id, st, time.Now().UTC())
}

func (s *service) Read(ctx context.Context, orderID string) (*View, error) {
	id := s.ids.Decode(orderID)
	if id <= 0 {
		return nil, fault.NotFoundf("no order with id %q", orderID)
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hasItems, err := s.items.OrderHasLineItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.mapper.ToView(o, !hasItems), nil
}

func (s *service) ReadForEmailAndPin(ctx context.Context, email string, pin int) ([]*View, error) {
	if email == "" {
		return nil, fault.Invalidf("email is required")
	}
	if pin <= 0 {
		return nil, ErrInvalidPin
	}

	orders, err := s.repo.GetForEmailAndPin(ctx, email, pin)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(orders))
	for _, o := range orders {
		hasItems, err := s.items.OrderHasLineItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, s.mapper.ToView(o, !hasItems))
	}
	return views, nil
}

func (s *service) OpenOrderIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.OpenIDs(ctx)
	if err != nil {
		return nil, err
	}

	encoded := make([]string, len(ids))
	for i, id := range ids {
		encoded[i] = s.ids.Encode(id)
	}
	return encoded, nil
}

func (s *service) Delete(ctx context.Context, orderID string) error {
	id := s.ids.Decode(orderID)
	if id <= 0 {
		return fault.NotFoundf("no order with id %q", orderID)
	}

	hasItems, err := s.items.OrderHasLineItems(ctx, id)
	if err != nil {
		return err
	}
	if hasItems {
		return fault.Invalidf("cannot delete an order that has line items")
	}

	return s.repo.Delete(ctx, id)
}
