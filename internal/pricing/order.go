// Package pricing builds priced, described orders from line-item snapshots.
// A base variant is chosen by shipping method and zero or more add-ons wrap
// it, each adjusting the total and appending to the description.
package pricing

import (
	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
)

// LineItem is a priced, titled snapshot of one book within an order.
// Title and UnitPrice are captured at order-build time and never re-read
// from the catalog, so orders are immune to later catalog edits.
type LineItem struct {
	ISBN      string
	Title     string
	UnitPrice int64
	Quantity  int32
}

// Order is the full capability set of a priced order. Add-on wrappers
// embed the Order they wrap, so every method they do not override passes
// through to the innermost base variant.
type Order interface {
	// Description summarizes the order variant and its add-ons.
	Description() string

	// Total is the base price plus shipping surcharge plus add-on charges.
	Total() int64

	Customer() string
	Items() []LineItem
	Shipping() ShippingMethod
	Status() Status

	// GiftNote returns the gift note text and whether one is attached.
	GiftNote() (string, bool)

	// Customization returns the customization name and whether one is attached.
	Customization() (string, bool)
}

// NewOrder builds the base order variant for the given shipping method.
// A nil or empty line-item list is rejected, as are non-positive quantities.
func NewOrder(customer string, method ShippingMethod, items []LineItem) (Order, error) {
	if len(items) == 0 {
		return nil, ordererrors.ErrCartEmpty
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ordererrors.ErrQuantityInvalid
		}
	}

	base := baseOrder{
		customer: customer,
		items:    items,
		shipping: method,
		status:   StatusPending,
	}
	if method == ShippingExpress {
		return &expressOrder{base}, nil
	}
	return &standardOrder{base}, nil
}

// baseOrder carries the identity fields shared by both variants.
type baseOrder struct {
	customer string
	items    []LineItem
	shipping ShippingMethod
	status   Status
}

func (o *baseOrder) Customer() string         { return o.customer }
func (o *baseOrder) Items() []LineItem        { return o.items }
func (o *baseOrder) Shipping() ShippingMethod { return o.shipping }
func (o *baseOrder) Status() Status           { return o.status }

func (o *baseOrder) GiftNote() (string, bool)      { return "", false }
func (o *baseOrder) Customization() (string, bool) { return "", false }

func (o *baseOrder) itemsTotal() int64 {
	var total int64
	for _, item := range o.items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

type standardOrder struct {
	baseOrder
}

func (o *standardOrder) Description() string { return "Standard Order" }
func (o *standardOrder) Total() int64        { return o.itemsTotal() }

type expressOrder struct {
	baseOrder
}

func (o *expressOrder) Description() string { return "Express Order with faster delivery" }
func (o *expressOrder) Total() int64        { return o.itemsTotal() + ExpressSurcharge }
