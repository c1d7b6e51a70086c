package pricing

import (
	"strings"

	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
)

// GiftNoteCharge is the flat fee for attaching a gift note.
const GiftNoteCharge int64 = 30

// CustomizationCharge is the flat fee for a customization.
const CustomizationCharge int64 = 50

// WithGiftNote wraps an order with a gift note add-on.
// The note must not be blank.
func WithGiftNote(order Order, note string) (Order, error) {
	if strings.TrimSpace(note) == "" {
		return nil, ordererrors.ErrGiftNoteEmpty
	}
	return &giftNote{Order: order, note: note}, nil
}

// WithCustomization wraps an order with a customization add-on.
// The name must not be blank.
func WithCustomization(order Order, name string) (Order, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ordererrors.ErrCustomizationEmpty
	}
	return &customization{Order: order, name: name}, nil
}

// giftNote decorates an order with a note. All methods not overridden here
// delegate to the wrapped Order via embedding.
type giftNote struct {
	Order
	note string
}

func (g *giftNote) Description() string {
	return g.Order.Description() + " with Gift Note: " + g.note
}

func (g *giftNote) Total() int64 {
	return g.Order.Total() + GiftNoteCharge
}

func (g *giftNote) GiftNote() (string, bool) {
	return g.note, true
}

type customization struct {
	Order
	name string
}

func (c *customization) Description() string {
	return c.Order.Description() + " with Customization name: " + c.name
}

func (c *customization) Total() int64 {
	return c.Order.Total() + CustomizationCharge
}

func (c *customization) Customization() (string, bool) {
	return c.name, true
}
