// Package store provides an interface for order storage operations.
package store

import (
	"context"
	"time"
)

// Order is a persisted order row.
type Order struct {
	ID             int64
	CustomerID     string
	Status         string
	Total          int64
	ShippingMethod string
	GiftNote       *string
	Customization  *string
	CreatedAt      time.Time
}

// OrderItem is a persisted line-item row. Rows are keyed by
// (order, ISBN); repeated ISBNs in the incoming item list are summed
// into one row at insert time.
type OrderItem struct {
	OrderID  int64
	ISBN     string
	Quantity int32
}

// CreateOrderParams carries the order row fields for CreateOrder.
type CreateOrderParams struct {
	CustomerID     string
	Status         string
	Total          int64
	ShippingMethod string
	GiftNote       *string
	Customization  *string
}

// CreateOrderItemParams carries one incoming line item for CreateOrder.
type CreateOrderItemParams struct {
	ISBN     string
	Quantity int32
}

// OrderStore is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type OrderStore interface {
	// CreateOrder atomically inserts the order row and one line-item row
	// per distinct ISBN (quantities summed). Returns the assigned order ID.
	// On any failure the whole insert is rolled back.
	CreateOrder(ctx context.Context, params *CreateOrderParams, items []CreateOrderItemParams) (int64, error)

	// FindOrderByID retrieves a single order by its identifier.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindOrderByID(ctx context.Context, id int64) (*Order, error)

	// FindOrderItems returns the line items of an order.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindOrderItems(ctx context.Context, id int64) ([]OrderItem, error)

	// UpdateStatus unconditionally writes a new status. Transition validity
	// is the caller's responsibility.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	UpdateStatus(ctx context.Context, id int64, status string) error
}
