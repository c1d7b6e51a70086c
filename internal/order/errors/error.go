// Package errors provides custom error types for order-related operations.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrCartEmpty = errors.New("cart is empty: an order must contain at least one book")
var ErrQuantityInvalid = errors.New("line item quantity must be positive")
var ErrGiftNoteEmpty = errors.New("gift note text must not be empty")
var ErrCustomizationEmpty = errors.New("customization name must not be empty")

var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidTransition = errors.New("invalid order status transition")
var ErrAccessDenied = errors.New("access denied: order belongs to another customer")

var ErrCreateOrder = errors.New("failed to create order")
var ErrCreateOrderItem = errors.New("failed to create order item")
var ErrUpdateOrder = errors.New("failed to update order")
var ErrFailedToFindOrder = errors.New("failed to find order")
var ErrFailedToFindOrderItems = errors.New("failed to find order items")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")

// AppliedItem records a single inventory adjustment that has already been
// written to the catalog.
type AppliedItem struct {
	ISBN     string
	Quantity int32
}

// InventoryError reports a failure partway through the per-item inventory
// update that follows order confirmation. The order status is already
// Confirmed and the Applied items have already been adjusted; the caller
// must reconcile the remainder manually.
type InventoryError struct {
	OrderID int64
	Applied []AppliedItem
	Err     error
}

func (e *InventoryError) Error() string {
	applied := make([]string, 0, len(e.Applied))
	for _, item := range e.Applied {
		applied = append(applied, fmt.Sprintf("%s x%d", item.ISBN, item.Quantity))
	}
	return fmt.Sprintf("inventory update for order %d failed after applying [%s]: %v",
		e.OrderID, strings.Join(applied, ", "), e.Err)
}

func (e *InventoryError) Unwrap() error {
	return e.Err
}
