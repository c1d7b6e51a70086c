package pricing

import (
	"fmt"
	"strings"

	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending --confirm--> Confirmed --ship--> Shipped
//	Pending --cancel--> Cancelled
//
// Confirmed orders can no longer be cancelled; Shipped and Cancelled are
// terminal.
type Status int

const (
	// StatusUnknown catches uninitialized or unparseable status values.
	StatusUnknown Status = iota
	StatusPending
	StatusConfirmed
	StatusShipped
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusUnknown:   "Unknown",
	StatusPending:   "Pending",
	StatusConfirmed: "Confirmed",
	StatusShipped:   "Shipped",
	StatusCancelled: "Cancelled",
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseStatus converts a stored status string to a Status.
// The comparison is case-insensitive; unrecognized input yields StatusUnknown.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "confirmed":
		return StatusConfirmed
	case "shipped":
		return StatusShipped
	case "cancelled":
		return StatusCancelled
	}
	return StatusUnknown
}

// Confirm transitions Pending to Confirmed.
// Any other current status is an invalid transition.
func (s Status) Confirm() (Status, error) {
	if s != StatusPending {
		return StatusUnknown, fmt.Errorf("%w: cannot confirm an order in status %q", ordererrors.ErrInvalidTransition, s.String())
	}
	return StatusConfirmed, nil
}

// Cancel transitions Pending to Cancelled.
// Any other current status is an invalid transition.
func (s Status) Cancel() (Status, error) {
	if s != StatusPending {
		return StatusUnknown, fmt.Errorf("%w: cannot cancel an order in status %q", ordererrors.ErrInvalidTransition, s.String())
	}
	return StatusCancelled, nil
}

// Ship transitions Confirmed to Shipped.
// Any other current status is an invalid transition.
func (s Status) Ship() (Status, error) {
	if s != StatusConfirmed {
		return StatusUnknown, fmt.Errorf("%w: cannot ship an order in status %q", ordererrors.ErrInvalidTransition, s.String())
	}
	return StatusShipped, nil
}
