package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/bookstore/pkg/messaging"
)

type OrderPlacedEvent struct {
	OrderID    int64     `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      int64     `json:"total"`
	PlacedAt   time.Time `json:"placed_at"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}

type OrderStatusChangedEvent struct {
	OrderID   int64     `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

func (o OrderStatusChangedEvent) Subject() string {
	return messaging.OrdersStatusChangedSubject
}

func (o OrderStatusChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
