// Package service provides the implementation of order-related business logic:
// building and pricing an order from cart entries, persisting it, and driving
// it through the confirm/cancel/ship lifecycle with inventory side effects.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/bookstore/internal/catalog"
	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
	"github.com/abgdnv/bookstore/internal/order/store"
	"github.com/abgdnv/bookstore/internal/pricing"
	"github.com/abgdnv/bookstore/pkg/messaging"
	"github.com/abgdnv/bookstore/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// OrderService defines the methods for managing orders.
// It abstracts the underlying business logic and data access.
type OrderService interface {
	// PlaceOrder builds a priced order from the given cart entries,
	// persists it with status Pending and returns its identifier,
	// description and total.
	PlaceOrder(ctx context.Context, order PlaceOrderDto) (*OrderPlacedDto, error)

	// Confirm moves a Pending order to Confirmed and applies the
	// sold/stock side effects per line item.
	Confirm(ctx context.Context, orderID int64) error

	// Cancel moves a Pending order to Cancelled. A non-empty requestedBy
	// must match the order's owner; empty requestedBy is an
	// administrative cancel.
	Cancel(ctx context.Context, orderID int64, requestedBy string) error

	// Ship moves a Confirmed order to Shipped.
	Ship(ctx context.Context, orderID int64) error

	// Find returns the persisted order with its line items.
	Find(ctx context.Context, orderID int64) (*OrderDto, error)

	// Status returns the current lifecycle status of an order.
	Status(ctx context.Context, orderID int64) (pricing.Status, error)

	// Owner returns the customer who placed the order.
	Owner(ctx context.Context, orderID int64) (string, error)

	// Items returns the line items of an order.
	Items(ctx context.Context, orderID int64) ([]OrderItemDto, error)

	// TopSellingBooks, TopCategories and StockLevels expose the catalog
	// sales aggregates.
	TopSellingBooks(ctx context.Context, limit int32) ([]catalog.BookSales, error)
	TopCategories(ctx context.Context, limit int32) ([]catalog.CategorySales, error)
	StockLevels(ctx context.Context) ([]catalog.StockLevel, error)
}

// Service implements OrderService and provides methods to manage orders.
type Service struct {
	orderStore    store.OrderStore
	bookStore     catalog.BookStore
	publisher     messaging.Publisher
	ordersCounter metric.Int64Counter
}

// NewService creates a new instance of OrderService with the provided stores and publisher.
func NewService(orderStore store.OrderStore, bookStore catalog.BookStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("bookstore")
	ordersCounter, err := meter.Int64Counter("orders_placed", metric.WithDescription("Total number of placed orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_placed counter: %v", err))
	}
	return &Service{
		orderStore:    orderStore,
		bookStore:     bookStore,
		publisher:     publisher,
		ordersCounter: ordersCounter,
	}
}

// OrderEntryDto is one cart entry of a PlaceOrder request.
type OrderEntryDto struct {
	ISBN     string `json:"isbn" validate:"required"`
	Quantity int32  `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderDto represents the data transfer object for placing a new order.
type PlaceOrderDto struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	ShippingMethod string          `json:"shipping_method"`
	Items          []OrderEntryDto `json:"items" validate:"required,gt=0,dive"`
	GiftNote       string          `json:"gift_note,omitempty"`
	Customization  string          `json:"customization,omitempty"`
}

// OrderPlacedDto is the result of a successful PlaceOrder call.
type OrderPlacedDto struct {
	OrderID     int64  `json:"order_id"`
	Description string `json:"description"`
	Total       int64  `json:"total"`
}

// OrderDto represents a persisted order with its line items.
type OrderDto struct {
	ID             int64          `json:"id"`
	CustomerID     string         `json:"customer_id"`
	Status         string         `json:"status"`
	Total          int64          `json:"total"`
	ShippingMethod string         `json:"shipping_method"`
	GiftNote       *string        `json:"gift_note,omitempty"`
	Customization  *string        `json:"customization,omitempty"`
	CreatedAt      string         `json:"created_at"`
	Items          []OrderItemDto `json:"items,omitempty"`
}

type OrderItemDto struct {
	ISBN     string `json:"isbn"`
	Quantity int32  `json:"quantity"`
}

// PlaceOrder builds, prices and persists a new order.
// Returns ErrCartEmpty for an empty entry list and ErrBookNotFound when an
// ISBN is unknown to the catalog. Nothing is persisted on failure.
func (s *Service) PlaceOrder(ctx context.Context, dto PlaceOrderDto) (*OrderPlacedDto, error) {
	if len(dto.Items) == 0 {
		return nil, ordererrors.ErrCartEmpty
	}

	// Snapshot price and title per distinct ISBN. Duplicated entries are
	// folded here so a book added twice becomes one line item of quantity 2.
	lineItems, err := s.snapshotItems(ctx, dto.Items)
	if err != nil {
		return nil, err
	}

	order, err := pricing.NewOrder(dto.CustomerID, pricing.ParseShippingMethod(dto.ShippingMethod), lineItems)
	if err != nil {
		return nil, err
	}
	if dto.GiftNote != "" {
		if order, err = pricing.WithGiftNote(order, dto.GiftNote); err != nil {
			return nil, err
		}
	}
	if dto.Customization != "" {
		if order, err = pricing.WithCustomization(order, dto.Customization); err != nil {
			return nil, err
		}
	}

	params := store.CreateOrderParams{
		CustomerID:     order.Customer(),
		Status:         order.Status().String(),
		Total:          order.Total(),
		ShippingMethod: order.Shipping().String(),
	}
	if note, ok := order.GiftNote(); ok {
		params.GiftNote = &note
	}
	if name, ok := order.Customization(); ok {
		params.Customization = &name
	}
	itemParams := make([]store.CreateOrderItemParams, 0, len(lineItems))
	for _, item := range lineItems {
		itemParams = append(itemParams, store.CreateOrderItemParams{ISBN: item.ISBN, Quantity: item.Quantity})
	}

	orderID, err := s.orderStore.CreateOrder(ctx, &params, itemParams)
	if err != nil {
		return nil, err
	}

	event := events.OrderPlacedEvent{
		OrderID:    orderID,
		CustomerID: order.Customer(),
		Total:      order.Total(),
		PlacedAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish OrderPlacedEvent", "order_id", orderID, "error", err)
	}
	// increase the number of placed orders
	s.ordersCounter.Add(ctx, 1)

	return &OrderPlacedDto{
		OrderID:     orderID,
		Description: order.Description(),
		Total:       order.Total(),
	}, nil
}

// Confirm validates and executes the Pending -> Confirmed transition, then
// increments sold and decrements stock per line item. The per-item loop is
// not atomic across items: on a mid-loop failure the order stays Confirmed,
// earlier updates remain applied, and the returned *InventoryError lists
// them so the caller can reconcile.
func (s *Service) Confirm(ctx context.Context, orderID int64) error {
	order, err := s.orderStore.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	next, err := pricing.ParseStatus(order.Status).Confirm()
	if err != nil {
		return err
	}
	if err := s.orderStore.UpdateStatus(ctx, orderID, next.String()); err != nil {
		return err
	}
	s.publishStatusChange(ctx, orderID, order.Status, next.String())

	items, err := s.orderStore.FindOrderItems(ctx, orderID)
	if err != nil {
		return &ordererrors.InventoryError{OrderID: orderID, Err: err}
	}

	applied := make([]ordererrors.AppliedItem, 0, len(items))
	for _, item := range items {
		sold, stock, err := s.bookStore.SoldAndStock(ctx, item.ISBN)
		if err != nil {
			return &ordererrors.InventoryError{OrderID: orderID, Applied: applied, Err: err}
		}
		if err := s.bookStore.SetSoldAndStock(ctx, item.ISBN, sold+item.Quantity, stock-item.Quantity); err != nil {
			return &ordererrors.InventoryError{OrderID: orderID, Applied: applied, Err: err}
		}
		applied = append(applied, ordererrors.AppliedItem{ISBN: item.ISBN, Quantity: item.Quantity})
	}
	return nil
}

// Cancel validates and executes the Pending -> Cancelled transition.
// No inventory changes are made; none were applied while Pending.
func (s *Service) Cancel(ctx context.Context, orderID int64, requestedBy string) error {
	order, err := s.orderStore.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if requestedBy != "" && requestedBy != order.CustomerID {
		return ordererrors.ErrAccessDenied
	}

	next, err := pricing.ParseStatus(order.Status).Cancel()
	if err != nil {
		return err
	}
	if err := s.orderStore.UpdateStatus(ctx, orderID, next.String()); err != nil {
		return err
	}
	s.publishStatusChange(ctx, orderID, order.Status, next.String())
	return nil
}

// Ship validates and executes the Confirmed -> Shipped transition.
// Inventory was already adjusted at confirmation time.
func (s *Service) Ship(ctx context.Context, orderID int64) error {
	order, err := s.orderStore.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	next, err := pricing.ParseStatus(order.Status).Ship()
	if err != nil {
		return err
	}
	if err := s.orderStore.UpdateStatus(ctx, orderID, next.String()); err != nil {
		return err
	}
	s.publishStatusChange(ctx, orderID, order.Status, next.String())
	return nil
}

// Find retrieves an order with its line items and returns it as an OrderDto.
// Returns ErrOrderNotFound if no order exists with the given ID.
func (s *Service) Find(ctx context.Context, orderID int64) (*OrderDto, error) {
	order, err := s.orderStore.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderStore.FindOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toDto(order, items), nil
}

// Status reports the order's lifecycle status, parsed from its stored form.
func (s *Service) Status(ctx context.Context, orderID int64) (pricing.Status, error) {
	order, err := s.orderStore.FindOrderByID(ctx, orderID)
	if err != nil {
		return pricing.StatusUnknown, err
	}
	return pricing.ParseStatus(order.Status), nil
}

// Owner reports the customer who placed the order.
func (s *Service) Owner(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orderStore.FindOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return order.CustomerID, nil
}

// Items returns the order's line items.
func (s *Service) Items(ctx context.Context, orderID int64) ([]OrderItemDto, error) {
	items, err := s.orderStore.FindOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	dto := make([]OrderItemDto, 0, len(items))
	for _, item := range items {
		dto = append(dto, OrderItemDto{ISBN: item.ISBN, Quantity: item.Quantity})
	}
	return dto, nil
}

func (s *Service) TopSellingBooks(ctx context.Context, limit int32) ([]catalog.BookSales, error) {
	return s.bookStore.TopSellingBooks(ctx, limit)
}

func (s *Service) TopCategories(ctx context.Context, limit int32) ([]catalog.CategorySales, error) {
	return s.bookStore.TopCategories(ctx, limit)
}

func (s *Service) StockLevels(ctx context.Context) ([]catalog.StockLevel, error) {
	return s.bookStore.StockLevels(ctx)
}

// snapshotItems folds duplicate ISBNs, then captures price and title for
// each distinct book from the catalog.
func (s *Service) snapshotItems(ctx context.Context, entries []OrderEntryDto) ([]pricing.LineItem, error) {
	quantities := make(map[string]int32, len(entries))
	var distinct []string
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			return nil, ordererrors.ErrQuantityInvalid
		}
		if _, seen := quantities[entry.ISBN]; !seen {
			distinct = append(distinct, entry.ISBN)
		}
		quantities[entry.ISBN] += entry.Quantity
	}

	lineItems := make([]pricing.LineItem, 0, len(distinct))
	for _, isbn := range distinct {
		price, title, err := s.bookStore.PriceAndTitle(ctx, isbn)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, pricing.LineItem{
			ISBN:      isbn,
			Title:     title,
			UnitPrice: price,
			Quantity:  quantities[isbn],
		})
	}
	return lineItems, nil
}

func (s *Service) publishStatusChange(ctx context.Context, orderID int64, oldStatus, newStatus string) {
	event := events.OrderStatusChangedEvent{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish OrderStatusChangedEvent", "order_id", orderID, "error", err)
	}
}

// toDto converts a store.Order to an OrderDto.
func toDto(order *store.Order, items []store.OrderItem) *OrderDto {
	if order == nil {
		return nil
	}

	var itemsDto []OrderItemDto
	if items != nil {
		itemsDto = make([]OrderItemDto, 0, len(items))
		for _, item := range items {
			itemsDto = append(itemsDto, OrderItemDto{ISBN: item.ISBN, Quantity: item.Quantity})
		}
	}

	return &OrderDto{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		Status:         order.Status,
		Total:          order.Total,
		ShippingMethod: order.ShippingMethod,
		GiftNote:       order.GiftNote,
		Customization:  order.Customization,
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
		Items:          itemsDto,
	}
}
