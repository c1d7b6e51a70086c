package store

import (
	"context"
	"errors"
	"sort"

	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of OrderStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) CreateOrder(ctx context.Context, params *CreateOrderParams, items []CreateOrderItemParams) (int64, error) {
	var orderID int64

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO orders (customer_id, status, total, shipping_method, gift_note, customization)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			params.CustomerID, params.Status, params.Total, params.ShippingMethod,
			params.GiftNote, params.Customization,
		).Scan(&orderID)
		if err != nil {
			return ordererrors.ErrCreateOrder
		}

		for _, item := range sumQuantities(items) {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_books (order_id, book_isbn, quantity) VALUES ($1, $2, $3)`,
				orderID, item.ISBN, item.Quantity,
			)
			if err != nil {
				return ordererrors.ErrCreateOrderItem
			}
		}
		return nil
	})

	if txErr != nil {
		return 0, txErr
	}
	return orderID, nil
}

func (p *PgStore) FindOrderByID(ctx context.Context, id int64) (*Order, error) {
	var order Order
	err := p.db.QueryRow(ctx,
		`SELECT id, customer_id, status, total, shipping_method, gift_note, customization, created_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.CustomerID, &order.Status, &order.Total,
		&order.ShippingMethod, &order.GiftNote, &order.Customization, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordererrors.ErrOrderNotFound
		}
		return nil, ordererrors.ErrFailedToFindOrder
	}
	return &order, nil
}

func (p *PgStore) FindOrderItems(ctx context.Context, id int64) ([]OrderItem, error) {
	// The order row is checked first so an unknown ID is reported as
	// not-found rather than as an empty item list.
	if _, err := p.FindOrderByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx,
		`SELECT order_id, book_isbn, quantity FROM order_books WHERE order_id = $1 ORDER BY book_isbn`, id)
	if err != nil {
		return nil, ordererrors.ErrFailedToFindOrderItems
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.OrderID, &item.ISBN, &item.Quantity); err != nil {
			return nil, ordererrors.ErrFailedToFindOrderItems
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, ordererrors.ErrFailedToFindOrderItems
	}
	return items, nil
}

func (p *PgStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	ct, err := p.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return ordererrors.ErrUpdateOrder
	}
	if ct.RowsAffected() == 0 {
		return ordererrors.ErrOrderNotFound
	}
	return nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return ordererrors.ErrTransactionBegin
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return ordererrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ordererrors.ErrTransactionCommit
	}

	return nil
}

// sumQuantities folds repeated ISBNs into single entries with summed
// quantities, sorted by ISBN for deterministic insert order.
func sumQuantities(items []CreateOrderItemParams) []CreateOrderItemParams {
	byISBN := make(map[string]int32, len(items))
	for _, item := range items {
		byISBN[item.ISBN] += item.Quantity
	}
	summed := make([]CreateOrderItemParams, 0, len(byISBN))
	for isbn, qty := range byISBN {
		summed = append(summed, CreateOrderItemParams{ISBN: isbn, Quantity: qty})
	}
	sort.Slice(summed, func(i, j int) bool { return summed[i].ISBN < summed[j].ISBN })
	return summed
}
