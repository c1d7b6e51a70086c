package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/bookstore/internal/catalog/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for duplicate key values.
const uniqueViolation = "23505"

// PgStore implements BookStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of BookStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// Create adds a book to the catalog.
func (p *PgStore) Create(ctx context.Context, book Book) error {
	if book.Price < 0 {
		return catalogerrors.ErrNegativePrice
	}
	if book.Stock < 0 {
		return catalogerrors.ErrNegativeStock
	}
	_, err := p.db.Exec(ctx,
		`INSERT INTO books (isbn, title, author, price, stock, sold, edition, category, cover_image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		book.ISBN, book.Title, book.Author, book.Price, book.Stock, book.Sold,
		book.Edition, book.Category, book.CoverImage,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return catalogerrors.ErrBookExists
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// PriceAndTitle returns the current price and title for an ISBN.
func (p *PgStore) PriceAndTitle(ctx context.Context, isbn string) (int64, string, error) {
	var price int64
	var title string
	err := p.db.QueryRow(ctx, `SELECT price, title FROM books WHERE isbn = $1`, isbn).
		Scan(&price, &title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", catalogerrors.ErrBookNotFound
		}
		return 0, "", fmt.Errorf("failed to find book: %w", err)
	}
	return price, title, nil
}

// SoldAndStock returns the sold count and stock for an ISBN.
// A NULL sold column reads as zero.
func (p *PgStore) SoldAndStock(ctx context.Context, isbn string) (int32, int32, error) {
	var sold, stock int32
	err := p.db.QueryRow(ctx, `SELECT COALESCE(sold, 0), stock FROM books WHERE isbn = $1`, isbn).
		Scan(&sold, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, catalogerrors.ErrBookNotFound
		}
		return 0, 0, fmt.Errorf("failed to read sold/stock: %w", err)
	}
	return sold, stock, nil
}

// SetSoldAndStock overwrites both counters for an ISBN.
func (p *PgStore) SetSoldAndStock(ctx context.Context, isbn string, sold, stock int32) error {
	if sold < 0 {
		return catalogerrors.ErrNegativeSold
	}
	if stock < 0 {
		return catalogerrors.ErrNegativeStock
	}
	ct, err := p.db.Exec(ctx, `UPDATE books SET sold = $1, stock = $2 WHERE isbn = $3`, sold, stock, isbn)
	if err != nil {
		return fmt.Errorf("failed to update sold/stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return catalogerrors.ErrBookNotFound
	}
	return nil
}

// TopSellingBooks returns up to limit books ordered by sold count descending.
func (p *PgStore) TopSellingBooks(ctx context.Context, limit int32) ([]BookSales, error) {
	rows, err := p.db.Query(ctx,
		`SELECT isbn, title, author, COALESCE(sold, 0)
		 FROM books
		 ORDER BY sold DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top selling books: %w", err)
	}
	defer rows.Close()

	var result []BookSales
	for rows.Next() {
		var row BookSales
		if err := rows.Scan(&row.ISBN, &row.Title, &row.Author, &row.Sold); err != nil {
			return nil, fmt.Errorf("failed to scan book sales row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// TopCategories returns up to limit categories ordered by total sold descending.
func (p *PgStore) TopCategories(ctx context.Context, limit int32) ([]CategorySales, error) {
	rows, err := p.db.Query(ctx,
		`SELECT category, SUM(COALESCE(sold, 0)) AS total_sold
		 FROM books
		 GROUP BY category
		 ORDER BY total_sold DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	defer rows.Close()

	var result []CategorySales
	for rows.Next() {
		var row CategorySales
		if err := rows.Scan(&row.Category, &row.TotalSold); err != nil {
			return nil, fmt.Errorf("failed to scan category sales row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// StockLevels returns every book with its stock, ordered by stock descending.
func (p *PgStore) StockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := p.db.Query(ctx,
		`SELECT isbn, title, stock FROM books ORDER BY stock DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var result []StockLevel
	for rows.Next() {
		var row StockLevel
		if err := rows.Scan(&row.ISBN, &row.Title, &row.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan stock level row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}
