// Package catalog provides access to the book catalog consumed by the
// ordering core: price/title snapshots, sold/stock counters, and the
// read-only sales aggregates.
package catalog

import "context"

// Book is one catalog entry.
type Book struct {
	ISBN       string
	Title      string
	Author     string
	Price      int64
	Stock      int32
	Sold       int32
	Edition    string
	Category   string
	CoverImage string
}

// BookSales is a top-selling-books aggregate row.
type BookSales struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Sold   int32  `json:"sold"`
}

// CategorySales is a top-categories aggregate row.
type CategorySales struct {
	Category  string `json:"category"`
	TotalSold int64  `json:"total_sold"`
}

// StockLevel is a stock-report row.
type StockLevel struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Stock int32  `json:"stock"`
}

// BookStore is the catalog interface consumed by the ordering core.
// It abstracts the underlying data store, allowing for different
// implementations (e.g., in-memory, database).
type BookStore interface {
	// Create adds a book to the catalog.
	// Negative price or stock is rejected.
	Create(ctx context.Context, book Book) error

	// PriceAndTitle returns the current price and title for an ISBN.
	// Returns ErrBookNotFound if the ISBN is unknown.
	PriceAndTitle(ctx context.Context, isbn string) (int64, string, error)

	// SoldAndStock returns the sold count and stock for an ISBN.
	// An unset sold count reads as zero.
	SoldAndStock(ctx context.Context, isbn string) (sold, stock int32, err error)

	// SetSoldAndStock overwrites both counters for an ISBN.
	// Negative values are rejected.
	SetSoldAndStock(ctx context.Context, isbn string, sold, stock int32) error

	// TopSellingBooks returns up to limit books ordered by sold count descending.
	TopSellingBooks(ctx context.Context, limit int32) ([]BookSales, error)

	// TopCategories returns up to limit categories ordered by total sold descending.
	TopCategories(ctx context.Context, limit int32) ([]CategorySales, error)

	// StockLevels returns every book with its stock, ordered by stock descending.
	StockLevels(ctx context.Context) ([]StockLevel, error)
}
