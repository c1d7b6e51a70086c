package catalog

import (
	"context"
	"sort"
	"sync"

	catalogerrors "github.com/abgdnv/bookstore/internal/catalog/errors"
)

// inMemory implements BookStore using an in-memory map.
// Insertion order is preserved so that aggregate ties resolve the same way
// the database's natural order does.
type inMemory struct {
	mu    sync.RWMutex
	books map[string]Book
	order []string
}

// NewInMemoryStore creates a new instance of BookStore backed by memory.
func NewInMemoryStore() BookStore {
	return &inMemory{
		books: make(map[string]Book),
	}
}

func (s *inMemory) Create(_ context.Context, book Book) error {
	if book.Price < 0 {
		return catalogerrors.ErrNegativePrice
	}
	if book.Stock < 0 {
		return catalogerrors.ErrNegativeStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[book.ISBN]; exists {
		return catalogerrors.ErrBookExists
	}
	s.books[book.ISBN] = book
	s.order = append(s.order, book.ISBN)
	return nil
}

func (s *inMemory) PriceAndTitle(_ context.Context, isbn string) (int64, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[isbn]
	if !ok {
		return 0, "", catalogerrors.ErrBookNotFound
	}
	return book.Price, book.Title, nil
}

func (s *inMemory) SoldAndStock(_ context.Context, isbn string) (int32, int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[isbn]
	if !ok {
		return 0, 0, catalogerrors.ErrBookNotFound
	}
	return book.Sold, book.Stock, nil
}

func (s *inMemory) SetSoldAndStock(_ context.Context, isbn string, sold, stock int32) error {
	if sold < 0 {
		return catalogerrors.ErrNegativeSold
	}
	if stock < 0 {
		return catalogerrors.ErrNegativeStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[isbn]
	if !ok {
		return catalogerrors.ErrBookNotFound
	}
	book.Sold = sold
	book.Stock = stock
	s.books[isbn] = book
	return nil
}

func (s *inMemory) TopSellingBooks(_ context.Context, limit int32) ([]BookSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]BookSales, 0, len(s.order))
	for _, isbn := range s.order {
		book := s.books[isbn]
		result = append(result, BookSales{ISBN: book.ISBN, Title: book.Title, Author: book.Author, Sold: book.Sold})
	}
	// Stable sort keeps insertion order for equal sold counts.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Sold > result[j].Sold
	})
	if int32(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *inMemory) TopCategories(_ context.Context, limit int32) ([]CategorySales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int64)
	var categories []string
	for _, isbn := range s.order {
		book := s.books[isbn]
		if _, seen := totals[book.Category]; !seen {
			categories = append(categories, book.Category)
		}
		totals[book.Category] += int64(book.Sold)
	}

	result := make([]CategorySales, 0, len(categories))
	for _, category := range categories {
		result = append(result, CategorySales{Category: category, TotalSold: totals[category]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSold > result[j].TotalSold
	})
	if int32(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *inMemory) StockLevels(_ context.Context) ([]StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]StockLevel, 0, len(s.order))
	for _, isbn := range s.order {
		book := s.books[isbn]
		result = append(result, StockLevel{ISBN: book.ISBN, Title: book.Title, Stock: book.Stock})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Stock > result[j].Stock
	})
	return result, nil
}
