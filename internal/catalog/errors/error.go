// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var ErrBookNotFound = errors.New("book not found")
var ErrBookExists = errors.New("book with this ISBN already exists")
var ErrNegativePrice = errors.New("book price must not be negative")
var ErrNegativeStock = errors.New("book stock must not be negative")
var ErrNegativeSold = errors.New("book sold count must not be negative")
