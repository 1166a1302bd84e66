package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrIncompleteSelection is returned when a configuration lacks a vessel,
	// a closure or a price.
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidInput        = errors.New("invalid input")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrUnavailable         = errors.New("option unavailable")
	// ErrInvalidCatalog wraps every catalog validation failure.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
