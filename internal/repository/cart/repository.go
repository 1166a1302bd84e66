package cart

import (
	"context"

	cartengine "bottlecraft/internal/cart"
	"bottlecraft/internal/domain"
)

type CreateCartInput struct {
	Currency string
}

// MutateFunc changes a cart in place. Returning an error discards the change.
type MutateFunc func(c *cartengine.Cart) error

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Update(ctx context.Context, id string, fn MutateFunc) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}
