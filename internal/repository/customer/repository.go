package customer

import (
	"context"

	"ledger/internal/domain"
)

// MutateFunc derives the new state of a locked customer row.
type MutateFunc func(current domain.Customer) (domain.Customer, error)

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	// Mutate locks the row, applies fn and stores its balance and debt atomically.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Delete(ctx context.Context, id string) error
}
