package queue

import (
	"context"
	"time"

	"ledger/internal/domain"
)

// Repository persists queues together with their product orders. Every write also
// rewrites the balance and debt of the customers it touches in the same transaction.
type Repository interface {
	Add(ctx context.Context, q domain.Queue) (*domain.Queue, error)
	Update(ctx context.Context, q domain.Queue) (*domain.Queue, error)
	// Delete removes the queue and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*domain.Queue, error)
	GetByID(ctx context.Context, id string) (*domain.Queue, error)
	List(ctx context.Context) ([]domain.Queue, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]domain.Queue, error)
}
