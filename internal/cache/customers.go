package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ledger/internal/domain"
	customerrepo "ledger/internal/repository/customer"
)

const allCustomersKey = "customers:all"

func customerKey(id string) string {
	return "customer:" + id
}

// Customers is a read-through cache over a customer repository.
type Customers struct {
	repo  customerrepo.Repository
	store store
}

var _ customerrepo.Repository = (*Customers)(nil)

func NewCustomers(repo customerrepo.Repository, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Customers {
	return &Customers{repo: repo, store: newStore(rdb, ttl, logger)}
}

func (c *Customers) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return readThrough(ctx, c.store, customerKey(id), func() (*domain.Customer, error) {
		return c.repo.GetByID(ctx, id)
	})
}

func (c *Customers) List(ctx context.Context) ([]domain.Customer, error) {
	return readThrough(ctx, c.store, allCustomersKey, func() ([]domain.Customer, error) {
		return c.repo.List(ctx)
	})
}

func (c *Customers) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	defer c.store.invalidate(ctx, allCustomersKey)
	return c.repo.Create(ctx, customer)
}

func (c *Customers) Update(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	defer c.Invalidate(ctx, customer.ID)
	return c.repo.Update(ctx, customer)
}

func (c *Customers) Mutate(ctx context.Context, id string, fn customerrepo.MutateFunc) (*domain.Customer, error) {
	defer c.Invalidate(ctx, id)
	return c.repo.Mutate(ctx, id, fn)
}

func (c *Customers) Delete(ctx context.Context, id string) error {
	defer c.Invalidate(ctx, id)
	return c.repo.Delete(ctx, id)
}

// Invalidate drops the cached customers and the cached listing. Queue writes call
// it for the customers whose balance or debt they changed.
func (c *Customers) Invalidate(ctx context.Context, ids ...string) {
	keys := []string{allCustomersKey}
	for _, id := range ids {
		if id != "" {
			keys = append(keys, customerKey(id))
		}
	}
	c.store.invalidate(ctx, keys...)
}
