package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/domain"
	customerrepo "ledger/internal/repository/customer"
)

type countingCustomerRepo struct {
	customers map[string]domain.Customer
	gets      int
	lists     int
}

func (r *countingCustomerRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.customers[c.ID] = c
	return &c, nil
}

func (r *countingCustomerRepo) Update(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, ok := r.customers[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.customers[c.ID] = c
	return &c, nil
}

func (r *countingCustomerRepo) Mutate(_ context.Context, id string, fn customerrepo.MutateFunc) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next, err := fn(c)
	if err != nil {
		return nil, err
	}
	r.customers[id] = next
	return &next, nil
}

func (r *countingCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.gets++
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *countingCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.lists++
	var out []domain.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *countingCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.customers, id)
	return nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCustomers_ReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	repo := &countingCustomerRepo{customers: map[string]domain.Customer{
		"1": {ID: "1", Name: "Amy", Balance: 500},
	}}
	cached := NewCustomers(repo, rdb, time.Minute, nil)

	for i := 0; i < 3; i++ {
		c, err := cached.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, int64(500), c.Balance)
	}
	assert.Equal(t, 1, repo.gets)

	_, err := cached.Mutate(ctx, "1", func(c domain.Customer) (domain.Customer, error) {
		c.Balance = 900
		return c, nil
	})
	require.NoError(t, err)

	c, err := cached.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(900), c.Balance)
	assert.Equal(t, 2, repo.gets)
}

func TestCustomers_CachesNotFound(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	repo := &countingCustomerRepo{customers: map[string]domain.Customer{}}
	cached := NewCustomers(repo, rdb, time.Minute, nil)

	_, err := cached.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cached.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, repo.gets)

	mr.FastForward(2 * time.Minute)
	_, err = cached.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, repo.gets)
}

func TestCustomers_ListInvalidatedByCreate(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	repo := &countingCustomerRepo{customers: map[string]domain.Customer{}}
	cached := NewCustomers(repo, rdb, time.Minute, nil)

	list, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = cached.Create(ctx, domain.Customer{ID: "2", Name: "Ben"})
	require.NoError(t, err)

	list, err = cached.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, repo.lists)
}

func TestCustomers_RedisDownFallsBackToRepo(t *testing.T) {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := &countingCustomerRepo{customers: map[string]domain.Customer{"1": {ID: "1", Name: "Amy"}}}
	cached := NewCustomers(repo, rdb, time.Minute, nil)

	c, err := cached.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Amy", c.Name)
}

func TestIdempotency(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	store := NewIdempotency(rdb, time.Hour)
	key := store.Key("queues", "abc")

	seen, err := store.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, store.Release(ctx, key))
	seen, err = store.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)
}
