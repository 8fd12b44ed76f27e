package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ledger/internal/domain"
	productrepo "ledger/internal/repository/product"
)

const allProductsKey = "products:all"

func productKey(id string) string {
	return "product:" + id
}

// Products is a read-through cache over a product repository.
type Products struct {
	repo  productrepo.Repository
	store store
}

var _ productrepo.Repository = (*Products)(nil)

func NewProducts(repo productrepo.Repository, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Products {
	return &Products{repo: repo, store: newStore(rdb, ttl, logger)}
}

func (p *Products) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return readThrough(ctx, p.store, productKey(id), func() (*domain.Product, error) {
		return p.repo.GetByID(ctx, id)
	})
}

func (p *Products) List(ctx context.Context) ([]domain.Product, error) {
	return readThrough(ctx, p.store, allProductsKey, func() ([]domain.Product, error) {
		return p.repo.List(ctx)
	})
}

func (p *Products) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	defer p.store.invalidate(ctx, allProductsKey)
	return p.repo.Create(ctx, product)
}

func (p *Products) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	defer p.store.invalidate(ctx, allProductsKey, productKey(product.ID))
	return p.repo.Update(ctx, product)
}

func (p *Products) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	res, err := p.repo.Upsert(ctx, product)
	if err != nil {
		return nil, err
	}
	p.store.invalidate(ctx, allProductsKey, productKey(res.ID))
	return res, nil
}

func (p *Products) Delete(ctx context.Context, id string) error {
	defer p.store.invalidate(ctx, allProductsKey, productKey(id))
	return p.repo.Delete(ctx, id)
}
