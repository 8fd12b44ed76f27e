package product

import (
	"context"
	"strings"

	"ledger/internal/domain"
	productrepo "ledger/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type ListOptions struct {
	Filters domain.ProductFilters
	Sort    domain.SortMethod
}

func (in Input) validate() (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, domain.Invalid("name required")
	}
	if in.Price < 0 {
		return domain.Product{}, domain.Invalid("price must not be negative")
	}
	return domain.Product{Name: name, Price: in.Price}, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Product, error) {
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

// Update changes the catalog entry only. Queues keep the snapshot taken when they were saved.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Product, error) {
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, p)
}

// Upsert creates the product or reprices the one with the same name.
func (s *Service) Upsert(ctx context.Context, in Input) (*domain.Product, error) {
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortProducts(opts.Filters.Apply(products), opts.Sort), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
