package customer

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/domain"
	custrepo "ledger/internal/repository/customer"
)

var (
	// ErrBalanceCeiling is returned when a top-up would overflow the balance.
	ErrBalanceCeiling = domain.Invalid("balance would exceed the maximum allowed")
	// ErrInsufficientBalance is returned when a withdrawal exceeds the balance.
	ErrInsufficientBalance = domain.Invalid("insufficient balance")
)

// Service manages customers and their stored balance.
type Service struct {
	repo custrepo.Repository
}

func New(repo custrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input captures the editable customer fields.
type Input struct {
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// ListOptions selects and orders a customer listing.
type ListOptions struct {
	Filters domain.CustomerFilters
	Sort    domain.SortMethod
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	if in.Balance < 0 {
		return nil, domain.Invalid("balance must not be negative")
	}
	return s.repo.Create(ctx, domain.Customer{Name: name, Balance: in.Balance, Debt: decimal.Zero})
}

// Update renames a customer. Balance changes go through AddBalance and
// WithdrawBalance; debt follows the customer's queues.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Name = name
	return s.repo.Update(ctx, *current)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]domain.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortCustomers(opts.Filters.Apply(customers), opts.Sort), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddBalance tops up the stored balance.
func (s *Service) AddBalance(ctx context.Context, id string, amount int64) (*domain.Customer, error) {
	if amount <= 0 {
		return nil, domain.Invalid("amount must be positive")
	}
	return s.repo.Mutate(ctx, id, func(c domain.Customer) (domain.Customer, error) {
		if !CanAddBalance(c.Balance, amount) {
			return c, ErrBalanceCeiling
		}
		c.Balance += amount
		return c, nil
	})
}

// WithdrawBalance takes money out of the stored balance.
func (s *Service) WithdrawBalance(ctx context.Context, id string, amount int64) (*domain.Customer, error) {
	if amount <= 0 {
		return nil, domain.Invalid("amount must be positive")
	}
	return s.repo.Mutate(ctx, id, func(c domain.Customer) (domain.Customer, error) {
		if !CanWithdrawBalance(c.Balance, amount) {
			return c, ErrInsufficientBalance
		}
		c.Balance -= amount
		return c, nil
	})
}

// CanAddBalance reports whether balance+amount stays representable.
func CanAddBalance(balance, amount int64) bool {
	return amount >= 0 && balance <= math.MaxInt64-amount
}

// CanWithdrawBalance reports whether the balance covers amount.
func CanWithdrawBalance(balance, amount int64) bool {
	return amount >= 0 && balance-amount >= 0
}

// IsBalanceError reports whether err is one of the balance guard errors.
func IsBalanceError(err error) bool {
	return errors.Is(err, ErrBalanceCeiling) || errors.Is(err, ErrInsufficientBalance)
}
