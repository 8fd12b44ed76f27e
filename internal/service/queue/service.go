package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ledger/internal/domain"
	"ledger/internal/events"
	"ledger/internal/logging"
	queuerepo "ledger/internal/repository/queue"
)

type customerReader interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Invalidator drops cached customers whose ledger a queue write touched.
type Invalidator interface {
	Invalidate(ctx context.Context, ids ...string)
}

type Service struct {
	repo      queuerepo.Repository
	customers customerReader
	products  productReader
	publisher events.Publisher
	cache     Invalidator
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithProducts fills blank line item snapshots from the catalog.
func WithProducts(p productReader) Option {
	return func(s *Service) { s.products = p }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithInvalidator(c Invalidator) Option {
	return func(s *Service) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(repo queuerepo.Repository, customers customerReader, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		customers: customers,
		publisher: events.Nop{},
		logger:    logging.OrNop(logger).Named("queue_service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ProductOrderInput struct {
	ID           string          `json:"id"`
	ProductID    *string         `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice int64           `json:"productPrice"`
	Quantity     decimal.Decimal `json:"quantity"`
	Discount     int64           `json:"discount"`
}

type Input struct {
	CustomerID    *string              `json:"customerId"`
	Status        domain.QueueStatus   `json:"status"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Date          time.Time            `json:"date"`
	ProductOrders []ProductOrderInput  `json:"productOrders"`
}

type ListOptions struct {
	Filters domain.QueueFilters
	Sort    domain.SortMethod
}

// Preview is what the queue would look like if the draft were saved now.
type Preview struct {
	AllowedPaymentMethods []domain.PaymentMethod `json:"allowedPaymentMethods"`
	PaymentMethod         domain.PaymentMethod   `json:"paymentMethod"`
	TemporalCustomer      *domain.Customer       `json:"temporalCustomer"`
	GrandTotalPrice       decimal.Decimal        `json:"grandTotalPrice"`
	TotalDiscount         int64                  `json:"totalDiscount"`
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Queue, error) {
	d, err := s.draft(ctx, nil, in)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	q, err := s.repo.Add(ctx, d.Queue())
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, events.QueueAdded, *q, q.CustomerID)
	return q, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Queue, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := s.draft(ctx, old, in)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	updated := d.Queue()
	updated.ID = id
	q, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, events.QueueUpdated, *q, old.CustomerID, q.CustomerID)
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	old, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.afterWrite(ctx, events.QueueDeleted, *old, old.CustomerID)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Queue, error) {
	return s.repo.GetByID(ctx, id)
}

// DefaultListOptions shows every queue, newest first.
func (s *Service) DefaultListOptions() ListOptions {
	return ListOptions{
		Filters: domain.DefaultQueueFilters(s.now()),
		Sort:    domain.SortMethod{By: domain.SortByDate, Ascending: false},
	}
}

// List loads only the dated window when the filters name one. Nil statuses keep all.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]domain.Queue, error) {
	var (
		queues []domain.Queue
		err    error
	)
	if d := opts.Filters.Date; d.Range == domain.RangeAllTime || d.Start.IsZero() {
		queues, err = s.repo.List(ctx)
	} else {
		from, to := dayBounds(d)
		queues, err = s.repo.ListInRange(ctx, from, to)
	}
	if err != nil {
		return nil, err
	}
	if opts.Filters.Date.Start.IsZero() {
		opts.Filters.Date = domain.QueueDateOf(domain.RangeAllTime, s.now())
	}
	if opts.Filters.Statuses == nil {
		opts.Filters.Statuses = domain.QueueStatuses
	}
	return domain.SortQueues(opts.Filters.Apply(queues), opts.Sort), nil
}

// Preview evaluates in without saving. queueID names the saved queue being edited.
func (s *Service) Preview(ctx context.Context, queueID string, in Input) (*Preview, error) {
	var initial *domain.Queue
	if queueID != "" {
		q, err := s.repo.GetByID(ctx, queueID)
		if err != nil {
			return nil, err
		}
		initial = q
	}
	d, err := s.draft(ctx, initial, in)
	if err != nil {
		return nil, err
	}
	q := d.Queue()
	return &Preview{
		AllowedPaymentMethods: d.AllowedPaymentMethods(),
		PaymentMethod:         q.PaymentMethod,
		TemporalCustomer:      d.TemporalCustomer(),
		GrandTotalPrice:       q.GrandTotalPrice(),
		TotalDiscount:         q.TotalDiscount(),
	}, nil
}

func (s *Service) draft(ctx context.Context, initial *domain.Queue, in Input) (*Draft, error) {
	status, method := domain.StatusInQueue, domain.PaymentCash
	if initial != nil {
		status, method = initial.Status, initial.PaymentMethod
	}
	var err error
	if in.Status != "" {
		if status, err = domain.ParseQueueStatus(string(in.Status)); err != nil {
			return nil, domain.Invalid(err.Error())
		}
	}
	if in.PaymentMethod != "" {
		if method, err = domain.ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
			return nil, domain.Invalid(err.Error())
		}
	}

	customer, err := s.customer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.productOrders(ctx, in.ProductOrders)
	if err != nil {
		return nil, err
	}

	d := NewDraft(initial, customer, s.now())
	if !in.Date.IsZero() {
		d.SetDate(in.Date)
	}
	d.SetStatus(status)
	d.SetProductOrders(orders)
	d.SetPaymentMethod(method)
	return d, nil
}

func (s *Service) customer(ctx context.Context, id *string) (*domain.Customer, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	c, err := s.customers.GetByID(ctx, strings.TrimSpace(*id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Invalid("customer not found")
	}
	return c, err
}

func (s *Service) productOrders(ctx context.Context, in []ProductOrderInput) ([]domain.ProductOrder, error) {
	orders := make([]domain.ProductOrder, 0, len(in))
	for _, o := range in {
		order := domain.ProductOrder{
			ID:           o.ID,
			ProductID:    o.ProductID,
			ProductName:  strings.TrimSpace(o.ProductName),
			ProductPrice: o.ProductPrice,
			Quantity:     o.Quantity,
			Discount:     o.Discount,
		}
		if order.ProductName == "" && order.ProductID != nil && s.products != nil {
			p, err := s.products.GetByID(ctx, *order.ProductID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Invalid("product not found")
			}
			if err != nil {
				return nil, err
			}
			order.ProductName, order.ProductPrice = p.Name, p.Price
		}
		switch {
		case order.ProductName == "":
			return nil, domain.Invalid("product name required")
		case order.ProductPrice < 0:
			return nil, domain.Invalid("product price must not be negative")
		case order.Quantity.IsNegative():
			return nil, domain.Invalid("quantity must not be negative")
		case order.Discount < 0:
			return nil, domain.Invalid("discount must not be negative")
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *Service) afterWrite(ctx context.Context, eventType string, q domain.Queue, customerIDs ...*string) {
	ids := make([]string, 0, len(customerIDs))
	for _, id := range customerIDs {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	if s.cache != nil && len(ids) > 0 {
		s.cache.Invalidate(ctx, ids...)
	}

	e, err := events.NewQueueEvent(eventType, q)
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.Warn("publish queue event", zap.String("type", eventType), zap.String("queue_id", q.ID), zap.Error(err))
	}
}

func dayBounds(d domain.QueueDate) (time.Time, time.Time) {
	loc := d.Start.Location()
	from := time.Date(d.Start.Year(), d.Start.Month(), d.Start.Day(), 0, 0, 0, 0, loc)
	end := d.End.In(loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}
