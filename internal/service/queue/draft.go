package queue

import (
	"slices"
	"time"

	"ledger/internal/domain"
)

// Draft is a queue being edited before it is saved. It keeps the selectable payment
// methods and the temporal customer in step with every change.
type Draft struct {
	initial  *domain.Queue
	customer *domain.Customer
	queue    domain.Queue

	allowed  []domain.PaymentMethod
	temporal *domain.Customer
}

// NewDraft starts from initial when editing a saved queue, or from an empty cash queue
// in IN_QUEUE when initial is nil. customer is the customer currently picked.
func NewDraft(initial *domain.Queue, customer *domain.Customer, now time.Time) *Draft {
	d := &Draft{}
	if initial != nil {
		saved := cloneQueue(*initial)
		d.initial = &saved
		d.queue = cloneQueue(*initial)
	} else {
		d.queue = domain.Queue{
			Status:        domain.StatusInQueue,
			PaymentMethod: domain.PaymentCash,
			Date:          now,
		}
	}
	d.SetCustomer(customer)
	return d
}

func (d *Draft) SetCustomer(c *domain.Customer) {
	if c == nil {
		d.customer = nil
		d.queue.CustomerID = nil
		d.queue.Customer = nil
	} else {
		picked := *c
		id := picked.ID
		d.customer = &picked
		d.queue.CustomerID = &id
		d.queue.Customer = &picked
	}
	d.refreshPaymentMethods()
}

func (d *Draft) SetDate(t time.Time) {
	d.queue.Date = t
}

func (d *Draft) SetStatus(s domain.QueueStatus) {
	d.queue.Status = s
	d.refreshPaymentMethods()
}

// SetProductOrders replaces the line items and recomputes their totals.
func (d *Draft) SetProductOrders(orders []domain.ProductOrder) {
	d.queue.ProductOrders = make([]domain.ProductOrder, len(orders))
	for i, o := range orders {
		d.queue.ProductOrders[i] = o.WithCalculatedTotal()
	}
	d.refreshPaymentMethods()
}

// SetPaymentMethod picks a method. A method outside the allowed set falls back to cash.
func (d *Draft) SetPaymentMethod(m domain.PaymentMethod) {
	d.queue.PaymentMethod = domain.ResolvePaymentMethod(m, d.allowed)
	d.refreshTemporalCustomer()
}

func (d *Draft) AllowedPaymentMethods() []domain.PaymentMethod {
	return slices.Clone(d.allowed)
}

// TemporalCustomer is the picked customer as it would be once the draft is saved.
func (d *Draft) TemporalCustomer() *domain.Customer {
	if d.temporal == nil {
		return nil
	}
	c := *d.temporal
	return &c
}

func (d *Draft) Initial() *domain.Queue {
	return d.initial
}

func (d *Draft) Queue() domain.Queue {
	return cloneQueue(d.queue)
}

// Validate reports why the draft cannot be saved.
func (d *Draft) Validate() error {
	if len(d.queue.ProductOrders) == 0 {
		return domain.Invalid("product orders required")
	}
	return nil
}

func (d *Draft) refreshPaymentMethods() {
	d.allowed = domain.AllowedPaymentMethods(d.customer, d.initial, d.queue)
	if !slices.Contains(d.allowed, d.queue.PaymentMethod) {
		d.queue.PaymentMethod = domain.PaymentCash
	}
	d.refreshTemporalCustomer()
}

func (d *Draft) refreshTemporalCustomer() {
	if d.customer == nil {
		d.temporal = nil
		return
	}
	c := d.customer.WithPayment(d.initial, d.queue)
	d.temporal = &c
}

func cloneQueue(q domain.Queue) domain.Queue {
	q.ProductOrders = slices.Clone(q.ProductOrders)
	return q
}
