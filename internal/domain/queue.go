package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QueueStatus is the lifecycle state of a queue.
type QueueStatus string

const (
	StatusInQueue   QueueStatus = "IN_QUEUE"
	StatusUnpaid    QueueStatus = "UNPAID"
	StatusCompleted QueueStatus = "COMPLETED"
)

// QueueStatuses lists every status in display order.
var QueueStatuses = []QueueStatus{StatusInQueue, StatusUnpaid, StatusCompleted}

// ParseQueueStatus accepts any casing of a known status.
func ParseQueueStatus(s string) (QueueStatus, error) {
	switch QueueStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusInQueue:
		return StatusInQueue, nil
	case StatusUnpaid:
		return StatusUnpaid, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown queue status %q", s)
}

// PaymentMethod is how a queue gets paid.
type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "CASH"
	PaymentAccountBalance PaymentMethod = "ACCOUNT_BALANCE"
)

// ParsePaymentMethod accepts any casing of a known payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentAccountBalance:
		return PaymentAccountBalance, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// ProductOrder is a line item of a queue holding a frozen snapshot of the product.
type ProductOrder struct {
	ID           string          `json:"id,omitempty"`
	QueueID      string          `json:"queueId,omitempty"`
	ProductID    *string         `json:"productId,omitempty"`
	ProductName  string          `json:"productName"`
	ProductPrice int64           `json:"productPrice"`
	Quantity     decimal.Decimal `json:"quantity"`
	Discount     int64           `json:"discount"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// CalculateTotalPrice returns price*quantity-discount, never below zero.
func CalculateTotalPrice(price int64, quantity decimal.Decimal, discount int64) decimal.Decimal {
	total := decimal.NewFromInt(price).Mul(quantity).Sub(decimal.NewFromInt(discount))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// WithCalculatedTotal returns a copy whose TotalPrice is recomputed from the snapshot.
func (o ProductOrder) WithCalculatedTotal() ProductOrder {
	o.TotalPrice = CalculateTotalPrice(o.ProductPrice, o.Quantity, o.Discount)
	return o
}

// Queue is an order placed by an optional customer.
type Queue struct {
	ID            string         `json:"id,omitempty"`
	CustomerID    *string        `json:"customerId,omitempty"`
	Customer      *Customer      `json:"customer,omitempty"`
	Status        QueueStatus    `json:"status"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	Date          time.Time      `json:"date"`
	ProductOrders []ProductOrder `json:"productOrders"`
	CreatedAt     time.Time      `json:"createdAt,omitempty"`
}

// GrandTotalPrice sums every line total. Line totals are already net of their discount.
func (q Queue) GrandTotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, o := range q.ProductOrders {
		total = total.Add(o.TotalPrice)
	}
	return total
}

// TotalDiscount sums every line discount.
func (q Queue) TotalDiscount() int64 {
	var total int64
	for _, o := range q.ProductOrders {
		total += o.Discount
	}
	return total
}

// BelongsTo reports whether the queue references the given customer.
func (q Queue) BelongsTo(customerID string) bool {
	return q.CustomerID != nil && customerID != "" && *q.CustomerID == customerID
}

func (q Queue) chargesAccountBalance() bool {
	return q.Status == StatusCompleted && q.PaymentMethod == PaymentAccountBalance
}

func (q Queue) isUnpaid() bool {
	return q.Status == StatusUnpaid
}
