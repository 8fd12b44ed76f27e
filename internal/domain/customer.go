package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer holds a stored balance (prepaid money) and debt. Debt is negative while the
// customer owes the business.
type Customer struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   int64           `json:"balance"`
	Debt      decimal.Decimal `json:"debt"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BalanceOnMadePayment returns the balance after q is committed. The result may be
// negative; callers gate the payment method with AllowedPaymentMethods beforehand.
func (c Customer) BalanceOnMadePayment(q Queue) int64 {
	if !q.BelongsTo(c.ID) || !q.chargesAccountBalance() {
		return c.Balance
	}
	return c.Balance - q.GrandTotalPrice().IntPart()
}

// BalanceOnRevertedPayment returns the balance after the effect of q is undone.
func (c Customer) BalanceOnRevertedPayment(q Queue) int64 {
	if !q.BelongsTo(c.ID) || !q.chargesAccountBalance() {
		return c.Balance
	}
	return c.Balance + q.GrandTotalPrice().IntPart()
}

// BalanceOnUpdatedPayment reverts old and then applies updated. The result may be
// negative; callers gate the payment method with AllowedPaymentMethods beforehand.
func (c Customer) BalanceOnUpdatedPayment(old, updated Queue) int64 {
	balance := c.BalanceOnRevertedPayment(old)
	if updated.BelongsTo(c.ID) && updated.chargesAccountBalance() {
		balance -= updated.GrandTotalPrice().IntPart()
	}
	return balance
}

// DebtOnMadePayment returns the debt after q is committed.
func (c Customer) DebtOnMadePayment(q Queue) decimal.Decimal {
	if !q.BelongsTo(c.ID) || !q.isUnpaid() {
		return c.Debt
	}
	return c.Debt.Sub(q.GrandTotalPrice())
}

// DebtOnRevertedPayment returns the debt after the effect of q is undone.
func (c Customer) DebtOnRevertedPayment(q Queue) decimal.Decimal {
	if !q.BelongsTo(c.ID) || !q.isUnpaid() {
		return c.Debt
	}
	return c.Debt.Add(q.GrandTotalPrice())
}

// DebtOnUpdatedPayment reverts old and then applies updated.
func (c Customer) DebtOnUpdatedPayment(old, updated Queue) decimal.Decimal {
	debt := c.DebtOnRevertedPayment(old)
	if updated.BelongsTo(c.ID) && updated.isUnpaid() {
		debt = debt.Sub(updated.GrandTotalPrice())
	}
	return debt
}

// IsBalanceSufficient reports whether paying q with the account balance keeps the
// balance non-negative. When old is set, its charge is reverted first.
func (c Customer) IsBalanceSufficient(old *Queue, q Queue) bool {
	balance := c.Balance
	if old != nil {
		balance = c.BalanceOnRevertedPayment(*old)
	}
	return balance-q.GrandTotalPrice().IntPart() >= 0
}

// WithPayment returns the temporal customer: the customer as it would look once q is
// saved. A nil old means q is a new queue.
func (c Customer) WithPayment(old *Queue, q Queue) Customer {
	out := c
	if old == nil {
		out.Balance = c.BalanceOnMadePayment(q)
		out.Debt = c.DebtOnMadePayment(q)
		return out
	}
	out.Balance = c.BalanceOnUpdatedPayment(*old, q)
	out.Debt = c.DebtOnUpdatedPayment(*old, q)
	return out
}
