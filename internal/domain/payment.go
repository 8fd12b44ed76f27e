package domain

import "slices"

// AllowedPaymentMethods returns the payment methods selectable for q. Cash is always
// allowed; the account balance only for completed queues of a customer who can afford it.
// old is the persisted version of q when editing, nil when creating.
func AllowedPaymentMethods(customer *Customer, old *Queue, q Queue) []PaymentMethod {
	allowed := []PaymentMethod{PaymentCash}
	if customer == nil || q.Status != StatusCompleted {
		return allowed
	}
	if customer.IsBalanceSufficient(old, q) {
		allowed = append(allowed, PaymentAccountBalance)
	}
	return allowed
}

// ResolvePaymentMethod keeps the requested method when allowed and falls back to cash.
func ResolvePaymentMethod(requested PaymentMethod, allowed []PaymentMethod) PaymentMethod {
	if slices.Contains(allowed, requested) {
		return requested
	}
	return PaymentCash
}
