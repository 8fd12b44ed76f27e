package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBy names the key of a listing order.
type SortBy string

const (
	SortByName         SortBy = "NAME"
	SortByBalance      SortBy = "BALANCE"
	SortByPrice        SortBy = "PRICE"
	SortByCustomerName SortBy = "CUSTOMER_NAME"
	SortByDate         SortBy = "DATE"
	SortByTotalPrice   SortBy = "TOTAL_PRICE"
)

// SortMethod pairs a key with a direction.
type SortMethod struct {
	By        SortBy `json:"sortBy"`
	Ascending bool   `json:"isAscending"`
}

// ParseSortMethod validates by against the keys a listing supports. An empty by
// selects the first allowed key.
func ParseSortMethod(by string, ascending bool, allowed ...SortBy) (SortMethod, error) {
	key := SortBy(strings.ToUpper(strings.TrimSpace(by)))
	if key == "" && len(allowed) > 0 {
		key = allowed[0]
	}
	if !slices.Contains(allowed, key) {
		return SortMethod{}, fmt.Errorf("unsupported sort %q", by)
	}
	return SortMethod{By: key, Ascending: ascending}, nil
}

// nameCollator orders names the way Indonesian speakers expect, ignoring case
// but not accents.
func nameCollator() *collate.Collator {
	return collate.New(language.Indonesian, collate.IgnoreCase)
}

func direct(ascending bool, c int) int {
	if ascending {
		return c
	}
	return -c
}

// SortCustomers returns a sorted copy.
func SortCustomers(customers []Customer, m SortMethod) []Customer {
	out := slices.Clone(customers)
	switch m.By {
	case SortByBalance:
		slices.SortStableFunc(out, func(a, b Customer) int {
			return direct(m.Ascending, cmp.Compare(a.Balance, b.Balance))
		})
	default:
		col := nameCollator()
		slices.SortStableFunc(out, func(a, b Customer) int {
			return direct(m.Ascending, col.CompareString(a.Name, b.Name))
		})
	}
	return out
}

// SortProducts returns a sorted copy.
func SortProducts(products []Product, m SortMethod) []Product {
	out := slices.Clone(products)
	switch m.By {
	case SortByPrice:
		slices.SortStableFunc(out, func(a, b Product) int {
			return direct(m.Ascending, cmp.Compare(a.Price, b.Price))
		})
	default:
		col := nameCollator()
		slices.SortStableFunc(out, func(a, b Product) int {
			return direct(m.Ascending, col.CompareString(a.Name, b.Name))
		})
	}
	return out
}

// SortQueues returns a sorted copy. Queues without a customer sort last when
// ascending by customer name and first when descending.
func SortQueues(queues []Queue, m SortMethod) []Queue {
	out := slices.Clone(queues)
	switch m.By {
	case SortByDate:
		slices.SortStableFunc(out, func(a, b Queue) int {
			return direct(m.Ascending, a.Date.Compare(b.Date))
		})
	case SortByTotalPrice:
		slices.SortStableFunc(out, func(a, b Queue) int {
			return direct(m.Ascending, a.GrandTotalPrice().Cmp(b.GrandTotalPrice()))
		})
	default:
		col := nameCollator()
		slices.SortStableFunc(out, func(a, b Queue) int {
			an, bn := customerName(a), customerName(b)
			var c int
			switch {
			case an == nil && bn == nil:
				c = 0
			case an == nil:
				c = 1
			case bn == nil:
				c = -1
			default:
				c = col.CompareString(*an, *bn)
			}
			return direct(m.Ascending, c)
		})
	}
	return out
}

func customerName(q Queue) *string {
	if q.Customer == nil {
		return nil
	}
	return &q.Customer.Name
}
