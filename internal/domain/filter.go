package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange names a preset window of queue dates.
type DateRange string

const (
	RangeAllTime   DateRange = "ALL_TIME"
	RangeToday     DateRange = "TODAY"
	RangeYesterday DateRange = "YESTERDAY"
	RangeThisWeek  DateRange = "THIS_WEEK"
	RangeThisMonth DateRange = "THIS_MONTH"
	RangeCustom    DateRange = "CUSTOM"
)

// ParseDateRange accepts any casing of a known range; empty means all time.
func ParseDateRange(s string) (DateRange, error) {
	r := DateRange(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case "":
		return RangeAllTime, nil
	case RangeAllTime, RangeToday, RangeYesterday, RangeThisWeek, RangeThisMonth, RangeCustom:
		return r, nil
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// QueueDate is an inclusive window of calendar days in Start's location.
type QueueDate struct {
	Range DateRange `json:"range"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// QueueDateOf resolves a preset range relative to now. Weeks start on Monday.
// Custom ranges need explicit bounds, see CustomQueueDate.
func QueueDateOf(r DateRange, now time.Time) QueueDate {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	endOf := func(day time.Time) time.Time {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	epoch := time.Unix(0, 0).In(loc)

	switch r {
	case RangeToday:
		return QueueDate{Range: r, Start: today, End: endOf(today)}
	case RangeYesterday:
		y := today.AddDate(0, 0, -1)
		return QueueDate{Range: r, Start: y, End: endOf(y)}
	case RangeThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return QueueDate{Range: r, Start: monday, End: endOf(monday.AddDate(0, 0, 6))}
	case RangeThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return QueueDate{Range: r, Start: first, End: first.AddDate(0, 1, 0).Add(-time.Nanosecond)}
	case RangeCustom:
		return QueueDate{Range: r, Start: epoch, End: epoch}
	}
	return QueueDate{Range: RangeAllTime, Start: epoch, End: endOf(today)}
}

// CustomQueueDate spans the calendar days from start to end.
func CustomQueueDate(start, end time.Time) QueueDate {
	return QueueDate{Range: RangeCustom, Start: start, End: end.In(start.Location())}
}

// Contains compares calendar days only.
func (d QueueDate) Contains(t time.Time) bool {
	day := dayOf(t.In(d.Start.Location()))
	return !day.Before(dayOf(d.Start)) && !day.After(dayOf(d.End.In(d.Start.Location())))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// QueueFilters narrows a queue listing. Empty CustomerIDs keeps every customer.
type QueueFilters struct {
	CustomerIDs       []string
	NullCustomerShown bool
	Statuses          []QueueStatus
	Date              QueueDate
	TotalPriceMin     *decimal.Decimal
	TotalPriceMax     *decimal.Decimal
}

// DefaultQueueFilters shows every queue dated up to the end of today.
func DefaultQueueFilters(now time.Time) QueueFilters {
	return QueueFilters{
		NullCustomerShown: true,
		Statuses:          slices.Clone(QueueStatuses),
		Date:              QueueDateOf(RangeAllTime, now),
	}
}

// Match reports whether q passes every filter.
func (f QueueFilters) Match(q Queue) bool {
	if q.CustomerID == nil {
		if !f.NullCustomerShown {
			return false
		}
	} else if len(f.CustomerIDs) > 0 && !slices.Contains(f.CustomerIDs, *q.CustomerID) {
		return false
	}
	if !slices.Contains(f.Statuses, q.Status) {
		return false
	}
	if !f.Date.Contains(q.Date) {
		return false
	}
	total := q.GrandTotalPrice()
	if f.TotalPriceMin != nil && total.LessThan(*f.TotalPriceMin) {
		return false
	}
	if f.TotalPriceMax != nil && total.GreaterThan(*f.TotalPriceMax) {
		return false
	}
	return true
}

// Apply returns the queues that pass the filters, keeping their order.
func (f QueueFilters) Apply(queues []Queue) []Queue {
	out := make([]Queue, 0, len(queues))
	for _, q := range queues {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}

// CustomerFilters narrows a customer listing. Debt bounds compare absolute values.
type CustomerFilters struct {
	BalanceMin *int64
	BalanceMax *int64
	DebtMin    *decimal.Decimal
	DebtMax    *decimal.Decimal
}

func (f CustomerFilters) Match(c Customer) bool {
	if f.BalanceMin != nil && c.Balance < *f.BalanceMin {
		return false
	}
	if f.BalanceMax != nil && c.Balance > *f.BalanceMax {
		return false
	}
	debt := c.Debt.Abs()
	if f.DebtMin != nil && debt.LessThan(f.DebtMin.Abs()) {
		return false
	}
	if f.DebtMax != nil && debt.GreaterThan(f.DebtMax.Abs()) {
		return false
	}
	return true
}

func (f CustomerFilters) Apply(customers []Customer) []Customer {
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// ProductFilters narrows a product listing by price.
type ProductFilters struct {
	PriceMin *int64
	PriceMax *int64
}

func (f ProductFilters) Match(p Product) bool {
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	return true
}

func (f ProductFilters) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
