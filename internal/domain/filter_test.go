package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wednesday = time.Date(2024, time.May, 15, 13, 30, 0, 0, time.UTC)

func TestQueueDateOf(t *testing.T) {
	today := QueueDateOf(RangeToday, wednesday)
	assert.True(t, today.Contains(wednesday.Add(-13*time.Hour)))
	assert.False(t, today.Contains(wednesday.AddDate(0, 0, -1)))

	yesterday := QueueDateOf(RangeYesterday, wednesday)
	assert.True(t, yesterday.Contains(wednesday.AddDate(0, 0, -1)))
	assert.False(t, yesterday.Contains(wednesday))

	week := QueueDateOf(RangeThisWeek, wednesday)
	assert.Equal(t, time.Monday, week.Start.Weekday())
	assert.Equal(t, time.Sunday, week.End.Weekday())
	assert.True(t, week.Contains(time.Date(2024, time.May, 19, 23, 0, 0, 0, time.UTC)))
	assert.False(t, week.Contains(time.Date(2024, time.May, 12, 23, 0, 0, 0, time.UTC)))

	month := QueueDateOf(RangeThisMonth, wednesday)
	assert.Equal(t, 1, month.Start.Day())
	assert.Equal(t, 31, month.End.Day())

	all := QueueDateOf(RangeAllTime, wednesday)
	assert.True(t, all.Contains(time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, all.Contains(wednesday.AddDate(0, 0, 1)))
}

func TestQueueFilters(t *testing.T) {
	amy := strPtr("amy")
	ben := strPtr("ben")
	queues := []Queue{
		{ID: "1", CustomerID: amy, Status: StatusCompleted, Date: wednesday, ProductOrders: []ProductOrder{order(100)}},
		{ID: "2", CustomerID: ben, Status: StatusUnpaid, Date: wednesday, ProductOrders: []ProductOrder{order(500)}},
		{ID: "3", Status: StatusInQueue, Date: wednesday.AddDate(0, 0, -3), ProductOrders: []ProductOrder{order(1000)}},
	}

	ids := func(qs []Queue) []string {
		var out []string
		for _, q := range qs {
			out = append(out, q.ID)
		}
		return out
	}

	f := DefaultQueueFilters(wednesday)
	assert.Equal(t, []string{"1", "2", "3"}, ids(f.Apply(queues)))

	f.CustomerIDs = []string{"amy"}
	assert.Equal(t, []string{"1", "3"}, ids(f.Apply(queues)))

	f.NullCustomerShown = false
	assert.Equal(t, []string{"1"}, ids(f.Apply(queues)))

	f = DefaultQueueFilters(wednesday)
	f.Statuses = []QueueStatus{StatusUnpaid, StatusInQueue}
	assert.Equal(t, []string{"2", "3"}, ids(f.Apply(queues)))

	f = DefaultQueueFilters(wednesday)
	f.Date = QueueDateOf(RangeToday, wednesday)
	assert.Equal(t, []string{"1", "2"}, ids(f.Apply(queues)))

	f = DefaultQueueFilters(wednesday)
	lo, hi := decimal.NewFromInt(200), decimal.NewFromInt(500)
	f.TotalPriceMin, f.TotalPriceMax = &lo, &hi
	assert.Equal(t, []string{"2"}, ids(f.Apply(queues)))
}

func TestCustomerFilters_DebtComparesAbsoluteValues(t *testing.T) {
	customers := []Customer{
		{ID: "1", Balance: 100, Debt: decimal.NewFromInt(-50)},
		{ID: "2", Balance: 900, Debt: decimal.NewFromInt(-500)},
		{ID: "3", Balance: 0, Debt: decimal.Zero},
	}
	lo := decimal.NewFromInt(-100)
	got := CustomerFilters{DebtMin: &lo}.Apply(customers)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	minBalance, maxBalance := int64(50), int64(500)
	got = CustomerFilters{BalanceMin: &minBalance, BalanceMax: &maxBalance}.Apply(customers)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestProductFilters(t *testing.T) {
	products := []Product{{ID: "a", Price: 10}, {ID: "b", Price: 100}}
	maxPrice := int64(50)
	got := ProductFilters{PriceMax: &maxPrice}.Apply(products)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("this_week")
	require.NoError(t, err)
	assert.Equal(t, RangeThisWeek, r)

	r, err = ParseDateRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeAllTime, r)

	_, err = ParseDateRange("forever")
	assert.Error(t, err)
}
